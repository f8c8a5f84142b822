package handlers

import (
	"net/http"

	"bookswap-api/internal/dto"
	"bookswap-api/internal/models"
	"bookswap-api/internal/repository"
	"bookswap-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TicketHandler struct {
	tickets *service.TicketService
	log     *zap.Logger
}

func NewTicketHandler(tickets *service.TicketService, log *zap.Logger) *TicketHandler {
	return &TicketHandler{tickets: tickets, log: log}
}

// Create godoc
// @Summary Submit a helpdesk ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Param ticket body dto.CreateTicketRequest true "Ticket data"
// @Success 201 {object} dto.TicketResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Duplicate submission within the hour"
// @Router /api/tickets [post]
func (h *TicketHandler) Create(c *gin.Context) {
	var req dto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	t, err := h.tickets.CreateTicket(c.Request.Context(), service.CreateTicketInput{
		StudentID:   req.StudentID,
		StudentName: req.StudentName,
		Email:       req.Email,
		Subject:     req.Subject,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTicketResponse(t))
}

// List godoc
// @Summary List tickets
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param student_id query string false "Student filter"
// @Param archived query bool false "Archived filter"
// @Success 200 {object} dto.TicketListResponse
// @Router /api/tickets [get]
func (h *TicketHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	f := repository.TicketListFilter{Limit: limit, Offset: offset}
	if st := c.Query("status"); st != "" {
		s := models.TicketStatus(st)
		f.Status = &s
	}
	if sid := c.Query("student_id"); sid != "" {
		f.StudentID = &sid
	}
	if arch := c.Query("archived"); arch != "" {
		v := arch == "true"
		f.Archived = &v
	}
	list, total, err := h.tickets.ListTickets(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := dto.TicketListResponse{Tickets: make([]dto.TicketResponse, 0, len(list)), Total: total}
	for _, t := range list {
		resp.Tickets = append(resp.Tickets, dto.ToTicketResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Get a ticket with its response thread
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket id"
// @Success 200 {object} dto.TicketResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/tickets/{id} [get]
func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	t, err := h.tickets.GetTicket(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTicketResponse(t))
}

// Edit godoc
// @Summary Edit an open ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket id"
// @Param edit body dto.EditTicketRequest true "Fields to update"
// @Success 200 {object} dto.TicketResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Router /api/tickets/{id} [patch]
func (h *TicketHandler) Edit(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.EditTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	t, err := h.tickets.EditTicket(c.Request.Context(), id, service.EditTicketInput{
		Subject:     req.Subject,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTicketResponse(t))
}

// Delete godoc
// @Summary Delete an open or closed ticket
// @Tags tickets
// @Security BearerAuth
// @Param id path string true "Ticket id"
// @Success 204
// @Failure 409 {object} dto.ConflictErrorResponse
// @Router /api/tickets/{id} [delete]
func (h *TicketHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.tickets.DeleteTicket(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetStatus godoc
// @Summary Move a ticket through its status flow
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket id"
// @Param status body dto.TicketStatusRequest true "Target status"
// @Success 200 {object} dto.TicketResponse
// @Failure 409 {object} dto.ConflictErrorResponse "Transition not allowed"
// @Router /api/tickets/{id}/status [patch]
func (h *TicketHandler) SetStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.TicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	t, err := h.tickets.SetStatus(c.Request.Context(), id, models.TicketStatus(req.Status))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTicketResponse(t))
}

// Assign godoc
// @Summary Assign a ticket to a staff member
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket id"
// @Param assign body dto.AssignTicketRequest true "Assignee"
// @Success 200 {object} dto.TicketResponse
// @Router /api/tickets/{id}/assign [patch]
func (h *TicketHandler) Assign(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.AssignTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	t, err := h.tickets.Assign(c.Request.Context(), id, req.AssignedTo)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTicketResponse(t))
}

// Archive godoc
// @Summary Archive or unarchive a ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket id"
// @Param archive body dto.ArchiveTicketRequest true "Archived flag"
// @Success 200 {object} dto.TicketResponse
// @Router /api/tickets/{id}/archive [patch]
func (h *TicketHandler) Archive(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.ArchiveTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	t, err := h.tickets.Archive(c.Request.Context(), id, req.Archived)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTicketResponse(t))
}

// AddResponse godoc
// @Summary Append a response to a ticket thread
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket id"
// @Param response body dto.TicketResponseRequest true "Response"
// @Success 201 {object} dto.TicketResponseEntry
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/tickets/{id}/responses [post]
func (h *TicketHandler) AddResponse(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.TicketResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	resp, err := h.tickets.AddResponse(c.Request.Context(), id, service.TicketResponseInput{
		Author:  req.Author,
		Role:    req.Role,
		Message: req.Message,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.TicketResponseEntry{
		ID:        resp.ID.String(),
		Author:    resp.Author,
		Role:      resp.Role,
		Message:   resp.Message,
		CreatedAt: resp.CreatedAt,
	})
}

// Stats godoc
// @Summary Helpdesk dashboard counters
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} repository.TicketStats
// @Router /api/tickets/stats/dashboard [get]
func (h *TicketHandler) Stats(c *gin.Context) {
	stats, err := h.tickets.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
