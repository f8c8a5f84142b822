package handlers

import (
	"net/http"

	"bookswap-api/internal/dto"
	"bookswap-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SupplierHandler struct {
	catalog *service.CatalogService
	log     *zap.Logger
}

func NewSupplierHandler(catalog *service.CatalogService, log *zap.Logger) *SupplierHandler {
	return &SupplierHandler{catalog: catalog, log: log}
}

// Create godoc
// @Summary Create a supplier
// @Tags suppliers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param supplier body dto.SupplierRequest true "Supplier data"
// @Success 201 {object} dto.SupplierResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Router /api/suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	var req dto.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	s, err := h.catalog.CreateSupplier(c.Request.Context(), service.SupplierInput{
		Name:    req.Name,
		Contact: req.Contact,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToSupplierResponse(s))
}

// List godoc
// @Summary List suppliers
// @Tags suppliers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.SupplierResponse
// @Router /api/suppliers [get]
func (h *SupplierHandler) List(c *gin.Context) {
	list, err := h.catalog.ListSuppliers(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := make([]dto.SupplierResponse, 0, len(list))
	for i := range list {
		resp = append(resp, dto.ToSupplierResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Get a supplier by id
// @Tags suppliers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Supplier id"
// @Success 200 {object} dto.SupplierResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/suppliers/{id} [get]
func (h *SupplierHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	s, err := h.catalog.GetSupplier(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSupplierResponse(s))
}

// Update godoc
// @Summary Update a supplier
// @Tags suppliers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Supplier id"
// @Param supplier body dto.SupplierRequest true "Fields to update"
// @Success 200 {object} dto.SupplierResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/suppliers/{id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	s, err := h.catalog.UpdateSupplier(c.Request.Context(), id, service.SupplierInput{
		Name:    req.Name,
		Contact: req.Contact,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSupplierResponse(s))
}

// Delete godoc
// @Summary Delete a supplier
// @Tags suppliers
// @Security BearerAuth
// @Param id path string true "Supplier id"
// @Success 204
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteSupplier(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
