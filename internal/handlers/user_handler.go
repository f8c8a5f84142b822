package handlers

import (
	"net/http"

	"bookswap-api/internal/dto"
	"bookswap-api/internal/models"
	"bookswap-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	users *service.UserService
	log   *zap.Logger
}

func NewUserHandler(users *service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// Register godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Registration data"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Failure 500 {object} dto.InternalErrorResponse
// @Router /api/users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}

	u, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		UniID:      req.UniID,
		Password:   req.Password,
		Role:       models.Role(req.Role),
		Phone:      req.Phone,
		Department: req.Department,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserResponse(u))
}

// Login godoc
// @Summary Log in and receive an access token
// @Tags users
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse
// @Failure 500 {object} dto.InternalErrorResponse
// @Router /api/users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}

	res, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: res.AccessToken,
		ExpiresAt:   res.ExpiresAt.Unix(),
		User:        dto.ToUserResponse(res.User),
	})
}

// List godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserListResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse
// @Failure 403 {object} dto.ForbiddenErrorResponse
// @Router /api/users [get]
func (h *UserHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	users, total, err := h.users.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := dto.UserListResponse{Users: make([]dto.UserResponse, 0, len(users)), Total: total}
	for i := range users {
		resp.Users = append(resp.Users, dto.ToUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Get a user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User id"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	u, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(u))
}

// Update godoc
// @Summary Update user profile fields
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User id"
// @Param update body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	u, err := h.users.UpdateUser(c.Request.Context(), id, service.UpdateUserInput{
		Name:       req.Name,
		Phone:      req.Phone,
		Department: req.Department,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(u))
}

// ChangePassword godoc
// @Summary Change password with the old password check
// @Tags users
// @Accept json
// @Security BearerAuth
// @Param id path string true "User id"
// @Param change body dto.ChangePasswordRequest true "Old and new password"
// @Success 204
// @Failure 401 {object} dto.UnauthorizedErrorResponse
// @Router /api/users/{id}/change-password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	if err := h.users.ChangePassword(c.Request.Context(), id, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestPasswordReset godoc
// @Summary Request a password reset code by email
// @Tags users
// @Accept json
// @Param request body dto.RequestPasswordResetRequest true "Account email"
// @Success 204
// @Failure 429 {object} dto.RateLimitedErrorResponse
// @Router /api/users/request-password-reset [post]
func (h *UserHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.RequestPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	if err := h.users.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ConfirmPasswordReset godoc
// @Summary Confirm a password reset with the emailed code
// @Tags users
// @Accept json
// @Param confirm body dto.ConfirmPasswordResetRequest true "Code and new password"
// @Success 204
// @Failure 401 {object} dto.UnauthorizedErrorResponse
// @Router /api/users/confirm-password-reset [post]
func (h *UserHandler) ConfirmPasswordReset(c *gin.Context) {
	var req dto.ConfirmPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	if err := h.users.ConfirmPasswordReset(c.Request.Context(), req.Code, req.NewPassword); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
