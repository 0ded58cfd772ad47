package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"task-management-system/internal/dto"
	apierrors "task-management-system/internal/errors"
	"task-management-system/internal/middleware"
	"task-management-system/internal/services"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService  *services.AuthService
	auditService *services.AuditService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, auditService *services.AuditService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		auditService: auditService,
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	user, token, err := h.authService.Register(services.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		RoleID:         req.RoleID,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			apierrors.Conflict(c, "Email already registered")
		case errors.Is(err, services.ErrWeakPassword), errors.Is(err, services.ErrUnknownRole):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	h.auditService.Dispatch(user.ID, services.ActionUserRegister, services.ResourceUser, user.ID, nil)

	c.JSON(http.StatusCreated, dto.AuthResponse{
		Token: token,
		User:  dto.UserResponseFromModel(user),
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			apierrors.Unauthorized(c, "Invalid email or password")
		} else {
			apierrors.InternalError(c, "")
		}
		return
	}

	h.auditService.Dispatch(user.ID, services.ActionUserLogin, services.ResourceUser, user.ID, nil)

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token: token,
		User:  dto.UserResponseFromModel(user),
	})
}

// Profile handles GET /api/auth/profile.
func (h *AuthHandler) Profile(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		apierrors.Unauthorized(c, "")
		return
	}
	c.JSON(http.StatusOK, dto.UserResponseFromModel(user))
}
