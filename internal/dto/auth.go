package dto

import "task-management-system/internal/models"

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
	FirstName      string `json:"firstName" binding:"required"`
	LastName       string `json:"lastName" binding:"required"`
	RoleID         string `json:"roleId" binding:"required"`
	OrganizationID string `json:"organizationId" binding:"required"`
}

// LoginRequest is the payload for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the outward shape of a user.
type UserResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	RoleID         string `json:"roleId"`
	RoleName       string `json:"roleName,omitempty"`
	OrganizationID string `json:"organizationId"`
}

// UserResponseFromModel converts a user model to its response shape.
func UserResponseFromModel(user *models.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		RoleID:         user.RoleID,
		RoleName:       user.RoleName(),
		OrganizationID: user.OrganizationID,
	}
}

// AuthResponse carries a signed token alongside the user it belongs to.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
