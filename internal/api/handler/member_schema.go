package handler

import (
	"time"

	"github.com/modernmember/member-directory/internal/core/domain"
)

// --- Request types ---

type registerRequest struct {
	Handle string `json:"handle" validate:"required,min=3,max=20"`
	Name   string `json:"name"   validate:"required,min=1,max=25"`
	Email  string `json:"email"  validate:"required,email"`
	Phone  string `json:"phone"  validate:"required,e164"`
	Role   string `json:"role,omitempty"`
}

type loginRequest struct {
	Handle   string `json:"handle"   validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateMemberRequest struct {
	Name  string `json:"name"  validate:"required,min=1,max=25"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,e164"`
	Role  string `json:"role,omitempty"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// --- Response types ---

type loginResponse struct {
	Token             string `json:"token"`
	Type              string `json:"type"`
	ID                string `json:"id"`
	Handle            string `json:"handle"`
	Email             string `json:"email"`
	Role              string `json:"role"`
	PasswordTemporary bool   `json:"password_temporary"`
}

type memberResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Handle            string `json:"handle"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Role              string `json:"role"`
	PasswordTemporary bool   `json:"password_temporary"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
	CreatedBy         string `json:"created_by,omitempty"`
	UpdatedBy         string `json:"updated_by,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toMemberResponse(m *domain.Member) memberResponse {
	return memberResponse{
		ID:                m.ID,
		Name:              m.Name,
		Handle:            m.Handle,
		Email:             m.Email,
		Phone:             m.Phone,
		Role:              string(m.Role),
		PasswordTemporary: m.PasswordTemporary,
		CreatedAt:         m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         m.UpdatedAt.Format(time.RFC3339),
		CreatedBy:         m.CreatedBy,
		UpdatedBy:         m.UpdatedBy,
	}
}

func toMemberResponses(members []domain.Member) []memberResponse {
	out := make([]memberResponse, 0, len(members))
	for i := range members {
		out = append(out, toMemberResponse(&members[i]))
	}
	return out
}
