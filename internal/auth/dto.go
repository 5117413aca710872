package auth

import (
	"github.com/google/uuid"

	"github.com/hariprasanna/counterpos-backend/pkg/db/models"
)

// LoginRequest captures the operator credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// OperatorDTO is the operator shape returned to counter clients.
type OperatorDTO struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
}

// LoginResponse contains the tokens and operator produced by a successful login.
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	Operator     *OperatorDTO `json:"operator"`
}

// FromModel converts a stored operator into its API representation.
func FromModel(operator *models.Operator) *OperatorDTO {
	if operator == nil {
		return nil
	}
	return &OperatorDTO{
		ID:          operator.ID,
		Email:       operator.Email,
		DisplayName: operator.DisplayName,
	}
}
