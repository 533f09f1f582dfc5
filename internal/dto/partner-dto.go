package dto

import (
	"time"

	"os-tracker/internal/entities"
)

type CreatePartnerDTO struct {
	Name     string  `json:"name" validate:"required,notblank,nocontrol,max=255"`
	Username *string `json:"username,omitempty" validate:"omitempty,nocontrol,min=3,max=64"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Approved bool    `json:"approved"`
}

type SetApprovalDTO struct {
	Approved bool `json:"approved"`
}

type PartnerResponseDTO struct {
	ID        uint64  `json:"id"`
	Name      string  `json:"name"`
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Approved  bool    `json:"approved"`
	CanLogin  bool    `json:"can_login"`
	CreatedAt string  `json:"created_at"`
}

func NewPartnerResponse(p *entities.Partner) PartnerResponseDTO {
	return PartnerResponseDTO{
		ID:        p.ID,
		Name:      p.Name,
		Username:  p.Username,
		Email:     p.Email,
		Approved:  p.Approved,
		CanLogin:  p.CanLogin(),
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
