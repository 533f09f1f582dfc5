package dto

import (
	"time"

	"os-tracker/internal/entities"
)

type CreateClientDTO struct {
	Name                   string  `json:"name" validate:"required,notblank,nocontrol,max=255"`
	OriginatingPartnerName *string `json:"originating_partner,omitempty" validate:"omitempty,notblank,max=255"`
}

type RenameClientDTO struct {
	Name string `json:"name" validate:"required,notblank,nocontrol,max=255"`
}

type ClientResponseDTO struct {
	ID                 uint64           `json:"id"`
	Name               string           `json:"name"`
	OriginatingPartner *ShortPartnerDTO `json:"originating_partner"`
	CreatedAt          string           `json:"created_at"`
}

func NewClientResponse(c *entities.Client) ClientResponseDTO {
	return ClientResponseDTO{
		ID:                 c.ID,
		Name:               c.Name,
		OriginatingPartner: shortPartner(c.OriginatingPartnerID, c.OriginatingPartnerName),
		CreatedAt:          c.CreatedAt.UTC().Format(time.RFC3339),
	}
}
