package entities

import "time"

type Client struct {
	ID                     uint64    `json:"id" db:"id"`
	Name                   string    `json:"name" db:"name"`
	OriginatingPartnerID   *uint64   `json:"originating_partner_id" db:"originating_partner_id"`
	OriginatingPartnerName *string   `json:"originating_partner_name" db:"originating_partner_name"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
}
