package entities

import "time"

// Notification без PartnerID адресовано администраторам.
type Notification struct {
	ID          uint64     `db:"id"`
	PartnerID   *uint64    `db:"partner_id"`
	OrderID     *uint64    `db:"order_id"`
	OrderNumber *string    `db:"order_number"`
	Kind        string     `db:"kind"`
	Message     string     `db:"message"`
	ReadAt      *time.Time `db:"read_at"`
	CreatedAt   time.Time  `db:"created_at"`
}
