package dto

type NotificationResponseDTO struct {
	ID          uint64  `json:"id"`
	OrderID     *uint64 `json:"order_id"`
	OrderNumber *string `json:"order_number"`
	Kind        string  `json:"kind"`
	Message     string  `json:"message"`
	Read        bool    `json:"read"`
	CreatedAt   string  `json:"created_at"`
}
