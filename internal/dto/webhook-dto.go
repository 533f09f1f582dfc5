package dto

// InboundEmailDTO - письмо, пересланное почтовым провайдером.
type InboundEmailDTO struct {
	From    string `json:"from" validate:"required,notblank"`
	Subject string `json:"subject" validate:"required,notblank"`
	Body    string `json:"body" validate:"required,notblank"`
}

type InboundEmailResultDTO struct {
	Received    bool    `json:"received"`
	OrderNumber *string `json:"order_number,omitempty"`
}

type SweepResultDTO struct {
	Skipped   bool   `json:"skipped"`
	LocalHour int    `json:"local_hour"`
	Paused    int    `json:"paused"`
	Timezone  string `json:"timezone"`
}
