package events

import "github.com/google/uuid"

const (
	OrderStatusChanged   = "order.status.changed"
	OrderApprovalDecided = "order.approval.decided"
	OrderSubmitted       = "order.submitted"
)

// OrderRef - то, что слушателям нужно знать о заявке, без похода в базу.
type OrderRef struct {
	ID                uint64
	Number            string
	ClientName        string
	Project           string
	CreatorPartnerID  *uint64
	ExecutorPartnerID *uint64
}

// OrderStatusChangedEvent - обычная смена статуса.
type OrderStatusChangedEvent struct {
	EventID   uuid.UUID
	Order     OrderRef
	OldStatus string
	NewStatus string
	ChangedBy string
}

func (e OrderStatusChangedEvent) Name() string { return OrderStatusChanged }

// OrderApprovalDecidedEvent - заявку партнёра одобрили или отклонили.
type OrderApprovalDecidedEvent struct {
	EventID      uuid.UUID
	Order        OrderRef
	Approved     bool
	ApproverName string
}

func (e OrderApprovalDecidedEvent) Name() string { return OrderApprovalDecided }

// OrderSubmittedEvent - партнёр прислал новую заявку на одобрение.
type OrderSubmittedEvent struct {
	EventID     uuid.UUID
	Order       OrderRef
	PartnerName string
}

func (e OrderSubmittedEvent) Name() string { return OrderSubmitted }
