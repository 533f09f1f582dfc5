package dto

import (
	"time"

	"github.com/aarondl/null/v8"

	"os-tracker/internal/entities"
	"os-tracker/pkg/constants"
	"os-tracker/pkg/utils"
)

type ChecklistItemDTO struct {
	Text      string `json:"text" validate:"required,notblank,max=500"`
	Completed bool   `json:"completed"`
}

type CreateOrderDTO struct {
	ClientName    string             `json:"client" validate:"required,notblank,nocontrol,max=255"`
	ExecutorName  *string            `json:"executor,omitempty" validate:"omitempty,max=255"`
	Project       string             `json:"project" validate:"required,notblank,nocontrol,max=255"`
	Task          string             `json:"task" validate:"required,notblank"`
	Notes         string             `json:"notes"`
	Checklist     []ChecklistItemDTO `json:"checklist" validate:"omitempty,dive"`
	Status        string             `json:"status" validate:"omitempty,order_status"`
	Urgent        bool               `json:"urgent"`
	ScheduledDate null.String        `json:"scheduled_date" validate:"omitempty,date_only"`
}

// UpdateOrderDTO - частичное редактирование. Пустая строка в executor/scheduled_date снимает значение.
type UpdateOrderDTO struct {
	ClientName    *string             `json:"client,omitempty" validate:"omitempty,notblank,max=255"`
	ExecutorName  *string             `json:"executor,omitempty" validate:"omitempty,max=255"`
	Project       *string             `json:"project,omitempty" validate:"omitempty,notblank,max=255"`
	Task          *string             `json:"task,omitempty" validate:"omitempty,notblank"`
	Notes         *string             `json:"notes,omitempty"`
	Checklist     *[]ChecklistItemDTO `json:"checklist,omitempty" validate:"omitempty,dive"`
	Status        *string             `json:"status,omitempty" validate:"omitempty,order_status"`
	Urgent        *bool               `json:"urgent,omitempty"`
	ScheduledDate *string             `json:"scheduled_date,omitempty" validate:"omitempty,date_only|len=0"`
}

type SetStatusDTO struct {
	Status string `json:"status" validate:"required,order_status"`
}

type ToggleTimerDTO struct {
	Action string `json:"action" validate:"required,timer_action"`
}

type UpdateChecklistDTO struct {
	Items []ChecklistItemDTO `json:"items" validate:"dive"`
}

type SetUrgentDTO struct {
	Urgent bool `json:"urgent"`
}

type OrderFilterDTO struct {
	Statuses  []string
	ClientID  *uint64
	PartnerID *uint64
	Urgent    *bool
	Search    string
}

type ShortClientDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type ShortPartnerDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type OrderResponseDTO struct {
	ID                   uint64             `json:"id"`
	Number               string             `json:"number"`
	Client               ShortClientDTO     `json:"client"`
	Executor             *ShortPartnerDTO   `json:"executor"`
	Creator              *ShortPartnerDTO   `json:"creator"`
	Project              string             `json:"project"`
	Task                 string             `json:"task"`
	Notes                string             `json:"notes"`
	Checklist            []ChecklistItemDTO `json:"checklist"`
	Status               string             `json:"status"`
	StatusLabel          string             `json:"status_label"`
	Urgent               bool               `json:"urgent"`
	CreatedAt            string             `json:"created_at"`
	UpdatedAt            string             `json:"updated_at"`
	ScheduledDate        *string            `json:"scheduled_date"`
	FinalizedAt          *string            `json:"finalized_at"`
	FirstProductionStart *string            `json:"first_production_start"`
	AccumulatedSeconds   int64              `json:"accumulated_seconds"`
	CurrentSessionStart  *string            `json:"current_session_start"`
	TimerRunning         bool               `json:"timer_running"`
}

func NewOrderResponse(o *entities.Order) OrderResponseDTO {
	res := OrderResponseDTO{
		ID:                   o.ID,
		Number:               o.Number,
		Client:               ShortClientDTO{ID: o.ClientID, Name: o.ClientName},
		Executor:             shortPartner(o.ExecutorID, o.ExecutorName),
		Creator:              shortPartner(o.CreatorID, o.CreatorName),
		Project:              o.Project,
		Task:                 o.Task,
		Notes:                o.Notes,
		Checklist:            ChecklistToDTO(o.Checklist),
		Status:               o.Status,
		StatusLabel:          constants.StatusLabel(o.Status),
		Urgent:               o.Urgent,
		CreatedAt:            o.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:            o.UpdatedAt.UTC().Format(time.RFC3339),
		ScheduledDate:        utils.FormatDate(o.ScheduledDate),
		FinalizedAt:          utils.FormatTime(o.FinalizedAt),
		FirstProductionStart: utils.FormatTime(o.FirstProductionStart),
		AccumulatedSeconds:   o.AccumulatedSeconds,
		CurrentSessionStart:  utils.FormatTime(o.CurrentSessionStart),
		TimerRunning:         o.IsRunning(),
	}
	return res
}

func NewOrderListResponse(orders []entities.Order) []OrderResponseDTO {
	list := make([]OrderResponseDTO, 0, len(orders))
	for i := range orders {
		list = append(list, NewOrderResponse(&orders[i]))
	}
	return list
}

func ChecklistToDTO(items []entities.ChecklistItem) []ChecklistItemDTO {
	out := make([]ChecklistItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, ChecklistItemDTO{Text: it.Text, Completed: it.Completed})
	}
	return out
}

func ChecklistFromDTO(items []ChecklistItemDTO) []entities.ChecklistItem {
	out := make([]entities.ChecklistItem, 0, len(items))
	for _, it := range items {
		out = append(out, entities.ChecklistItem{Text: it.Text, Completed: it.Completed})
	}
	return out
}

func shortPartner(id *uint64, name *string) *ShortPartnerDTO {
	if id == nil {
		return nil
	}
	return &ShortPartnerDTO{ID: *id, Name: utils.DerefString(name)}
}
