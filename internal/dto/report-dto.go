package dto

import (
	"math"
	"time"

	"os-tracker/internal/entities"
	"os-tracker/pkg/constants"
	"os-tracker/pkg/utils"
)

type ReportRowDTO struct {
	OrderID           uint64  `json:"order_id"`
	Number            string  `json:"number"`
	Client            string  `json:"client"`
	Executor          *string `json:"executor"`
	Project           string  `json:"project"`
	Status            string  `json:"status"`
	StatusLabel       string  `json:"status_label"`
	Urgent            bool    `json:"urgent"`
	CreatedAt         string  `json:"created_at"`
	FinalizedAt       *string `json:"finalized_at"`
	ProductionSeconds int64   `json:"production_seconds"`
	ProductionHours   float64 `json:"production_hours"`
	Running           bool    `json:"running"`
}

type ReportPageDTO struct {
	List  []ReportRowDTO `json:"list"`
	Total uint64         `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

func NewReportRow(item entities.ReportItem, now time.Time) ReportRowDTO {
	seconds := item.ProductionSeconds(now)
	row := ReportRowDTO{
		OrderID:           item.OrderID,
		Number:            item.Number,
		Client:            item.ClientName,
		Executor:          item.ExecutorName.Ptr(),
		Project:           item.Project,
		Status:            item.Status,
		StatusLabel:       constants.StatusLabel(item.Status),
		Urgent:            item.Urgent,
		CreatedAt:         item.CreatedAt.UTC().Format(time.RFC3339),
		ProductionSeconds: seconds,
		ProductionHours:   math.Round(float64(seconds)/36) / 100,
		Running:           item.CurrentSessionStart.Valid,
	}
	if item.FinalizedAt.Valid {
		row.FinalizedAt = utils.FormatTime(&item.FinalizedAt.Time)
	}
	return row
}
