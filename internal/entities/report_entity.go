package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type ReportFilter struct {
	DateFrom   *time.Time
	DateTo     *time.Time
	ClientIDs  []uint64
	PartnerIDs []uint64
	Statuses   []string
	Page       int
	PerPage    int
}

type ReportItem struct {
	OrderID             uint64
	Number              string
	ClientName          string
	ExecutorName        null.String
	Project             string
	Status              string
	Urgent              bool
	CreatedAt           time.Time
	FinalizedAt         null.Time
	AccumulatedSeconds  int64
	CurrentSessionStart null.Time
}

// ProductionSeconds учитывает незакрытую сессию на момент now.
func (r ReportItem) ProductionSeconds(now time.Time) int64 {
	total := r.AccumulatedSeconds
	if r.CurrentSessionStart.Valid {
		total += elapsedSeconds(r.CurrentSessionStart.Time, now)
	}
	return total
}

type StatusCount struct {
	Status string `json:"status"`
	Count  uint64 `json:"count"`
}

type ReportSummary struct {
	ByStatus          []StatusCount `json:"by_status"`
	TotalOrders       uint64        `json:"total_orders"`
	ProductionSeconds int64         `json:"production_seconds"`
	RunningOrders     uint64        `json:"running_orders"`
}
