package entities

import (
	"time"

	"os-tracker/pkg/constants"
)

type ChecklistItem struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Order - заявка (OS) вместе с именами клиента и партнёров из JOIN.
type Order struct {
	ID     uint64 `json:"id" db:"id"`
	Number string `json:"number" db:"number"`

	ClientID   uint64 `json:"client_id" db:"client_id"`
	ClientName string `json:"client_name" db:"client_name"`

	ExecutorID   *uint64 `json:"executor_partner_id" db:"executor_partner_id"`
	ExecutorName *string `json:"executor_name" db:"executor_name"`
	CreatorID    *uint64 `json:"creator_partner_id" db:"creator_partner_id"`
	CreatorName  *string `json:"creator_name" db:"creator_name"`

	Project   string          `json:"project" db:"project"`
	Task      string          `json:"task" db:"task"`
	Notes     string          `json:"notes" db:"notes"`
	Checklist []ChecklistItem `json:"checklist" db:"checklist"`
	Status    string          `json:"status" db:"status"`
	Urgent    bool            `json:"urgent" db:"urgent"`

	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	ScheduledDate *time.Time `json:"scheduled_date" db:"scheduled_date"`
	FinalizedAt   *time.Time `json:"finalized_at" db:"finalized_at"`

	FirstProductionStart *time.Time `json:"first_production_start" db:"first_production_start"`
	AccumulatedSeconds   int64      `json:"accumulated_seconds" db:"accumulated_seconds"`
	CurrentSessionStart  *time.Time `json:"current_session_start" db:"current_session_start"`
}

// IsRunning - идёт ли сейчас сессия производства.
func (o *Order) IsRunning() bool {
	return o.CurrentSessionStart != nil
}

// ProductionSeconds - накопленное время плюс текущая незакрытая сессия.
func (o *Order) ProductionSeconds(now time.Time) int64 {
	total := o.AccumulatedSeconds
	if o.CurrentSessionStart != nil {
		total += elapsedSeconds(*o.CurrentSessionStart, now)
	}
	return total
}

// ChangeStatus переводит заявку в новый статус и пересчитывает таймер и дату финализации.
// Возвращает false, если статус не изменился (ничего не трогаем).
func (o *Order) ChangeStatus(newStatus string, now time.Time) bool {
	if newStatus == o.Status {
		return false
	}
	previous := o.Status

	if newStatus != constants.StatusInProduction && o.CurrentSessionStart != nil {
		o.closeSession(now)
	}
	if previous == constants.StatusFinalized {
		o.FinalizedAt = nil
	}

	o.Status = newStatus

	switch newStatus {
	case constants.StatusInProduction:
		o.openSession(now)
	case constants.StatusFinalized:
		if o.FinalizedAt == nil {
			t := now
			o.FinalizedAt = &t
		}
	}
	return true
}

// StartTimer запускает сессию и переводит заявку в производство.
// Игнорируется, если таймер уже идёт или статус не допускает работы.
func (o *Order) StartTimer(now time.Time) bool {
	if o.IsRunning() || constants.IsTimerLocked(o.Status) {
		return false
	}
	o.Status = constants.StatusInProduction
	o.openSession(now)
	return true
}

// PauseTimer закрывает сессию; из производства заявка возвращается в очередь.
func (o *Order) PauseTimer(now time.Time) bool {
	if !o.IsRunning() {
		return false
	}
	o.closeSession(now)
	if o.Status == constants.StatusInProduction {
		o.Status = constants.StatusQueued
	}
	return true
}

func (o *Order) openSession(now time.Time) {
	if o.CurrentSessionStart == nil {
		t := now
		o.CurrentSessionStart = &t
	}
	if o.FirstProductionStart == nil {
		t := now
		o.FirstProductionStart = &t
	}
}

func (o *Order) closeSession(now time.Time) {
	o.AccumulatedSeconds += elapsedSeconds(*o.CurrentSessionStart, now)
	o.CurrentSessionStart = nil
}

func elapsedSeconds(from, to time.Time) int64 {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}
