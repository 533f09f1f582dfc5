package entities

import "time"

// Partner - внешний исполнитель. Без Username это запись без доступа в систему.
type Partner struct {
	ID           uint64    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Username     *string   `json:"username" db:"username"`
	PasswordHash *string   `json:"-" db:"password_hash"`
	Email        *string   `json:"email" db:"email"`
	Approved     bool      `json:"approved" db:"approved"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (p *Partner) CanLogin() bool {
	return p.Username != nil && p.PasswordHash != nil
}
