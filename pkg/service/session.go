package service

import "os-tracker/pkg/constants"

// Session - расшифрованная сессия. Реализации: AdminSession и PartnerSession.
type Session interface {
	SubjectID() uint64
	Username() string
	Role() string
	IsApproved() bool
	isSession()
}

type AdminSession struct {
	ID   uint64
	Name string
}

func (s AdminSession) SubjectID() uint64 { return s.ID }
func (s AdminSession) Username() string  { return s.Name }
func (s AdminSession) Role() string      { return constants.RoleAdmin }
func (s AdminSession) IsApproved() bool  { return true }
func (AdminSession) isSession()          {}

type PartnerSession struct {
	PartnerID uint64
	Name      string
	Approved  bool
}

func (s PartnerSession) SubjectID() uint64 { return s.PartnerID }
func (s PartnerSession) Username() string  { return s.Name }
func (s PartnerSession) Role() string      { return constants.RolePartner }
func (s PartnerSession) IsApproved() bool  { return s.Approved }
func (PartnerSession) isSession()          {}

func IsAdmin(s Session) bool {
	_, ok := s.(AdminSession)
	return ok
}

// AsPartner возвращает сессию партнёра, если это она.
func AsPartner(s Session) (PartnerSession, bool) {
	p, ok := s.(PartnerSession)
	return p, ok
}
