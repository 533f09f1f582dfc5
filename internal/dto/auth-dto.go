package dto

type LoginDTO struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

type RegisterPartnerDTO struct {
	Name     string `json:"name" validate:"required,notblank,nocontrol,max=255"`
	Username string `json:"username" validate:"required,notblank,nocontrol,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Email    string `json:"email" validate:"required,email"`
}

type SessionDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Approved bool   `json:"approved"`
}
