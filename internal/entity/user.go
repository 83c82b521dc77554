package entity

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username" validate:"required,min=2,max=80"`
	Email    string `json:"email"    validate:"required,email,max=120"`
}
