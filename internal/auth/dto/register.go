package dto

type RegisterInput struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	UserType   string `json:"user_type"`
	IPAddress  string `json:"-"`
}
