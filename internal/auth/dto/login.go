package dto

type LoginInput struct {
	Identifier string `json:"identifier"` // student or club number
	Password   string `json:"password"`
	IPAddress  string `json:"-"`
}
