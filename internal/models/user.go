package models

import "github.com/golang-jwt/jwt"

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// Claims is the JWT payload. Subject carries the staff or customer id.
type Claims struct {
	Role     string `json:"role"`
	Username string `json:"username"`
	jwt.StandardClaims
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AdminUser struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

type LoginResponse struct {
	Success  bool       `json:"success"`
	Token    string     `json:"token"`
	Role     string     `json:"role"`
	User     *AdminUser `json:"user,omitempty"`
	Customer *Customer  `json:"customer,omitempty"`
}

// Credential is a stored login row; Secret is a bcrypt hash or, for old seed
// data, the plain password.
type Credential struct {
	ID       int64
	Username string
	Secret   string
}
