package models

import "github.com/golang-jwt/jwt/v5"

// AdminRole is the role required for admin endpoints.
const AdminRole = "admin"

// AdminClaims represents the JWT claims carried by admin bearer tokens
type AdminClaims struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
