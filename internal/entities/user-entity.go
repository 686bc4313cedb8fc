package entities

import "github.com/aarondl/null/v8"

type User struct {
	ID           uint64      `json:"id"`
	PersonID     null.Uint64 `json:"person_id"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	Active       bool        `json:"active"`
}
