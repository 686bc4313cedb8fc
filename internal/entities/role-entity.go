package entities

import "github.com/aarondl/null/v8"

type Role struct {
	ID          uint64      `json:"id"`
	Name        string      `json:"name"`
	Description null.String `json:"description"`
	Active      bool        `json:"active"`
	Routes      []Route     `json:"routes,omitempty"`
}

// Route - ключ права (rutas).
type Route struct {
	ID          uint64      `json:"id"`
	Key         string      `json:"key"`
	Description null.String `json:"description"`
}
