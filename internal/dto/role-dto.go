package dto

import "github.com/aarondl/null/v8"

type RoleDTO struct {
	Name        string      `json:"name" validate:"required,not_blank,max=100"`
	Description null.String `json:"description"`
	Active      *bool       `json:"active"`
	RouteIDs    []uint64    `json:"route_ids" validate:"omitempty,dive,gt=0"`
}

type SetRoutesDTO struct {
	RouteIDs []uint64 `json:"route_ids" validate:"dive,gt=0"`
}

type SetUserAccessDTO struct {
	RoleIDs  []uint64 `json:"role_ids" validate:"dive,gt=0"`
	RouteIDs []uint64 `json:"route_ids" validate:"dive,gt=0"`
}
