package dto

import "github.com/aarondl/null/v8"

type LoginDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type RefreshDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponseDTO struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	User         UserPublicDTO `json:"user"`
}

type UserPublicDTO struct {
	ID          uint64      `json:"id"`
	Username    string      `json:"username"`
	PersonID    null.Uint64 `json:"person_id"`
	Permissions []string    `json:"permissions"`
}
