package models

import "github.com/google/uuid"

// Region is the organizational scope used to partition record visibility.
type Region struct {
	ID      uuid.UUID `json:"id" db:"id"`
	Name    string    `json:"name" db:"name"`
	Code    string    `json:"code" db:"code"`
	StateID uuid.UUID `json:"state_id" db:"state_id"`
}

type State struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
	Code string    `json:"code" db:"code"`
}
