package models

import "time"

type Area struct {
	ID        int       `db:"id" json:"id"`
	TenantID  int       `db:"tenant_id" json:"tenant_id"`
	Name      string    `db:"name" json:"name"`
	ManagerID *int      `db:"manager_id" json:"manager_id"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type AreaRequest struct {
	Name      string `json:"name" validate:"required"`
	ManagerID *int   `json:"manager_id"`
	IsActive  bool   `json:"is_active"`
}
