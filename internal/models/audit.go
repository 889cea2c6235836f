package models

import "time"

// AuditEntry records a dessert mutation (create, update, delete) and who did it.
type AuditEntry struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Action    string    `json:"action"`
	DessertID int       `json:"dessert_id"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}
