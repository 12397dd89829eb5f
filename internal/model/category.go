package model

import "time"

// Category groups transactions and budgets. Categories may nest one level
// through ParentID.
type Category struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  string    `json:"parent_id,omitempty"`
	Icon      string    `json:"icon,omitempty"`
}
