package domain

import "time"

type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GroupWithMembers is the resolver's output shape (§4.2, §6.2). It is
// never persisted.
type GroupWithMembers struct {
	GroupID   string  `json:"group_id"`
	GroupName string  `json:"group_name"`
	Members   []Staff `json:"members"`
}

type Membership struct {
	ID        string    `json:"id"`
	StaffID   string    `json:"staff_id"`
	GroupID   string    `json:"group_id"`
	CreatedAt time.Time `json:"created_at"`
}
