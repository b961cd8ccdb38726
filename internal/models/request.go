package models

import "time"

// RequestStatus tracks an add request through its lifecycle.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusIndexed  RequestStatus = "indexed"
)

// IsValid checks if the status is a known value.
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusIndexed:
		return true
	}
	return false
}

// AddRequest is a user-submitted nomination of a repository for indexing.
// Only the indexing orchestrator transitions a request to indexed, when it
// successfully indexes a skill from the matching repository.
type AddRequest struct {
	ID     string `gorm:"primaryKey;size:64" json:"id"`
	Owner  string `gorm:"size:255;index:idx_request_repo" json:"owner"`
	Repo   string `gorm:"size:255;index:idx_request_repo" json:"repo"`
	UserID string `gorm:"size:64;index" json:"user_id"`

	// Notification target, used when the request resolves to indexed.
	Email  string `gorm:"size:255" json:"email"`
	Locale string `gorm:"size:16" json:"locale"`

	Status         RequestStatus `gorm:"size:20;index" json:"status"`
	IndexedSkillID string        `gorm:"size:512" json:"indexed_skill_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (AddRequest) TableName() string {
	return "add_requests"
}
