package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is the review state of a complaint.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
	StatusResolved Status = "Resolved"
)

// Statuses lists every recognised status in display order.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusResolved}

// ParseStatus returns the Status named by s. Matching is exact: "resolved"
// is not a valid status.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Complaint is a citizen-filed issue tracked through the status lifecycle.
type Complaint struct {
	// ID is assigned by the store on creation.
	ID string `gorm:"primaryKey" json:"_id"`
	// UserID references the submitting user. It never changes after creation.
	UserID      string `gorm:"type:text;not null;index" json:"userId"`
	Type        string `gorm:"type:text;not null;index" json:"type"`
	Description string `gorm:"type:text" json:"description"`
	Location    string `gorm:"type:text" json:"location,omitempty"`
	Status      Status `gorm:"type:text;not null;index" json:"status"`
	// Proof is the bare file name of the uploaded attachment, nil when none was sent.
	Proof     *string   `gorm:"type:text" json:"proof"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	// ResolvedAt is non-nil exactly when Status is Resolved.
	ResolvedAt *time.Time `json:"resolvedAt"`
}

// BeforeCreate fills in the UUID primary key when the caller did not set one.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// SetStatus moves the complaint to st and keeps ResolvedAt consistent with it.
func (c *Complaint) SetStatus(st Status, now time.Time) {
	c.Status = st
	if st == StatusResolved {
		resolved := now
		c.ResolvedAt = &resolved
		return
	}
	c.ResolvedAt = nil
}
