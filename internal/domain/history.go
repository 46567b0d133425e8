package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type HistoryAction string

const (
	HistoryApproved HistoryAction = "approved"
	HistoryDeclined HistoryAction = "declined"
)

// HistoryEntry is the operator decision recorded for a group signature.
// At most one entry exists per signature.
type HistoryEntry struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Signature    string         `gorm:"column:signature;not null;uniqueIndex" json:"group_signature"`
	Action       HistoryAction  `gorm:"column:action;not null" json:"action"`
	KeptCategory *string        `gorm:"column:kept_category" json:"kept_category,omitempty"`
	Members      datatypes.JSON `gorm:"column:members" json:"members,omitempty"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
}

func (HistoryEntry) TableName() string { return "merge_history" }

// Kept returns the stored survivor category, or "" when none was recorded.
func (h *HistoryEntry) Kept() Category {
	if h == nil || h.KeptCategory == nil {
		return ""
	}
	return Category(*h.KeptCategory)
}
