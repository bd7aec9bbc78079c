package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// CashSession is a cashier's register shift: a bounded period during which
// one user is authorized to register sales against an opening cash float.
// Invariant: at most one OPEN session per user at any time (enforced by a
// partial unique index, see the migration in cmd/api).
type CashSession struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id" validate:"uuid_required"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty" validate:"-"`

	InitialAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"initial_amount"`
	StartTime     time.Time       `gorm:"not null" json:"start_time"`
	Status        SessionStatus   `gorm:"type:varchar(10);not null;default:'OPEN'" json:"status"`

	// Set exactly once on close
	EndTime     *time.Time       `json:"end_time,omitempty"`
	FinalAmount *decimal.Decimal `gorm:"type:decimal(12,2)" json:"final_amount,omitempty"`
}

// TableName specifies the table name for GORM
func (CashSession) TableName() string {
	return "cash_sessions"
}

// IsOpen reports whether the session is still accepting sales
func (s *CashSession) IsOpen() bool {
	return s.Status == SessionOpen
}
