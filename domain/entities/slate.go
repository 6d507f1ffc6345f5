package entities

import (
	"time"

	"github.com/google/uuid"
)

// SlateStatus governs whether new wagers may be placed for a week
type SlateStatus string

const (
	SlateStatusOpen    SlateStatus = "open"
	SlateStatusLocked  SlateStatus = "locked"
	SlateStatusSettled SlateStatus = "settled"
)

// WeeklySlate is the weekly governing state for placement
type WeeklySlate struct {
	ID        uuid.UUID   `db:"id"`
	Season    int         `db:"season"`
	Week      int         `db:"week"`
	Status    SlateStatus `db:"status"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

// IsOpen returns true if wagers may be placed against the slate
func (s *WeeklySlate) IsOpen() bool {
	return s.Status == SlateStatusOpen
}
