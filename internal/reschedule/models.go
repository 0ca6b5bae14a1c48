package reschedule

import (
	"time"

	"github.com/google/uuid"

	id "padoca/pkg/domain"
	dErrors "padoca/pkg/domain-errors"
)

// Direction classifies which way a delivery moved across week boundaries.
type Direction string

const (
	DirectionPostponement Direction = "postponement"
	DirectionAdvancement  Direction = "advancement"
)

// IsValid checks if the direction is one of the supported enum values.
func (d Direction) IsValid() bool {
	return d == DirectionPostponement || d == DirectionAdvancement
}

// Event records one cross-week reschedule. Created exactly once per
// (client, original date, new date) triple; never mutated; append-only.
type Event struct {
	ID                string      `json:"id"`
	ClientID          id.ClientID `json:"client_id"`
	OriginalDate      time.Time   `json:"original_date"`
	NewDate           time.Time   `json:"new_date"`
	OriginalWeekStart time.Time   `json:"original_week_start"`
	NewWeekStart      time.Time   `json:"new_week_start"`
	WeeksShifted      int         `json:"weeks_shifted"`
	Direction         Direction   `json:"direction"`
	CreatedAt         time.Time   `json:"created_at"`
}

// NewEvent builds a reschedule event from a cross-week date move, or returns
// nil when both dates land in the same ISO week - same-week moves are not
// reschedules and are never recorded.
func NewEvent(clientID id.ClientID, originalDate, newDate time.Time, now time.Time) (*Event, error) {
	if clientID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "client_id is required")
	}
	if originalDate.IsZero() || newDate.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "original_date and new_date are required")
	}

	originalWeek := WeekStart(originalDate)
	newWeek := WeekStart(newDate)
	if originalWeek.Equal(newWeek) {
		return nil, nil
	}

	shifted := WeeksBetween(originalWeek, newWeek)
	direction := DirectionPostponement
	if shifted < 0 {
		shifted = -shifted
		direction = DirectionAdvancement
	}

	return &Event{
		ID:                uuid.NewString(),
		ClientID:          clientID,
		OriginalDate:      originalDate,
		NewDate:           newDate,
		OriginalWeekStart: originalWeek,
		NewWeekStart:      newWeek,
		WeeksShifted:      shifted,
		Direction:         direction,
		CreatedAt:         now,
	}, nil
}

// Summary is the fleet-level reschedule rollup. Derived, never persisted;
// recomputed on demand from the event set.
type Summary struct {
	TotalCount       int           `json:"total_count"`
	MeanWeeksShifted float64       `json:"mean_weeks_shifted"`
	TopClients       []ClientCount `json:"top_clients"`
}

// ClientCount pairs a client with its reschedule count.
type ClientCount struct {
	ClientID id.ClientID `json:"client_id"`
	Count    int         `json:"count"`
}
