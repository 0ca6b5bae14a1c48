package reschedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	id "padoca/pkg/domain"
	dErrors "padoca/pkg/domain-errors"
	"padoca/pkg/platform/sentinel"
	"padoca/pkg/requestcontext"
)

// Recorder is invoked synchronously from the scheduling write path whenever a
// delivery date changes. Its only side effect is appending one event row.
type Recorder struct {
	store  Store
	logger *slog.Logger
}

// Option configures a Recorder.
type Option func(*Recorder)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

func NewRecorder(store Store, opts ...Option) (*Recorder, error) {
	if store == nil {
		return nil, fmt.Errorf("reschedule store is required")
	}

	rec := &Recorder{store: store}
	for _, opt := range opts {
		opt(rec)
	}
	return rec, nil
}

// Record classifies the date move and persists a reschedule event.
//
// Returns (nil, nil) when the move stays inside one ISO week (intentional
// no-op) and when the triple was already recorded by a concurrent writer -
// the caller cannot tell the two apart, and does not need to.
func (r *Recorder) Record(ctx context.Context, clientID id.ClientID, originalDate, newDate time.Time) (*Event, error) {
	event, err := NewEvent(clientID, originalDate, newDate, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, nil
	}

	if err := r.store.Insert(ctx, *event); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// Already recorded; duplicate-key responses are benign.
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to record reschedule")
	}

	if r.logger != nil {
		r.logger.InfoContext(ctx, "reschedule recorded",
			"client_id", clientID,
			"direction", event.Direction,
			"weeks_shifted", event.WeeksShifted,
		)
	}
	return event, nil
}
