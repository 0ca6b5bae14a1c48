package reschedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "padoca/pkg/domain"
	"padoca/pkg/requestcontext"
)

type RecorderSuite struct {
	suite.Suite
	store    *MemoryStore
	recorder *Recorder
	ctx      context.Context
}

func TestRecorderSuite(t *testing.T) {
	suite.Run(t, new(RecorderSuite))
}

func (s *RecorderSuite) SetupTest() {
	s.store = NewMemoryStore()

	var err error
	s.recorder, err = NewRecorder(s.store)
	s.Require().NoError(err)

	s.ctx = requestcontext.WithTime(context.Background(), date(2024, 2, 1))
}

func (s *RecorderSuite) TestNewRecorder() {
	s.Run("nil store returns error", func() {
		_, err := NewRecorder(nil)
		s.Error(err)
		s.Contains(err.Error(), "reschedule store is required")
	})
}

func (s *RecorderSuite) TestRecord() {
	clientID := id.ClientID("pdv-1")

	s.Run("same-week move returns nil and writes nothing", func() {
		mon := date(2024, 1, 1)
		wed := date(2024, 1, 3)

		event, err := s.recorder.Record(s.ctx, clientID, mon, wed)
		s.NoError(err)
		s.Nil(event)

		stored, err := s.store.ListByClients(s.ctx, nil)
		s.NoError(err)
		s.Empty(stored)
	})

	s.Run("two weeks later is a postponement", func() {
		event, err := s.recorder.Record(s.ctx, clientID, date(2024, 1, 1), date(2024, 1, 15))
		s.NoError(err)
		s.Require().NotNil(event)
		s.Equal(2, event.WeeksShifted)
		s.Equal(DirectionPostponement, event.Direction)
		s.Equal(date(2024, 1, 1), event.OriginalWeekStart)
		s.Equal(date(2024, 1, 15), event.NewWeekStart)
		s.Equal(date(2024, 2, 1), event.CreatedAt)
	})

	s.Run("two weeks earlier is an advancement", func() {
		event, err := s.recorder.Record(s.ctx, clientID, date(2024, 1, 1), date(2023, 12, 18))
		s.NoError(err)
		s.Require().NotNil(event)
		s.Equal(2, event.WeeksShifted)
		s.Equal(DirectionAdvancement, event.Direction)
	})

	s.Run("weeks shifted is always at least one", func() {
		event, err := s.recorder.Record(s.ctx, clientID, date(2024, 1, 5), date(2024, 1, 8))
		s.NoError(err)
		s.Require().NotNil(event)
		s.GreaterOrEqual(event.WeeksShifted, 1)
	})

	s.Run("duplicate triple is a benign no-op", func() {
		first, err := s.recorder.Record(s.ctx, clientID, date(2024, 3, 4), date(2024, 3, 11))
		s.NoError(err)
		s.NotNil(first)

		replay, err := s.recorder.Record(s.ctx, clientID, date(2024, 3, 4), date(2024, 3, 11))
		s.NoError(err)
		s.Nil(replay)

		stored, err := s.store.ListByClients(s.ctx, []id.ClientID{clientID})
		s.NoError(err)

		count := 0
		for _, ev := range stored {
			if ev.OriginalDate.Equal(date(2024, 3, 4)) {
				count++
			}
		}
		s.Equal(1, count)
	})

	s.Run("empty client id is invalid input", func() {
		_, err := s.recorder.Record(s.ctx, id.ClientID(""), date(2024, 1, 1), date(2024, 1, 15))
		s.Error(err)
	})

	s.Run("zero dates are invalid input", func() {
		_, err := s.recorder.Record(s.ctx, clientID, time.Time{}, date(2024, 1, 15))
		s.Error(err)
	})
}
