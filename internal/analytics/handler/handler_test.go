package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"padoca/internal/analytics"
	"padoca/internal/eventstore"
	"padoca/internal/reschedule"
	dErrors "padoca/pkg/domain-errors"
	"padoca/pkg/requestcontext"
	"padoca/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite

	now    time.Time
	events *eventstore.MemoryStore
	router http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.now = time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

	s.events = eventstore.NewMemoryStore()
	s.events.PutClient(eventstore.Client{ID: "pdv-1", Name: "Padaria Central", Active: true})
	s.events.PutCadenceConfig(eventstore.CadenceConfig{
		ClientID: "pdv-1", PeriodicityDays: 7, Quantity: 70, TargetWeeklyTurnover: 70,
	})
	for i := 0; i < 12; i++ {
		s.events.AddEvent(eventstore.DeliveryEvent{
			ClientID:   "pdv-1",
			ProductID:  "baguete",
			OccurredAt: s.now.AddDate(0, 0, -7*i),
			Quantity:   70,
			Kind:       eventstore.KindDelivery,
		})
	}

	reschedules := reschedule.NewMemoryStore()
	recorder, err := reschedule.NewRecorder(reschedules)
	s.Require().NoError(err)
	service, err := analytics.New(s.events, reschedules, recorder)
	s.Require().NoError(err)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(requestcontext.WithTime(req.Context(), s.now)))
		})
	})
	New(service, nil).Register(r)
	s.router = r
}

func (s *HandlerSuite) get(path string) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, path))
}

func (s *HandlerSuite) post(path, body string) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, path, body))
}

func (s *HandlerSuite) TestGiro() {
	rec := s.get("/analytics/giro")
	testutil.AssertStatus(s.T(), rec, http.StatusOK)

	body := testutil.UnmarshalResponse[map[string]any](s.T(), rec)
	s.Equal(float64(70), body["giro_semanal_total"])
	s.Equal(float64(1), body["total_clientes_ativos"])
}

func (s *HandlerSuite) TestClientGiro() {
	rec := s.get("/analytics/clients/pdv-1/giro")
	testutil.AssertStatus(s.T(), rec, http.StatusOK)

	body := testutil.UnmarshalResponse[map[string]any](s.T(), rec)
	s.Equal(float64(840), body["total_entregas"])
	s.Equal(float64(70), body["giro_semanal"])
}

func (s *HandlerSuite) TestCadence() {
	s.Run("configured client", func() {
		rec := s.get("/analytics/clients/pdv-1/cadence")
		testutil.AssertStatus(s.T(), rec, http.StatusOK)

		body := testutil.UnmarshalResponse[map[string]any](s.T(), rec)
		s.Equal("green", body["tier"])
		s.Equal(float64(7), body["observed_interval_days"])
	})

	s.Run("unknown client is 404", func() {
		rec := s.get("/analytics/clients/pdv-9/cadence")
		testutil.AssertStatus(s.T(), rec, http.StatusNotFound)
		testutil.AssertErrorCode(s.T(), rec, string(dErrors.CodeNotFound))
	})
}

func (s *HandlerSuite) TestConfirmation() {
	rec := s.get("/analytics/clients/pdv-1/confirmation")
	testutil.AssertStatus(s.T(), rec, http.StatusOK)

	body := testutil.UnmarshalResponse[map[string]any](s.T(), rec)
	s.Equal(float64(100), body["score"])
	s.Equal("high", body["tier"])
}

func (s *HandlerSuite) TestPerformance() {
	rec := s.get("/analytics/clients/pdv-1/performance")
	testutil.AssertStatus(s.T(), rec, http.StatusOK)

	body := testutil.UnmarshalResponse[map[string]any](s.T(), rec)
	s.Equal("green", body["tier"])
	s.Equal("Acima da média", body["label"])
}

func (s *HandlerSuite) TestProductionNeeds() {
	rec := s.get("/analytics/production-needs")
	testutil.AssertStatus(s.T(), rec, http.StatusOK)

	body := testutil.UnmarshalResponse[[]map[string]any](s.T(), rec)
	s.Require().Len(body, 1)
	s.Equal("baguete", body[0]["product_id"])
	s.Equal(float64(70), body[0]["media_semanal"])
}

func (s *HandlerSuite) TestReschedule() {
	s.Run("cross-week move returns 201", func() {
		rec := s.post("/deliveries/pdv-1/reschedule",
			`{"original_date":"2024-01-01","new_date":"2024-01-15"}`)
		testutil.AssertStatus(s.T(), rec, http.StatusCreated)

		body := testutil.UnmarshalResponse[map[string]any](s.T(), rec)
		s.Equal("postponement", body["direction"])
		s.Equal(float64(2), body["weeks_shifted"])
	})

	s.Run("replay returns 204", func() {
		first := s.post("/deliveries/pdv-1/reschedule",
			`{"original_date":"2024-02-05","new_date":"2024-02-12"}`)
		testutil.AssertStatus(s.T(), first, http.StatusCreated)

		replay := s.post("/deliveries/pdv-1/reschedule",
			`{"original_date":"2024-02-05","new_date":"2024-02-12"}`)
		testutil.AssertStatus(s.T(), replay, http.StatusNoContent)
	})

	s.Run("same-week move returns 204", func() {
		rec := s.post("/deliveries/pdv-1/reschedule",
			`{"original_date":"2024-05-01","new_date":"2024-05-03"}`)
		testutil.AssertStatus(s.T(), rec, http.StatusNoContent)
	})

	s.Run("malformed body returns 400", func() {
		rec := s.post("/deliveries/pdv-1/reschedule", `{`)
		testutil.AssertStatus(s.T(), rec, http.StatusBadRequest)
		testutil.AssertErrorCode(s.T(), rec, string(dErrors.CodeInvalidInput))
	})

	s.Run("bad date returns 400", func() {
		rec := s.post("/deliveries/pdv-1/reschedule",
			`{"original_date":"01/05/2024","new_date":"2024-05-03"}`)
		testutil.AssertStatus(s.T(), rec, http.StatusBadRequest)
	})
}

func (s *HandlerSuite) TestRescheduleSummary() {
	created := s.post("/deliveries/pdv-1/reschedule",
		`{"original_date":"2024-01-01","new_date":"2024-01-15"}`)
	testutil.AssertStatus(s.T(), created, http.StatusCreated)

	rec := s.get("/analytics/reschedules/summary")
	testutil.AssertStatus(s.T(), rec, http.StatusOK)

	body := testutil.UnmarshalResponse[map[string]any](s.T(), rec)
	s.Equal(float64(1), body["total_count"])
	s.Equal(float64(2), body["mean_weeks_shifted"])
}

func (s *HandlerSuite) TestFleetReview() {
	rec := s.get("/analytics/fleet-review")
	testutil.AssertStatus(s.T(), rec, http.StatusOK)

	body := testutil.UnmarshalResponse[map[string]any](s.T(), rec)
	fleet, ok := body["fleet"].(map[string]any)
	s.Require().True(ok)
	s.Equal(float64(70), fleet["giro_semanal_total"])
}
