package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flightinfo-service/internal/domain/entity"
	flightRepo "flightinfo-service/internal/interface/repository"
	"flightinfo-service/internal/usecase"
	"flightinfo-service/pkg/logger"
	"flightinfo-service/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Prometheus metrics register globally, so the package shares one set.
var testMetrics = metrics.NewMetrics("flightinfo_test")

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	repo := flightRepo.NewMemoryFlightRepository()
	svc := usecase.NewFlightService(repo, usecase.NewPlaygroundValidator(), logger.NewNop())
	handlers := NewHandlers(svc, logger.NewNop(), testMetrics)

	router := gin.New()
	handlers.RegisterRoutes(router)
	return router
}

func perform(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validPayload() entity.FlightDetail {
	departure := time.Date(2024, time.November, 20, 8, 30, 0, 0, time.UTC)
	return entity.FlightDetail{
		FlightNumber:     "NZ128",
		Airline:          "Air New Zealand",
		DepartureAirport: "AKL",
		ArrivalAirport:   "SYD",
		DepartureTime:    departure,
		ArrivalTime:      departure.Add(3 * time.Hour),
		Status:           entity.StatusScheduled,
	}
}

func createFlight(t *testing.T, router *gin.Engine) int64 {
	t.Helper()
	rec := perform(router, http.MethodPost, "/api/flights", validPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		CreatedID int64 `json:"createdId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotZero(t, body.CreatedID)
	return body.CreatedID
}

func TestCreateFlightEndpoint(t *testing.T) {
	router := newRouter(t)

	rec := perform(router, http.MethodPost, "/api/flights", validPayload())
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/flights/1", rec.Header().Get("Location"))

	get := perform(router, http.MethodGet, "/api/flights/1", nil)
	require.Equal(t, http.StatusOK, get.Code)

	var detail entity.FlightDetail
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &detail))
	assert.Equal(t, "NZ128", detail.FlightNumber)
	assert.False(t, detail.LastModified.IsZero(), "the token travels with the read")
}

func TestCreateFlightValidationFailure(t *testing.T) {
	router := newRouter(t)

	payload := validPayload()
	payload.ArrivalAirport = payload.DepartureAirport
	payload.ArrivalTime = payload.DepartureTime

	rec := perform(router, http.MethodPost, "/api/flights", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Validation Failure", resp.Error)
	require.Len(t, resp.Details, 2, "all violated rules reported together")
	assert.Contains(t, resp.Details[0], "Arrival airport must be different from departure airport.")
	assert.Contains(t, resp.Details[1], "Arrival time must be after departure time.")
}

func TestCreateFlightRejectsUnknownStatus(t *testing.T) {
	router := newRouter(t)

	raw := []byte(`{"flightNumber":"NZ128","airline":"Air New Zealand","departureAirport":"AKL","arrivalAirport":"SYD","departureTime":"2024-11-20T08:30:00Z","arrivalTime":"2024-11-20T11:30:00Z","status":"Teleported"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/flights", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetFlightNotFound(t *testing.T) {
	router := newRouter(t)

	rec := perform(router, http.MethodGet, "/api/flights/99", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Not Found", resp.Error)
	assert.Equal(t, "Flight with id: 99 is not found.", resp.Message)
}

func TestFlightIDMustBeInteger(t *testing.T) {
	router := newRouter(t)

	rec := perform(router, http.MethodGet, "/api/flights/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAllFlightsEndpoint(t *testing.T) {
	router := newRouter(t)

	rec := perform(router, http.MethodGet, "/api/flights", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	createFlight(t, router)

	rec = perform(router, http.MethodGet, "/api/flights", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var details []entity.FlightDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
	assert.Len(t, details, 1)
}

func TestSearchFlightsEndpoint(t *testing.T) {
	router := newRouter(t)
	createFlight(t, router)

	t.Run("case-insensitive airline match", func(t *testing.T) {
		rec := perform(router, http.MethodGet, "/api/flights?airline=air%20new%20zealand", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var details []entity.FlightDetail
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
		require.Len(t, details, 1)
		assert.Equal(t, "Air New Zealand", details[0].Airline)
	})

	t.Run("date window", func(t *testing.T) {
		rec := perform(router, http.MethodGet, "/api/flights?fromDate=2024-11-20&toDate=2024-11-21", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var details []entity.FlightDetail
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
		assert.Len(t, details, 1)
	})

	t.Run("no matches is an empty array", func(t *testing.T) {
		rec := perform(router, http.MethodGet, "/api/flights?airline=Emirates", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		rec := perform(router, http.MethodGet, "/api/flights?fromDate=20-11-2024", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateFlightEndpoint(t *testing.T) {
	router := newRouter(t)
	id := createFlight(t, router)

	get := perform(router, http.MethodGet, fmt.Sprintf("/api/flights/%d", id), nil)
	require.Equal(t, http.StatusOK, get.Code)

	var observed entity.FlightDetail
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &observed))

	changed := observed
	changed.Status = entity.StatusDelayed

	rec := perform(router, http.MethodPut, fmt.Sprintf("/api/flights/%d", id), changed)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated entity.FlightDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, entity.StatusDelayed, updated.Status)
	assert.True(t, updated.LastModified.After(observed.LastModified))

	t.Run("stale token is a conflict", func(t *testing.T) {
		stale := observed // token from before the first update
		stale.Status = entity.StatusCancelled

		rec := perform(router, http.MethodPut, fmt.Sprintf("/api/flights/%d", id), stale)
		require.Equal(t, http.StatusConflict, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Concurrency Conflict", resp.Error)
	})

	t.Run("absent id is not found", func(t *testing.T) {
		rec := perform(router, http.MethodPut, "/api/flights/99", changed)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid body is a validation failure", func(t *testing.T) {
		bad := updated
		bad.Airline = ""

		rec := perform(router, http.MethodPut, fmt.Sprintf("/api/flights/%d", id), bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteFlightEndpoint(t *testing.T) {
	router := newRouter(t)
	id := createFlight(t, router)

	rec := perform(router, http.MethodDelete, fmt.Sprintf("/api/flights/%d", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var removed entity.FlightDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &removed))
	assert.Equal(t, id, removed.ID)

	rec = perform(router, http.MethodDelete, fmt.Sprintf("/api/flights/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
