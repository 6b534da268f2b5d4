package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"flightinfo-service/internal/domain/entity"
	"flightinfo-service/internal/domain/repository"
	"flightinfo-service/internal/usecase"
	"flightinfo-service/pkg/logger"
	"flightinfo-service/pkg/metrics"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// ErrorResponse is the error body shared by every endpoint.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// Handlers contains the HTTP handlers for the flight API.
type Handlers struct {
	svc     *usecase.FlightService
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *usecase.FlightService, log logger.Logger, m *metrics.Metrics) *Handlers {
	return &Handlers{
		svc:     svc,
		logger:  log,
		metrics: m,
	}
}

// RegisterRoutes mounts the flight endpoints on the router.
func (h *Handlers) RegisterRoutes(r *gin.Engine) {
	flights := r.Group("/api/flights")
	{
		flights.POST("", h.CreateFlight)
		flights.GET("", h.ListFlights)
		flights.GET("/:id", h.GetFlight)
		flights.PUT("/:id", h.UpdateFlight)
		flights.DELETE("/:id", h.DeleteFlight)
	}
}

// observe records the duration and count of one operation.
func (h *Handlers) observe(operation string) func() {
	start := time.Now()
	h.metrics.Operations.WithLabelValues(operation).Inc()
	return func() {
		h.metrics.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// CreateFlight handles POST /api/flights.
func (h *Handlers) CreateFlight(c *gin.Context) {
	defer h.observe("create")()

	var detail entity.FlightDetail
	if err := c.ShouldBindJSON(&detail); err != nil {
		h.metrics.ValidationFailed.Inc()
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Validation Failure",
			Message: "Invalid data format",
			Details: []string{err.Error()},
		})
		return
	}

	h.logger.Info("CreateFlight called", "flightNumber", detail.FlightNumber)

	id, err := h.svc.Create(c.Request.Context(), detail)
	if err != nil {
		var verrs usecase.ValidationErrors
		if errors.As(err, &verrs) {
			h.logger.Warn("CreateFlight validation failed", "flightNumber", detail.FlightNumber, "errors", verrs)
			h.metrics.ValidationFailed.Inc()
			c.JSON(http.StatusBadRequest, validationResponse(verrs))
			return
		}

		h.logger.Error("CreateFlight failed", "flightNumber", detail.FlightNumber, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal Failure",
			Message: "The flight could not be created.",
		})
		return
	}

	h.logger.Info("Flight created successfully", "id", id, "flightNumber", detail.FlightNumber)
	c.Header("Location", fmt.Sprintf("/api/flights/%d", id))
	c.JSON(http.StatusCreated, gin.H{"createdId": id})
}

// GetFlight handles GET /api/flights/:id.
func (h *Handlers) GetFlight(c *gin.Context) {
	defer h.observe("get")()

	id, ok := h.flightID(c)
	if !ok {
		return
	}

	detail, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.logger.Warn("GetFlight did not find a flight", "id", id)
			c.JSON(http.StatusNotFound, notFoundResponse(id))
			return
		}
		h.internalError(c, "GetFlight", id, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// ListFlights handles GET /api/flights. Without query parameters it
// returns every flight (no pagination); with any of airline,
// departureAirport, arrivalAirport, fromDate or toDate it returns the
// matching subset.
func (h *Handlers) ListFlights(c *gin.Context) {
	criteria := entity.SearchCriteria{
		Airline:          c.Query("airline"),
		DepartureAirport: c.Query("departureAirport"),
		ArrivalAirport:   c.Query("arrivalAirport"),
	}

	for _, q := range []struct {
		name string
		dst  **time.Time
	}{
		{"fromDate", &criteria.FromDate},
		{"toDate", &criteria.ToDate},
	} {
		raw := c.Query(q.name)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Validation Failure",
				Message: fmt.Sprintf("%s must be a date in the form %s.", q.name, dateLayout),
			})
			return
		}
		*q.dst = &parsed
	}

	var (
		details []entity.FlightDetail
		err     error
	)
	if criteria.IsEmpty() {
		defer h.observe("get_all")()
		details, err = h.svc.GetAll(c.Request.Context())
	} else {
		defer h.observe("search")()
		details, err = h.svc.Search(c.Request.Context(), criteria)
	}
	if err != nil {
		h.internalError(c, "ListFlights", 0, err)
		return
	}

	h.logger.Info("ListFlights returned flights", "count", len(details), "airline", criteria.Airline)
	if details == nil {
		details = []entity.FlightDetail{}
	}
	c.JSON(http.StatusOK, details)
}

// UpdateFlight handles PUT /api/flights/:id.
func (h *Handlers) UpdateFlight(c *gin.Context) {
	defer h.observe("update")()

	id, ok := h.flightID(c)
	if !ok {
		return
	}

	var detail entity.FlightDetail
	if err := c.ShouldBindJSON(&detail); err != nil {
		h.metrics.ValidationFailed.Inc()
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Validation Failure",
			Message: "Invalid data format",
			Details: []string{err.Error()},
		})
		return
	}

	h.logger.Info("UpdateFlight called", "id", id)

	updated, err := h.svc.Update(c.Request.Context(), id, detail)
	if err != nil {
		var verrs usecase.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			h.logger.Warn("UpdateFlight validation failed", "id", id, "errors", verrs)
			h.metrics.ValidationFailed.Inc()
			c.JSON(http.StatusBadRequest, validationResponse(verrs))
		case errors.Is(err, repository.ErrNotFound):
			h.logger.Warn("UpdateFlight did not find a flight", "id", id)
			c.JSON(http.StatusNotFound, notFoundResponse(id))
		case errors.Is(err, repository.ErrConflict):
			h.logger.Warn("Concurrency conflict when updating flight", "id", id)
			h.metrics.Conflicts.Inc()
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "Concurrency Conflict",
				Message: "The flight was modified by another user. Please reload the latest data and try again.",
			})
		default:
			h.internalError(c, "UpdateFlight", id, err)
		}
		return
	}

	h.logger.Info("UpdateFlight succeeded", "id", id)
	c.JSON(http.StatusOK, updated)
}

// DeleteFlight handles DELETE /api/flights/:id.
func (h *Handlers) DeleteFlight(c *gin.Context) {
	defer h.observe("delete")()

	id, ok := h.flightID(c)
	if !ok {
		return
	}

	removed, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.logger.Warn("DeleteFlight attempted for non-existing flight", "id", id)
			c.JSON(http.StatusNotFound, notFoundResponse(id))
			return
		}
		h.internalError(c, "DeleteFlight", id, err)
		return
	}

	h.logger.Info("DeleteFlight succeeded", "id", id)
	c.JSON(http.StatusOK, removed)
}

// flightID parses the :id path parameter; responds 400 when malformed.
func (h *Handlers) flightID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Validation Failure",
			Message: "Flight id must be an integer.",
		})
		return 0, false
	}
	return id, true
}

func (h *Handlers) internalError(c *gin.Context, op string, id int64, err error) {
	h.logger.Error(op+" failed", "id", id, "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "Internal Failure",
		Message: "An unexpected error occurred.",
	})
}

func validationResponse(verrs usecase.ValidationErrors) ErrorResponse {
	resp := ErrorResponse{
		Error:   "Validation Failure",
		Message: "Invalid data format",
	}
	for _, fe := range verrs {
		resp.Details = append(resp.Details, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return resp
}

func notFoundResponse(id int64) ErrorResponse {
	return ErrorResponse{
		Error:   "Not Found",
		Message: fmt.Sprintf("Flight with id: %d is not found.", id),
	}
}
