package rest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/habitat-tracker/internal/api/shared/constants"
	"github.com/feral-file/habitat-tracker/internal/api/shared/dto"
	"github.com/feral-file/habitat-tracker/internal/query"
	"github.com/feral-file/habitat-tracker/internal/session"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// GetLandlordReport builds the report of a landlord
	// GET /api/v1/landlords/:address/report
	GetLandlordReport(c *gin.Context)

	// GetHarvesterReport builds the player summary and locked stakes of a harvester
	// GET /api/v1/harvesters/:address/harvests
	GetHarvesterReport(c *gin.Context)

	// CreateSession starts a new query session
	// POST /api/v1/sessions
	CreateSession(c *gin.Context)

	// SubmitQuery submits a landlord query to a session; the result replaces any earlier one
	// POST /api/v1/sessions/:id/queries
	SubmitQuery(c *gin.Context)

	// GetSession returns the state of a session, optionally waiting for the running query
	// GET /api/v1/sessions/:id?wait=<seconds>
	GetSession(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	orchestrator query.Orchestrator
	sessions     *session.Manager
	queryTimeout time.Duration
}

// NewHandler creates a new REST API handler
func NewHandler(orchestrator query.Orchestrator, sessions *session.Manager, queryTimeout time.Duration) Handler {
	return &handler{
		orchestrator: orchestrator,
		sessions:     sessions,
		queryTimeout: queryTimeout,
	}
}

func (h *handler) queryContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.queryTimeout > 0 {
		return context.WithTimeout(c.Request.Context(), h.queryTimeout)
	}
	return context.WithCancel(c.Request.Context())
}

// GetLandlordReport builds the report of a landlord
func (h *handler) GetLandlordReport(c *gin.Context) {
	address := c.Param("address")

	ctx, cancel := h.queryContext(c)
	defer cancel()

	r, err := h.orchestrator.LandlordReport(ctx, address)
	if err != nil {
		respondQueryError(c, err, zap.String("landlord", address))
		return
	}

	c.JSON(http.StatusOK, dto.MapLandlordReportToDTO(r))
}

// GetHarvesterReport builds the player summary and locked stakes of a harvester
func (h *handler) GetHarvesterReport(c *gin.Context) {
	address := c.Param("address")

	ctx, cancel := h.queryContext(c)
	defer cancel()

	r, err := h.orchestrator.HarvesterReport(ctx, address)
	if err != nil {
		respondQueryError(c, err, zap.String("harvester", address))
		return
	}

	c.JSON(http.StatusOK, dto.MapHarvesterReportToDTO(r))
}

// CreateSession starts a new query session
func (h *handler) CreateSession(c *gin.Context) {
	s := h.sessions.Create()
	c.JSON(http.StatusCreated, dto.MapSessionToDTO(s.State()))
}

// SubmitQuery submits a landlord query to a session
func (h *handler) SubmitQuery(c *gin.Context) {
	s, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		respondNotFound(c, "Session not found")
		return
	}

	var req dto.SubmitQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err)
		return
	}

	seq := s.Submit(c.Request.Context(), req.Landlord)

	c.JSON(http.StatusAccepted, dto.SubmitQueryResponse{
		SessionID: s.ID(),
		Sequence:  seq,
	})
}

// GetSession returns the state of a session
func (h *handler) GetSession(c *gin.Context) {
	s, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		respondNotFound(c, "Session not found")
		return
	}

	wait, err := parseWait(c.Query("wait"))
	if err != nil {
		respondBadRequest(c, "Invalid wait parameter", err.Error())
		return
	}

	state := s.State()
	if wait > 0 && state.Searching {
		ctx, cancel := context.WithTimeout(c.Request.Context(), wait)
		defer cancel()

		// A timeout returns the still-searching state
		state, _ = s.Wait(ctx, state.Sequence)
	}

	c.JSON(http.StatusOK, dto.MapSessionToDTO(state))
}

func parseWait(v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds < 0 || seconds > constants.MAX_WAIT_SECONDS {
		return 0, fmt.Errorf("wait must be between 0 and %d seconds", constants.MAX_WAIT_SECONDS)
	}
	return time.Duration(seconds) * time.Second, nil
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Service: constants.SERVICE_NAME,
	})
}
