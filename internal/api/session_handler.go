package api

import (
	"alcyxob/workout-roulette/internal/domain"
	"alcyxob/workout-roulette/internal/service"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionHandler holds the session service dependency.
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// --- DTOs for API (Data Transfer Objects) ---

// StartSessionRequest defines the expected JSON for starting a session.
type StartSessionRequest struct {
	Name        string `json:"name" binding:"required"`
	PoolID      string `json:"poolId" binding:"required"`
	Description string `json:"description"`
}

// CompleteActionRequest defines the expected JSON for completing an action.
type CompleteActionRequest struct {
	ActionID string `json:"actionId" binding:"required"`
}

// SpendPointsRequest defines the expected JSON for a paid workout draw.
type SpendPointsRequest struct {
	PointCost int `json:"pointCost" binding:"required,gt=0"`
}

// SessionResponse is the DTO for returning session details.
type SessionResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	PoolID       string     `json:"poolId"`
	Status       string     `json:"status"`
	StartTime    time.Time  `json:"startTime"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	PointsEarned int        `json:"pointsEarned"`
	PointsSpent  int        `json:"pointsSpent"`
	Balance      int        `json:"balance"` // Derived: earned - spent
}

// CompletionResponse is the DTO for returning a completion record.
type CompletionResponse struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"sessionId"`
	ActionID      string    `json:"actionId"`
	PointsAwarded int       `json:"pointsAwarded"`
	CompletedAt   time.Time `json:"completedAt"`
}

// ReceivedResponse is the DTO for returning a draw receipt.
type ReceivedResponse struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"sessionId"`
	WorkoutID   string    `json:"workoutId"`
	PointsSpent int       `json:"pointsSpent"`
	ReceivedAt  time.Time `json:"receivedAt"`
}

// MapSessionToResponse converts a domain.Session to SessionResponse DTO.
func MapSessionToResponse(s *domain.Session) SessionResponse {
	if s == nil {
		return SessionResponse{}
	}
	return SessionResponse{
		ID:           s.ID.Hex(),
		Name:         s.Name,
		Description:  s.Description,
		PoolID:       s.PoolID.Hex(),
		Status:       string(s.Status),
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		PointsEarned: s.PointsEarned,
		PointsSpent:  s.PointsSpent,
		Balance:      s.PointsEarned - s.PointsSpent,
	}
}

// MapSessionsToResponse converts a slice of domain.Session to DTOs.
func MapSessionsToResponse(sessions []domain.Session) []SessionResponse {
	responses := make([]SessionResponse, len(sessions))
	for i, s := range sessions {
		responses[i] = MapSessionToResponse(&s)
	}
	return responses
}

func mapCompletionToResponse(c *domain.ActionCompletion) CompletionResponse {
	return CompletionResponse{
		ID:            c.ID.Hex(),
		SessionID:     c.SessionID.Hex(),
		ActionID:      c.ActionID.Hex(),
		PointsAwarded: c.PointsAwarded,
		CompletedAt:   c.CompletedAt,
	}
}

func mapReceivedToResponse(r *domain.WorkoutReceived) ReceivedResponse {
	return ReceivedResponse{
		ID:          r.ID.Hex(),
		SessionID:   r.SessionID.Hex(),
		WorkoutID:   r.WorkoutID.Hex(),
		PointsSpent: r.PointsSpent,
		ReceivedAt:  r.ReceivedAt,
	}
}

// --- Handler Methods ---

// StartSession godoc
// @Summary Start a new session
// @Description Starts a new active session against a workout pool. Fails with 409 if a session is already active.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param session body StartSessionRequest true "Session details"
// @Success 201 {object} SessionResponse "Session started"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Pool not found"
// @Failure 409 {object} gin.H "Active session already exists"
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	poolID, err := primitive.ObjectIDFromHex(req.PoolID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid poolId format.")
		return
	}

	session, err := h.sessionService.StartSession(c.Request.Context(), req.Name, poolID, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNameRequired):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPoolNotFound):
			abortWithError(c, http.StatusNotFound, "Workout pool with ID "+req.PoolID+" not found")
		case errors.Is(err, service.ErrActiveSessionExists):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to start session.")
		}
		return
	}
	c.JSON(http.StatusCreated, MapSessionToResponse(session))
}

// GetActiveSession returns the currently active session, or 404 when none.
func (h *SessionHandler) GetActiveSession(c *gin.Context) {
	session, err := h.sessionService.GetActiveSession(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get active session.")
		return
	}
	if session == nil {
		abortWithError(c, http.StatusNotFound, "No active session")
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// ListSessions returns all sessions, newest first.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := h.sessionService.GetAllSessions(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list sessions.")
		return
	}
	c.JSON(http.StatusOK, MapSessionsToResponse(sessions))
}

// GetSession returns one session by ID.
func (h *SessionHandler) GetSession(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	session, err := h.sessionService.GetSessionByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to get session.")
		}
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// EndSession completes an active session and freezes its ledger.
func (h *SessionHandler) EndSession(c *gin.Context) {
	h.closeSession(c, h.sessionService.EndSession)
}

// CancelSession aborts an active session.
func (h *SessionHandler) CancelSession(c *gin.Context) {
	h.closeSession(c, h.sessionService.CancelSession)
}

func (h *SessionHandler) closeSession(c *gin.Context, close func(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	session, err := close(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSessionNotActive):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to close session.")
		}
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// CompleteAction godoc
// @Summary Complete an action inside a session
// @Description Records a completion and credits the session with the action's point value.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param completion body CompleteActionRequest true "Action to complete"
// @Success 201 {object} CompletionResponse "Completion recorded"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Session or action not found"
// @Failure 409 {object} gin.H "Session is not active"
// @Router /sessions/{id}/completions [post]
func (h *SessionHandler) CompleteAction(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CompleteActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	actionID, err := primitive.ObjectIDFromHex(req.ActionID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid actionId format.")
		return
	}

	completion, err := h.sessionService.CompleteAction(c.Request.Context(), id, actionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrActionNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSessionNotActive):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to complete action.")
		}
		return
	}
	c.JSON(http.StatusCreated, mapCompletionToResponse(completion))
}

// SpendPoints godoc
// @Summary Spend points for a random workout draw
// @Description Debits the session's balance and draws a random visible workout from its pool.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param draw body SpendPointsRequest true "Point cost"
// @Success 201 {object} ReceivedResponse "Draw recorded"
// @Failure 400 {object} gin.H "Invalid input, insufficient balance, or empty pool"
// @Failure 404 {object} gin.H "Session not found"
// @Failure 409 {object} gin.H "Session is not active"
// @Router /sessions/{id}/draws [post]
func (h *SessionHandler) SpendPoints(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SpendPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	received, err := h.sessionService.SpendPointsForWorkout(c.Request.Context(), id, req.PointCost)
	if err != nil {
		var insufficient *service.InsufficientBalanceError
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSessionNotActive):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.As(err, &insufficient):
			abortWithError(c, http.StatusBadRequest, insufficient.Error())
		case errors.Is(err, service.ErrEmptyPool), errors.Is(err, service.ErrInvalidPointAmount):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to draw workout.")
		}
		return
	}
	c.JSON(http.StatusCreated, mapReceivedToResponse(received))
}

// ListCompletions returns the session's completion log.
func (h *SessionHandler) ListCompletions(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	completions, err := h.sessionService.GetCompletionsForSession(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to list completions.")
		}
		return
	}

	responses := make([]CompletionResponse, len(completions))
	for i := range completions {
		responses[i] = mapCompletionToResponse(&completions[i])
	}
	c.JSON(http.StatusOK, responses)
}

// ListReceived returns the session's draw receipts.
func (h *SessionHandler) ListReceived(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	receipts, err := h.sessionService.GetReceivedForSession(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to list received workouts.")
		}
		return
	}

	responses := make([]ReceivedResponse, len(receipts))
	for i := range receipts {
		responses[i] = mapReceivedToResponse(&receipts[i])
	}
	c.JSON(http.StatusOK, responses)
}

// SessionStats returns aggregate statistics over past sessions.
func (h *SessionHandler) SessionStats(c *gin.Context) {
	avg, err := h.sessionService.AverageCompletedDuration(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute session stats.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"averageCompletedDurationMinutes": avg})
}
