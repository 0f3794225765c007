package api

import (
	"alcyxob/workout-roulette/internal/domain"
	"alcyxob/workout-roulette/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ActionHandler holds the action service dependency.
type ActionHandler struct {
	actionService service.ActionService
}

// NewActionHandler creates a new ActionHandler.
func NewActionHandler(actionService service.ActionService) *ActionHandler {
	return &ActionHandler{actionService: actionService}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateActionRequest defines the expected JSON for creating an action.
type CreateActionRequest struct {
	Description string `json:"description" binding:"required"`
	PointValue  int    `json:"pointValue" binding:"required,gt=0"`
}

// ActionResponse is the DTO for returning action details.
type ActionResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	PointValue  int       `json:"pointValue"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MapActionToResponse converts a domain.Action to ActionResponse DTO.
func MapActionToResponse(a *domain.Action) ActionResponse {
	if a == nil {
		return ActionResponse{}
	}
	return ActionResponse{
		ID:          a.ID.Hex(),
		Description: a.Description,
		PointValue:  a.PointValue,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// --- Handler Methods ---

// CreateAction creates a new point-earning action.
func (h *ActionHandler) CreateAction(c *gin.Context) {
	var req CreateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	action, err := h.actionService.CreateAction(c.Request.Context(), req.Description, req.PointValue)
	if err != nil {
		if errors.Is(err, service.ErrActionDescriptionRequired) || errors.Is(err, service.ErrActionPointValueInvalid) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create action.")
		}
		return
	}
	c.JSON(http.StatusCreated, MapActionToResponse(action))
}

// ListActions returns all actions.
func (h *ActionHandler) ListActions(c *gin.Context) {
	actions, err := h.actionService.GetAllActions(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list actions.")
		return
	}

	responses := make([]ActionResponse, len(actions))
	for i := range actions {
		responses[i] = MapActionToResponse(&actions[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetAction returns one action by ID.
func (h *ActionHandler) GetAction(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	action, err := h.actionService.GetActionByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrActionNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to get action.")
		}
		return
	}
	c.JSON(http.StatusOK, MapActionToResponse(action))
}

// UpdateAction edits an action. Past completions keep their snapshotted
// point values.
func (h *ActionHandler) UpdateAction(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	action, err := h.actionService.UpdateAction(c.Request.Context(), id, req.Description, req.PointValue)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActionNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrActionDescriptionRequired), errors.Is(err, service.ErrActionPointValueInvalid):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update action.")
		}
		return
	}
	c.JSON(http.StatusOK, MapActionToResponse(action))
}

// DeleteAction removes an action definition.
func (h *ActionHandler) DeleteAction(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.actionService.DeleteAction(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrActionNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete action.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
