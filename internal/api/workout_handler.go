package api

import (
	"alcyxob/workout-roulette/internal/domain"
	"alcyxob/workout-roulette/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateWorkoutRequest defines the expected JSON for creating a workout.
type CreateWorkoutRequest struct {
	Name            string `json:"name" binding:"required"`
	DurationMinutes int    `json:"durationMinutes" binding:"required,gt=0"`
	Difficulty      string `json:"difficulty" binding:"omitempty"` // e.g., "Novice", "Medium", "Advanced"
}

// SetVisibilityRequest defines the expected JSON for hiding/unhiding.
type SetVisibilityRequest struct {
	IsHidden *bool `json:"isHidden" binding:"required"` // Pointer so false is distinguishable from absent
}

// WorkoutResponse is the DTO for returning workout details.
type WorkoutResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"durationMinutes"`
	Difficulty      string    `json:"difficulty,omitempty"`
	IsHidden        bool      `json:"isHidden"`
	IsPreloaded     bool      `json:"isPreloaded"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// MapWorkoutToResponse converts a domain.Workout to WorkoutResponse DTO.
func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	return WorkoutResponse{
		ID:              w.ID.Hex(),
		Name:            w.Name,
		DurationMinutes: w.DurationMinutes,
		Difficulty:      w.Difficulty,
		IsHidden:        w.IsHidden,
		IsPreloaded:     w.IsPreloaded,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

// MapWorkoutsToResponse converts a slice of domain.Workout to DTOs.
func MapWorkoutsToResponse(workouts []domain.Workout) []WorkoutResponse {
	responses := make([]WorkoutResponse, len(workouts))
	for i, w := range workouts {
		responses[i] = MapWorkoutToResponse(&w)
	}
	return responses
}

// --- Handler Methods ---

// CreateWorkout creates a new workout definition.
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), req.Name, req.DurationMinutes, req.Difficulty)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNameRequired) || errors.Is(err, service.ErrWorkoutDurationInvalid) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create workout.")
		}
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

// ListWorkouts returns the whole workout library, hidden workouts included.
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	workouts, err := h.workoutService.GetAllWorkouts(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list workouts.")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutsToResponse(workouts))
}

// GetWorkout returns one workout by ID.
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	workout, err := h.workoutService.GetWorkoutByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, "Workout with ID "+c.Param("id")+" not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to get workout.")
		}
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// UpdateWorkout edits a workout's attributes.
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), id, req.Name, req.DurationMinutes, req.Difficulty)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, "Workout with ID "+c.Param("id")+" not found")
		case errors.Is(err, service.ErrWorkoutNameRequired), errors.Is(err, service.ErrWorkoutDurationInvalid):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update workout.")
		}
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// SetVisibility hides or unhides a workout. Pool memberships are untouched;
// the workout just vanishes from (or reappears in) listings and draws.
func (h *WorkoutHandler) SetVisibility(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SetVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workout, err := h.workoutService.SetWorkoutHidden(c.Request.Context(), id, *req.IsHidden)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, "Workout with ID "+c.Param("id")+" not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update workout visibility.")
		}
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// DeleteWorkout removes a workout and its pool memberships.
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.workoutService.DeleteWorkout(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, "Workout with ID "+c.Param("id")+" not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete workout.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
