package api

import (
	"alcyxob/workout-roulette/internal/domain"
	"alcyxob/workout-roulette/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PoolHandler holds the pool service dependency.
type PoolHandler struct {
	poolService service.WorkoutPoolService
}

// NewPoolHandler creates a new PoolHandler.
func NewPoolHandler(poolService service.WorkoutPoolService) *PoolHandler {
	return &PoolHandler{poolService: poolService}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreatePoolRequest defines the expected JSON for creating a pool.
type CreatePoolRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddWorkoutToPoolRequest defines the expected JSON for adding a workout.
type AddWorkoutToPoolRequest struct {
	WorkoutID string `json:"workoutId" binding:"required"`
}

// PoolResponse is the DTO for returning pool details.
type PoolResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// MapPoolToResponse converts a domain.WorkoutPool to PoolResponse DTO.
func MapPoolToResponse(p *domain.WorkoutPool) PoolResponse {
	if p == nil {
		return PoolResponse{}
	}
	return PoolResponse{
		ID:        p.ID.Hex(),
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
	}
}

// --- Handler Methods ---

// CreatePool creates a new workout pool.
func (h *PoolHandler) CreatePool(c *gin.Context) {
	var req CreatePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	pool, err := h.poolService.CreatePool(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, service.ErrPoolNameRequired) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create pool.")
		}
		return
	}
	c.JSON(http.StatusCreated, MapPoolToResponse(pool))
}

// ListPools returns all pools.
func (h *PoolHandler) ListPools(c *gin.Context) {
	pools, err := h.poolService.GetAllPools(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list pools.")
		return
	}

	responses := make([]PoolResponse, len(pools))
	for i := range pools {
		responses[i] = MapPoolToResponse(&pools[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetPool returns one pool by ID.
func (h *PoolHandler) GetPool(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	pool, err := h.poolService.GetPoolByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPoolNotFound) {
			abortWithError(c, http.StatusNotFound, "Workout pool with ID "+c.Param("id")+" not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to get pool.")
		}
		return
	}
	c.JSON(http.StatusOK, MapPoolToResponse(pool))
}

// DeletePool removes a pool and its membership rows. The workouts survive.
func (h *PoolHandler) DeletePool(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.poolService.DeletePool(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrPoolNotFound) {
			abortWithError(c, http.StatusNotFound, "Workout pool with ID "+c.Param("id")+" not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete pool.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// AddWorkout godoc
// @Summary Add a workout to a pool
// @Description Inserts a membership row. Duplicate pairs are rejected with 409.
// @Tags Pools
// @Accept json
// @Produce json
// @Param id path string true "Pool ID"
// @Param membership body AddWorkoutToPoolRequest true "Workout to add"
// @Success 204 "Workout added"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Pool or workout not found"
// @Failure 409 {object} gin.H "Workout is already in this pool"
// @Router /pools/{id}/workouts [post]
func (h *PoolHandler) AddWorkout(c *gin.Context) {
	poolID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddWorkoutToPoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	workoutID, err := primitive.ObjectIDFromHex(req.WorkoutID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workoutId format.")
		return
	}

	if err := h.poolService.AddWorkoutToPool(c.Request.Context(), poolID, workoutID); err != nil {
		switch {
		case errors.Is(err, service.ErrPoolNotFound):
			abortWithError(c, http.StatusNotFound, "Workout pool with ID "+c.Param("id")+" not found")
		case errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, "Workout with ID "+req.WorkoutID+" not found")
		case errors.Is(err, service.ErrWorkoutAlreadyInPool):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add workout to pool.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveWorkout deletes a membership row. Never deletes the workout itself.
func (h *PoolHandler) RemoveWorkout(c *gin.Context) {
	poolID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workoutID, ok := parseIDParam(c, "workoutId")
	if !ok {
		return
	}

	if err := h.poolService.RemoveWorkoutFromPool(c.Request.Context(), poolID, workoutID); err != nil {
		if errors.Is(err, service.ErrWorkoutNotInPool) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to remove workout from pool.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// ListWorkouts returns the pool's currently visible member workouts.
// An unknown pool yields an empty list.
func (h *PoolHandler) ListWorkouts(c *gin.Context) {
	poolID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	workouts, err := h.poolService.GetWorkoutsInPool(c.Request.Context(), poolID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list pool workouts.")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutsToResponse(workouts))
}

// RandomWorkout draws a random visible workout without spending points.
// Used by the pool screen's preview; paid draws go through the session.
func (h *PoolHandler) RandomWorkout(c *gin.Context) {
	poolID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	workout, err := h.poolService.GetRandomWorkoutFromPool(c.Request.Context(), poolID)
	if err != nil {
		if errors.Is(err, service.ErrEmptyPool) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to draw workout.")
		}
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}
