package api

import (
	"alcyxob/workout-roulette/internal/backup"
	"alcyxob/workout-roulette/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	sessionService service.SessionService,
	poolService service.WorkoutPoolService,
	workoutService service.WorkoutService,
	actionService service.ActionService,
	backupService backup.Service,
) {

	sessionHandler := NewSessionHandler(sessionService)
	poolHandler := NewPoolHandler(poolService)
	workoutHandler := NewWorkoutHandler(workoutService)
	actionHandler := NewActionHandler(actionService)
	backupHandler := NewBackupHandler(backupService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		// --- Session Routes ---
		sessionGroup := apiV1.Group("/sessions")
		{
			sessionGroup.POST("", sessionHandler.StartSession)
			sessionGroup.GET("", sessionHandler.ListSessions)
			// "active" must be registered before the :id routes would shadow it.
			sessionGroup.GET("/active", sessionHandler.GetActiveSession)
			sessionGroup.GET("/:id", sessionHandler.GetSession)
			sessionGroup.POST("/:id/end", sessionHandler.EndSession)
			sessionGroup.POST("/:id/cancel", sessionHandler.CancelSession)
			sessionGroup.POST("/:id/completions", sessionHandler.CompleteAction)
			sessionGroup.GET("/:id/completions", sessionHandler.ListCompletions)
			sessionGroup.POST("/:id/draws", sessionHandler.SpendPoints)
			sessionGroup.GET("/:id/draws", sessionHandler.ListReceived)
		}

		// --- Pool Routes ---
		poolGroup := apiV1.Group("/pools")
		{
			poolGroup.POST("", poolHandler.CreatePool)
			poolGroup.GET("", poolHandler.ListPools)
			poolGroup.GET("/:id", poolHandler.GetPool)
			poolGroup.DELETE("/:id", poolHandler.DeletePool)
			poolGroup.POST("/:id/workouts", poolHandler.AddWorkout)
			poolGroup.GET("/:id/workouts", poolHandler.ListWorkouts)
			poolGroup.DELETE("/:id/workouts/:workoutId", poolHandler.RemoveWorkout)
			poolGroup.GET("/:id/random", poolHandler.RandomWorkout)
		}

		// --- Workout Routes ---
		workoutGroup := apiV1.Group("/workouts")
		{
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			workoutGroup.PUT("/:id", workoutHandler.UpdateWorkout)
			workoutGroup.PATCH("/:id/visibility", workoutHandler.SetVisibility)
			workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
		}

		// --- Action Routes ---
		actionGroup := apiV1.Group("/actions")
		{
			actionGroup.POST("", actionHandler.CreateAction)
			actionGroup.GET("", actionHandler.ListActions)
			actionGroup.GET("/:id", actionHandler.GetAction)
			actionGroup.PUT("/:id", actionHandler.UpdateAction)
			actionGroup.DELETE("/:id", actionHandler.DeleteAction)
		}

		// --- Stats & Backup ---
		apiV1.GET("/stats/sessions", sessionHandler.SessionStats)
		apiV1.POST("/backups", backupHandler.ExportBackup)
		apiV1.POST("/backups/import", backupHandler.ImportBackup)
	}
}
