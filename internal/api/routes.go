package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"runtracker/internal/service"
)

// BasePath is the prefix of every versioned endpoint.
const BasePath = "/api/v1"

// Services bundles what the route table needs.
type Services struct {
	Auth      service.AuthService
	Plans     service.PlanService
	Trainings service.TrainingService
	Diary     service.DiaryService
	Calendar  service.CalendarService
}

func SetupRoutes(router *gin.Engine, jwtSecret string, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	planHandler := NewPlanHandler(svc.Plans)
	trainingHandler := NewTrainingHandler(svc.Trainings)
	diaryHandler := NewDiaryHandler(svc.Diary)
	calendarHandler := NewCalendarHandler(svc.Calendar)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group(BasePath)
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, ok := mustUserID(c)
			if !ok {
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userID, "isAdmin": c.GetBool(ContextIsAdminKey)})
		})

		// --- Training Plans ---
		planGroup := protected.Group("/plans")
		{
			planGroup.GET("", planHandler.ListPlans)
			planGroup.POST("", planHandler.CreatePlan)
			planGroup.GET("/:planId", planHandler.GetPlan)
			planGroup.PUT("/:planId", planHandler.UpdatePlan)
			planGroup.DELETE("/:planId", planHandler.DeletePlan)
			planGroup.POST("/:planId/select", planHandler.SelectPlan)

			planGroup.GET("/:planId/trainings", trainingHandler.ListTrainings)
			planGroup.POST("/:planId/trainings", trainingHandler.CreateTraining)
			planGroup.GET("/:planId/trainings/new", trainingHandler.NewTraining)
		}
		protected.GET("/current-plan", planHandler.GetCurrentPlan)

		// --- Trainings ---
		trainingGroup := protected.Group("/trainings")
		{
			trainingGroup.GET("/:trainingId", trainingHandler.GetTraining)
			trainingGroup.PUT("/:trainingId", trainingHandler.UpdateTraining)
			trainingGroup.DELETE("/:trainingId", trainingHandler.DeleteTraining)
			trainingGroup.POST("/:trainingId/complete", trainingHandler.CompleteTraining)
		}

		// --- Diary ---
		diaryGroup := protected.Group("/diary")
		{
			diaryGroup.GET("", diaryHandler.ListEntries)
			diaryGroup.POST("", diaryHandler.CreateEntry)
			diaryGroup.GET("/:entryId", diaryHandler.GetEntry)
			diaryGroup.PUT("/:entryId", diaryHandler.UpdateEntry)
			diaryGroup.DELETE("/:entryId", diaryHandler.DeleteEntry)
		}

		// --- Calendar ---
		protected.GET("/calendar", calendarHandler.GetMonth)
		protected.GET("/calendar.html", calendarHandler.GetMonthHTML)
		protected.POST("/calendar/snapshots", calendarHandler.CreateSnapshot)

		// --- Admin ---
		adminGroup := protected.Group("/admin")
		adminGroup.Use(AdminMiddleware())
		{
			adminGroup.GET("/users", authHandler.ListUsers)
		}
	}
}
