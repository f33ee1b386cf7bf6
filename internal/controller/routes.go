package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"missionforge-backend/internal/apperror"
	"missionforge-backend/internal/service"
	"missionforge-backend/utilities"
)

// RegisterRoutes registers all route groups and their endpoints.
func RegisterRoutes(r *gin.Engine,
	authService service.AuthService,
	userService service.UserService,
	missionService service.MissionService,
	progressService service.ProgressService,
	statsService service.StatsService,
	reportService service.ReportService,
) {
	authCtrl := NewAuthController(authService)
	auth := r.Group("/auth")
	{
		auth.POST("/register", authCtrl.Register)
		auth.POST("/login", authCtrl.Login)
		auth.POST("/refresh", authCtrl.Refresh)
	}

	r.GET("/user/profile", func(c *gin.Context) {
		uid, ok := utilities.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		user, err := userService.GetProfile(uid)
		if err != nil {
			c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, user)
	})

	missionCtrl := NewMissionController(missionService)
	missions := r.Group("/missions")
	{
		missions.POST("", missionCtrl.CreateMission)
		missions.GET("", missionCtrl.GetMissions)
		missions.GET("/:id", missionCtrl.GetMission)
		missions.GET("/:id/artifacts", missionCtrl.GetArtifacts)
	}

	progressCtrl := NewProgressController(progressService)
	progress := r.Group("/progress")
	{
		progress.POST("/complete-room", progressCtrl.CompleteRoom)
		progress.GET("/:missionId", progressCtrl.GetMissionProgress)
	}

	statsCtrl := NewStatsController(progressService, statsService, reportService)
	stats := r.Group("/stats")
	{
		stats.GET("", statsCtrl.GetStats)
		stats.GET("/achievements", statsCtrl.GetAchievements)
		stats.GET("/leaderboard", statsCtrl.GetLeaderboard)
		stats.GET("/report", statsCtrl.DownloadReport)
	}
}
