package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"missionforge-backend/internal/apperror"
	"missionforge-backend/internal/service"
	"missionforge-backend/utilities"
)

type StatsController struct {
	ProgressService service.ProgressService
	StatsService    service.StatsService
	ReportService   service.ReportService
}

func NewStatsController(progressService service.ProgressService, statsService service.StatsService, reportService service.ReportService) *StatsController {
	return &StatsController{
		ProgressService: progressService,
		StatsService:    statsService,
		ReportService:   reportService,
	}
}

// GetStats handles GET /stats
func (sc *StatsController) GetStats(c *gin.Context) {
	uid, ok := utilities.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	stats, err := sc.ProgressService.GetStats(uid)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetAchievements handles GET /stats/achievements
func (sc *StatsController) GetAchievements(c *gin.Context) {
	uid, ok := utilities.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	unlocks, err := sc.ProgressService.GetAchievements(uid)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"achievements": unlocks})
}

// GetLeaderboard handles GET /stats/leaderboard
func (sc *StatsController) GetLeaderboard(c *gin.Context) {
	entries, err := sc.StatsService.GetLeaderboard(c.Request.Context())
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

// DownloadReport handles GET /stats/report
func (sc *StatsController) DownloadReport(c *gin.Context) {
	uid, ok := utilities.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	pdfContent, err := sc.ReportService.BuildProgressReport(uid)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=progress_report.pdf")
	c.Data(http.StatusOK, "application/pdf", pdfContent)
}
