package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"missionforge-backend/internal/apperror"
	"missionforge-backend/internal/service"
	"missionforge-backend/utilities"
)

type ProgressController struct {
	ProgressService service.ProgressService
}

func NewProgressController(progressService service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// CompleteRoom handles POST /progress/complete-room
func (pc *ProgressController) CompleteRoom(c *gin.Context) {
	uid, ok := utilities.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	var req service.RoomCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	req.UserID = uid

	result, err := pc.ProgressService.RecordRoomCompletion(req)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetMissionProgress handles GET /progress/:missionId
func (pc *ProgressController) GetMissionProgress(c *gin.Context) {
	uid, ok := utilities.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	missionID, err := parseID(c.Param("missionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mission ID"})
		return
	}
	rows, err := pc.ProgressService.GetMissionProgress(uid, missionID)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": rows})
}
