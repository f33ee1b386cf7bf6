package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"missionforge-backend/internal/apperror"
	"missionforge-backend/internal/service"
	"missionforge-backend/utilities"
)

type MissionController struct {
	MissionService service.MissionService
}

func NewMissionController(missionService service.MissionService) *MissionController {
	return &MissionController{MissionService: missionService}
}

// CreateMission handles POST /missions
func (mc *MissionController) CreateMission(c *gin.Context) {
	uid, ok := utilities.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	var req service.CreateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	result, err := mc.MissionService.CreateMission(c.Request.Context(), uid, req)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetMissions handles GET /missions
func (mc *MissionController) GetMissions(c *gin.Context) {
	uid, ok := utilities.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	missions, err := mc.MissionService.GetMissions(uid)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, missions)
}

// GetMission handles GET /missions/:id
func (mc *MissionController) GetMission(c *gin.Context) {
	uid, ok := utilities.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	missionID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mission ID"})
		return
	}
	mission, err := mc.MissionService.GetMission(uid, missionID)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, mission)
}

// GetArtifacts handles GET /missions/:id/artifacts
func (mc *MissionController) GetArtifacts(c *gin.Context) {
	uid, ok := utilities.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	missionID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mission ID"})
		return
	}
	artifacts, err := mc.MissionService.GetArtifacts(uid, missionID)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	// Inline each artifact's JSON payload instead of returning it as a string.
	out := make([]gin.H, 0, len(artifacts))
	for _, artifact := range artifacts {
		out = append(out, gin.H{
			"kind":       artifact.Kind,
			"payload":    json.RawMessage(artifact.Payload),
			"created_at": artifact.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"artifacts": out})
}

func parseID(param string) (uint, error) {
	id, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
