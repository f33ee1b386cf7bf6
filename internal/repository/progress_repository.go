package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"missionforge-backend/internal/db"
	"missionforge-backend/internal/model"
)

type ProgressRepository interface {
	InitMissionRooms(userID, missionID uint, roomTypes []string) error
	UpsertCompletion(progress *model.MissionProgress) (*model.MissionProgress, error)
	GetMissionProgress(userID, missionID uint) ([]model.MissionProgress, error)
}

type progressRepository struct{}

func NewProgressRepository() ProgressRepository {
	return &progressRepository{}
}

// InitMissionRooms creates one not_started row per room at mission creation.
// Rows that already exist are left untouched.
func (r *progressRepository) InitMissionRooms(userID, missionID uint, roomTypes []string) error {
	rows := make([]model.MissionProgress, 0, len(roomTypes))
	for _, rt := range roomTypes {
		rows = append(rows, model.MissionProgress{
			UserID:    userID,
			MissionID: missionID,
			RoomType:  rt,
			Status:    model.ProgressStatusNotStarted,
		})
	}
	return db.GetDB().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "mission_id"}, {Name: "room_type"}},
		DoNothing: true,
	}).Create(&rows).Error
}

// UpsertCompletion writes one completion event keyed on
// (user_id, mission_id, room_type). A conflicting row is replaced
// last-writer-wins and its attempts counter incremented. Returns the row as
// persisted.
func (r *progressRepository) UpsertCompletion(progress *model.MissionProgress) (*model.MissionProgress, error) {
	progress.Attempts = 1
	err := db.GetDB().Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "mission_id"}, {Name: "room_type"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"score":        progress.Score,
			"max_score":    progress.MaxScore,
			"time_spent":   progress.TimeSpent,
			"status":       progress.Status,
			"completed_at": progress.CompletedAt,
			"attempts":     gorm.Expr("mission_progresses.attempts + 1"),
			"updated_at":   time.Now(),
		}),
	}).Create(progress).Error
	if err != nil {
		return nil, err
	}

	var saved model.MissionProgress
	err = db.GetDB().
		Where("user_id = ? AND mission_id = ? AND room_type = ?",
			progress.UserID, progress.MissionID, progress.RoomType).
		First(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *progressRepository) GetMissionProgress(userID, missionID uint) ([]model.MissionProgress, error) {
	var rows []model.MissionProgress
	err := db.GetDB().
		Where("user_id = ? AND mission_id = ?", userID, missionID).
		Find(&rows).Error
	return rows, err
}
