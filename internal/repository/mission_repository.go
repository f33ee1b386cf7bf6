package repository

import (
	"errors"

	"gorm.io/gorm"

	"missionforge-backend/internal/db"
	"missionforge-backend/internal/model"
)

type MissionRepository interface {
	CreateMission(mission *model.Mission) error
	GetMissionByID(id uint) (*model.Mission, error)
	GetMissionsByUser(userID uint) ([]model.Mission, error)
	MarkMissionCompleted(id uint) (bool, error)
	CountCompletedMissions(userID uint) (int64, error)
	SaveArtifact(artifact *model.MissionArtifact) error
	GetArtifacts(missionID uint) ([]model.MissionArtifact, error)
}

type missionRepository struct{}

func NewMissionRepository() MissionRepository {
	return &missionRepository{}
}

func (r *missionRepository) CreateMission(mission *model.Mission) error {
	return db.GetDB().Create(mission).Error
}

func (r *missionRepository) GetMissionByID(id uint) (*model.Mission, error) {
	var mission model.Mission
	err := db.GetDB().First(&mission, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mission, nil
}

func (r *missionRepository) GetMissionsByUser(userID uint) ([]model.Mission, error) {
	var missions []model.Mission
	err := db.GetDB().Where("user_id = ?", userID).Order("created_at desc").Find(&missions).Error
	return missions, err
}

// MarkMissionCompleted latches the mission's status. The status guard in the
// WHERE clause makes concurrent deliveries race safely: only the write that
// actually flips the row reports true.
func (r *missionRepository) MarkMissionCompleted(id uint) (bool, error) {
	res := db.GetDB().Model(&model.Mission{}).
		Where("id = ? AND status <> ?", id, model.MissionStatusCompleted).
		Updates(map[string]interface{}{
			"status":       model.MissionStatusCompleted,
			"completed_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *missionRepository) CountCompletedMissions(userID uint) (int64, error) {
	var n int64
	err := db.GetDB().Model(&model.Mission{}).
		Where("user_id = ? AND status = ?", userID, model.MissionStatusCompleted).
		Count(&n).Error
	return n, err
}

func (r *missionRepository) SaveArtifact(artifact *model.MissionArtifact) error {
	return db.GetDB().Create(artifact).Error
}

func (r *missionRepository) GetArtifacts(missionID uint) ([]model.MissionArtifact, error) {
	var artifacts []model.MissionArtifact
	err := db.GetDB().Where("mission_id = ?", missionID).Find(&artifacts).Error
	return artifacts, err
}
