package repository

import (
	"time"

	"gorm.io/gorm/clause"

	"missionforge-backend/internal/db"
	"missionforge-backend/internal/model"
)

type AchievementRepository interface {
	GetUnlockedIDs(userID uint) (map[string]bool, error)
	CreateUnlock(unlock *model.UserAchievement) (bool, error)
	GetUnlocks(userID uint) ([]model.UserAchievement, error)
}

type achievementRepository struct{}

func NewAchievementRepository() AchievementRepository {
	return &achievementRepository{}
}

func (r *achievementRepository) GetUnlockedIDs(userID uint) (map[string]bool, error) {
	var rows []model.UserAchievement
	err := db.GetDB().Select("achievement_id").Where("user_id = ?", userID).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	unlocked := make(map[string]bool, len(rows))
	for _, row := range rows {
		unlocked[row.AchievementID] = true
	}
	return unlocked, nil
}

// CreateUnlock inserts an unlock row if none exists for (user, achievement).
// Returns true when the row was newly created. The unique index plus
// DoNothing makes concurrent unlocks of the same achievement collapse into
// one row.
func (r *achievementRepository) CreateUnlock(unlock *model.UserAchievement) (bool, error) {
	if unlock.UnlockedAt.IsZero() {
		unlock.UnlockedAt = time.Now()
	}
	result := db.GetDB().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(unlock)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *achievementRepository) GetUnlocks(userID uint) ([]model.UserAchievement, error) {
	var rows []model.UserAchievement
	err := db.GetDB().Where("user_id = ?", userID).Order("unlocked_at asc").Find(&rows).Error
	return rows, err
}
