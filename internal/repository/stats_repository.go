package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"missionforge-backend/internal/db"
	"missionforge-backend/internal/model"
	"missionforge-backend/internal/xp"
)

type StatsRepository interface {
	GetStats(userID uint) (*model.UserStats, error)
	ApplyCompletion(stats *model.UserStats, xpDelta int) (*model.UserStats, error)
	Leaderboard(limit int) ([]LeaderboardEntry, error)
}

// LeaderboardEntry is one row of the XP ranking.
type LeaderboardEntry struct {
	UserID            uint   `json:"user_id"`
	Username          string `json:"username"`
	TotalXP           int    `json:"total_xp"`
	CurrentLevel      int    `json:"current_level"`
	MissionsCompleted int    `json:"missions_completed"`
}

type statsRepository struct{}

func NewStatsRepository() StatsRepository {
	return &statsRepository{}
}

// GetStats returns the user's stats row, or nil if none exists yet.
func (r *statsRepository) GetStats(userID uint) (*model.UserStats, error) {
	var stats model.UserStats
	err := db.GetDB().Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// ApplyCompletion writes one completion outcome. XP goes in as an expression
// update so concurrent events for different rooms cannot lose additions to a
// read-modify-write race; the level is derived from the post-add total in the
// same statement. Streak and counter fields are last-writer-wins.
func (r *statsRepository) ApplyCompletion(stats *model.UserStats, xpDelta int) (*model.UserStats, error) {
	row := model.UserStats{
		UserID:            stats.UserID,
		TotalXP:           xpDelta,
		CurrentLevel:      xp.ComputeLevel(xpDelta),
		MissionsCompleted: stats.MissionsCompleted,
		StreakDays:        stats.StreakDays,
		LastActivityDate:  stats.LastActivityDate,
	}
	err := db.GetDB().Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_xp":           gorm.Expr("user_stats.total_xp + ?", xpDelta),
			"current_level":      gorm.Expr("(user_stats.total_xp + ?) / ? + 1", xpDelta, xp.XPPerLevel),
			"streak_days":        stats.StreakDays,
			"last_activity_date": stats.LastActivityDate,
			"missions_completed": stats.MissionsCompleted,
			"updated_at":         time.Now(),
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	return r.GetStats(stats.UserID)
}

// Leaderboard ranks users by total XP. Raw SQL through the QueryExecutor
// because the result joins users with stats and maps to no model.
func (r *statsRepository) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	qe := db.NewQueryExecutor(db.GetDB())
	rows, err := qe.Select(`
		SELECT s.user_id, u.username, s.total_xp, s.current_level, s.missions_completed
		FROM user_stats s
		JOIN users u ON u.id = s.user_id
		ORDER BY s.total_xp DESC, s.user_id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, LeaderboardEntry{
			UserID:            toUint(row["user_id"]),
			Username:          toString(row["username"]),
			TotalXP:           toInt(row["total_xp"]),
			CurrentLevel:      toInt(row["current_level"]),
			MissionsCompleted: toInt(row["missions_completed"]),
		})
	}
	return entries, nil
}

func toUint(v interface{}) uint {
	return uint(toInt(v))
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int32:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return ""
	}
}
