package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"missionforge-backend/internal/apperror"
	"missionforge-backend/internal/model"
	"missionforge-backend/internal/repository"
	"missionforge-backend/internal/xp"
)

type ReportService interface {
	BuildProgressReport(userID uint) ([]byte, error)
}

type reportService struct {
	userRepo        repository.UserRepository
	statsRepo       repository.StatsRepository
	achievementRepo repository.AchievementRepository
}

func NewReportService(userRepo repository.UserRepository, statsRepo repository.StatsRepository, achievementRepo repository.AchievementRepository) ReportService {
	return &reportService{
		userRepo:        userRepo,
		statsRepo:       statsRepo,
		achievementRepo: achievementRepo,
	}
}

// BuildProgressReport renders the user's XP, level and unlocked achievements
// as a downloadable PDF.
func (s *reportService) BuildProgressReport(userID uint) ([]byte, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, apperror.DataStore("failed to fetch user", err)
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}

	stats, err := s.statsRepo.GetStats(userID)
	if err != nil {
		return nil, apperror.DataStore("failed to fetch user stats", err)
	}
	if stats == nil {
		stats = &model.UserStats{UserID: userID, CurrentLevel: 1}
	}

	unlocks, err := s.achievementRepo.GetUnlocks(userID)
	if err != nil {
		return nil, apperror.DataStore("failed to fetch achievements", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "MissionForge Progress Report")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Learner: %s", user.Username))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 9, "Stats")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 11)
	nextLevelXP := stats.CurrentLevel * xp.XPPerLevel
	lines := []string{
		fmt.Sprintf("Total XP: %d", stats.TotalXP),
		fmt.Sprintf("Level: %d (%d XP to next level)", stats.CurrentLevel, nextLevelXP-stats.TotalXP),
		fmt.Sprintf("Missions completed: %d", stats.MissionsCompleted),
		fmt.Sprintf("Current streak: %d day(s)", stats.StreakDays),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 9, fmt.Sprintf("Achievements (%d)", len(unlocks)))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 11)
	if len(unlocks) == 0 {
		pdf.Cell(0, 7, "None unlocked yet.")
		pdf.Ln(7)
	}
	for _, unlock := range unlocks {
		pdf.Cell(0, 7, fmt.Sprintf("%s - %s (%s)",
			unlock.Title, unlock.Description, unlock.UnlockedAt.Format("2006-01-02")))
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}
