package service

import (
	"time"

	"missionforge-backend/internal/achievement"
	"missionforge-backend/internal/apperror"
	"missionforge-backend/internal/model"
	"missionforge-backend/internal/repository"
	"missionforge-backend/internal/xp"
	"missionforge-backend/utilities"
)

// RoomCompletionRequest is one room-completion event. UserID is taken from
// the verified token, never from the body.
type RoomCompletionRequest struct {
	UserID    uint
	MissionID uint   `json:"mission_id" binding:"required"`
	RoomType  string `json:"room_type" binding:"required"`
	Score     int    `json:"score"`
	MaxScore  int    `json:"max_score" binding:"required"`
	TimeSpent int    `json:"time_spent"`
	Completed bool   `json:"completed"`
}

// RoomCompletionResult is the full outcome bundle for one event.
type RoomCompletionResult struct {
	Progress         *model.MissionProgress  `json:"progress"`
	XPReward         xp.Award                `json:"xp_reward"`
	XPTotal          int                     `json:"xp_total"`
	UserStats        *model.UserStats        `json:"user_stats"`
	NewAchievements  []model.UserAchievement `json:"new_achievements"`
	MissionCompleted bool                    `json:"mission_completed"`
}

type ProgressService interface {
	RecordRoomCompletion(req RoomCompletionRequest) (*RoomCompletionResult, error)
	GetMissionProgress(userID, missionID uint) ([]model.MissionProgress, error)
	GetStats(userID uint) (*model.UserStats, error)
	GetAchievements(userID uint) ([]model.UserAchievement, error)
}

type progressService struct {
	missionRepo     repository.MissionRepository
	progressRepo    repository.ProgressRepository
	statsRepo       repository.StatsRepository
	achievementRepo repository.AchievementRepository
	xpParams        xp.Params
}

func NewProgressService(
	missionRepo repository.MissionRepository,
	progressRepo repository.ProgressRepository,
	statsRepo repository.StatsRepository,
	achievementRepo repository.AchievementRepository,
) ProgressService {
	return &progressService{
		missionRepo:     missionRepo,
		progressRepo:    progressRepo,
		statsRepo:       statsRepo,
		achievementRepo: achievementRepo,
		xpParams:        xp.DefaultParams(),
	}
}

// RecordRoomCompletion runs the whole upsert protocol: validate, upsert the
// room row, award XP, update stats and streak, detect mission completion and
// evaluate achievements. Persistence steps are individual natural-key upserts
// rather than one transaction; a failure leaves earlier writes in place and
// the caller retries the whole event.
func (s *progressService) RecordRoomCompletion(req RoomCompletionRequest) (*RoomCompletionResult, error) {
	if req.UserID == 0 {
		return nil, apperror.Unauthenticated("missing user identity")
	}
	if !xp.ValidRoomType(xp.RoomType(req.RoomType)) {
		return nil, apperror.InvalidArgument("unknown room type")
	}
	if req.MaxScore <= 0 {
		return nil, apperror.InvalidArgument("max score must be positive")
	}
	if req.Score < 0 || req.Score > req.MaxScore {
		return nil, apperror.InvalidArgument("score must be between 0 and max score")
	}
	if req.TimeSpent < 0 {
		return nil, apperror.InvalidArgument("time spent cannot be negative")
	}

	mission, err := s.missionRepo.GetMissionByID(req.MissionID)
	if err != nil {
		return nil, apperror.DataStore("failed to fetch mission", err)
	}
	if mission == nil || mission.UserID != req.UserID {
		return nil, apperror.NotFound("mission not found")
	}

	row := &model.MissionProgress{
		UserID:    req.UserID,
		MissionID: req.MissionID,
		RoomType:  req.RoomType,
		Score:     req.Score,
		MaxScore:  req.MaxScore,
		TimeSpent: req.TimeSpent,
		Status:    model.ProgressStatusInProgress,
	}
	if req.Completed {
		now := time.Now()
		row.Status = model.ProgressStatusCompleted
		row.CompletedAt = &now
	}
	progress, err := s.progressRepo.UpsertCompletion(row)
	if err != nil {
		return nil, apperror.DataStore("failed to save room progress", err)
	}

	result := &RoomCompletionResult{
		Progress:        progress,
		NewAchievements: []model.UserAchievement{},
	}
	if !req.Completed {
		stats, err := s.statsRepo.GetStats(req.UserID)
		if err != nil {
			return nil, apperror.DataStore("failed to fetch user stats", err)
		}
		result.UserStats = stats
		return result, nil
	}

	// Accuracy comes from score/maxScore on this path; the mission's
	// difficulty scales the award.
	difficulty := xp.Difficulty(mission.Difficulty)
	if !xp.ValidDifficulty(difficulty) {
		difficulty = xp.DifficultyMedium
	}
	award, err := xp.ComputeXP(xp.Performance{
		CorrectAnswers: req.Score,
		TotalQuestions: req.MaxScore,
		TimeSpent:      req.TimeSpent,
		Difficulty:     difficulty,
		RoomType:       xp.RoomType(req.RoomType),
	}, s.xpParams)
	if err != nil {
		return nil, err
	}
	result.XPReward = award
	result.XPTotal = award.Total()

	stats, err := s.statsRepo.GetStats(req.UserID)
	if err != nil {
		return nil, apperror.DataStore("failed to fetch user stats", err)
	}
	if stats == nil {
		stats = &model.UserStats{UserID: req.UserID, CurrentLevel: 1}
	}
	statsBefore := achievement.Stats{
		TotalXP:      stats.TotalXP,
		CurrentLevel: stats.CurrentLevel,
		StreakDays:   stats.StreakDays,
	}

	ApplyStreak(stats, time.Now())

	allRoomsDone, missionCompleted, err := s.detectMissionCompletion(req.UserID, mission)
	if err != nil {
		return nil, err
	}
	if allRoomsDone {
		// Recomputed from mission rows rather than incremented, so a retry
		// after a failed stats write converges instead of losing the count.
		count, err := s.missionRepo.CountCompletedMissions(req.UserID)
		if err != nil {
			return nil, apperror.DataStore("failed to count completed missions", err)
		}
		stats.MissionsCompleted = int(count)
	}
	result.MissionCompleted = missionCompleted

	saved, err := s.statsRepo.ApplyCompletion(stats, award.Total())
	if err != nil {
		return nil, apperror.DataStore("failed to save user stats", err)
	}
	result.UserStats = saved

	newUnlocks, err := s.unlockAchievements(req, saved, statsBefore)
	if err != nil {
		return nil, err
	}
	result.NewAchievements = newUnlocks

	if missionCompleted {
		utilities.GlobalEventBus.Publish(utilities.EventMissionCompleted, mission.ID)
	}

	return result, nil
}

// detectMissionCompletion reads all room rows for the mission and reports
// whether every room is done and whether this event newly completed the
// mission. Newness comes from the conditional latch update, not from the
// status read at the top of the request, so two concurrent deliveries of the
// final room cannot both claim the completion.
func (s *progressService) detectMissionCompletion(userID uint, mission *model.Mission) (allRoomsDone, newlyCompleted bool, err error) {
	rows, err := s.progressRepo.GetMissionProgress(userID, mission.ID)
	if err != nil {
		return false, false, apperror.DataStore("failed to fetch mission progress", err)
	}

	completed := make(map[string]bool, len(rows))
	for _, row := range rows {
		if row.Status == model.ProgressStatusCompleted {
			completed[row.RoomType] = true
		}
	}
	for _, rt := range xp.RequiredRooms {
		if !completed[string(rt)] {
			return false, false, nil
		}
	}

	newlyCompleted, err = s.missionRepo.MarkMissionCompleted(mission.ID)
	if err != nil {
		return true, false, apperror.DataStore("failed to mark mission completed", err)
	}
	return true, newlyCompleted, nil
}

func (s *progressService) unlockAchievements(req RoomCompletionRequest, stats *model.UserStats, before achievement.Stats) ([]model.UserAchievement, error) {
	after := achievement.Stats{
		TotalXP:      stats.TotalXP,
		CurrentLevel: stats.CurrentLevel,
		StreakDays:   stats.StreakDays,
	}
	attempt := achievement.Attempt{
		CorrectAnswers: req.Score,
		TotalQuestions: req.MaxScore,
		TimeSpent:      req.TimeSpent,
	}

	candidates := achievement.Evaluate(before, after, attempt)
	if len(candidates) == 0 {
		return []model.UserAchievement{}, nil
	}

	unlocked, err := s.achievementRepo.GetUnlockedIDs(req.UserID)
	if err != nil {
		return nil, apperror.DataStore("failed to fetch unlocked achievements", err)
	}

	newUnlocks := []model.UserAchievement{}
	for _, id := range candidates {
		if unlocked[string(id)] {
			continue
		}
		def, ok := achievement.Lookup(id)
		if !ok {
			continue
		}
		row := &model.UserAchievement{
			UserID:        req.UserID,
			AchievementID: string(def.ID),
			Title:         def.Title,
			Description:   def.Description,
		}
		created, err := s.achievementRepo.CreateUnlock(row)
		if err != nil {
			return nil, apperror.DataStore("failed to save achievement unlock", err)
		}
		if created {
			newUnlocks = append(newUnlocks, *row)
			utilities.GlobalEventBus.Publish(utilities.EventAchievementUnlocked, row.AchievementID)
		}
	}
	return newUnlocks, nil
}

// ApplyStreak updates the calendar streak for an activity happening at now.
// Same-day activity keeps the streak, the following day extends it, any gap
// resets it to 1.
func ApplyStreak(stats *model.UserStats, now time.Time) {
	today := now.Format("2006-01-02")
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")

	switch stats.LastActivityDate {
	case today:
		// already counted
	case yesterday:
		stats.StreakDays++
	default:
		stats.StreakDays = 1
	}
	stats.LastActivityDate = today
}

func (s *progressService) GetMissionProgress(userID, missionID uint) ([]model.MissionProgress, error) {
	rows, err := s.progressRepo.GetMissionProgress(userID, missionID)
	if err != nil {
		return nil, apperror.DataStore("failed to fetch mission progress", err)
	}
	return rows, nil
}

func (s *progressService) GetStats(userID uint) (*model.UserStats, error) {
	stats, err := s.statsRepo.GetStats(userID)
	if err != nil {
		return nil, apperror.DataStore("failed to fetch user stats", err)
	}
	if stats == nil {
		stats = &model.UserStats{UserID: userID, CurrentLevel: 1}
	}
	return stats, nil
}

func (s *progressService) GetAchievements(userID uint) ([]model.UserAchievement, error) {
	rows, err := s.achievementRepo.GetUnlocks(userID)
	if err != nil {
		return nil, apperror.DataStore("failed to fetch achievements", err)
	}
	return rows, nil
}
