package service

import (
	"context"
	"encoding/json"
	"time"

	"missionforge-backend/internal/apperror"
	"missionforge-backend/internal/cache"
	"missionforge-backend/internal/repository"
	"missionforge-backend/utilities"
)

const (
	leaderboardCacheKey = "leaderboard:top"
	leaderboardCacheTTL = 30 * time.Second
	leaderboardLimit    = 20
)

type StatsService interface {
	GetLeaderboard(ctx context.Context) ([]repository.LeaderboardEntry, error)
}

type statsService struct {
	statsRepo repository.StatsRepository
	redis     *cache.RedisClient // nil disables caching
}

func NewStatsService(statsRepo repository.StatsRepository, redis *cache.RedisClient) StatsService {
	return &statsService{statsRepo: statsRepo, redis: redis}
}

// GetLeaderboard returns the XP ranking, served from the cache when warm.
// Entries are cached briefly rather than invalidated on every progress write.
func (s *statsService) GetLeaderboard(ctx context.Context) ([]repository.LeaderboardEntry, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, leaderboardCacheKey)
		if err == nil {
			var entries []repository.LeaderboardEntry
			if jsonErr := json.Unmarshal([]byte(cached), &entries); jsonErr == nil {
				return entries, nil
			}
		} else if !cache.IsMiss(err) {
			utilities.Warn("leaderboard cache read failed: %v", err)
		}
	}

	entries, err := s.statsRepo.Leaderboard(leaderboardLimit)
	if err != nil {
		return nil, apperror.DataStore("failed to fetch leaderboard", err)
	}

	if s.redis != nil {
		if raw, err := json.Marshal(entries); err == nil {
			if err := s.redis.Set(ctx, leaderboardCacheKey, raw, leaderboardCacheTTL); err != nil {
				utilities.Warn("leaderboard cache write failed: %v", err)
			}
		}
	}
	return entries, nil
}
