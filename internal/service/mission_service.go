package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"missionforge-backend/internal/apperror"
	"missionforge-backend/internal/llm"
	"missionforge-backend/internal/model"
	"missionforge-backend/internal/repository"
	"missionforge-backend/internal/xp"
	"missionforge-backend/utilities"
)

// GenerationOptions carries artifact cardinality defaults from config.
type GenerationOptions struct {
	FlashcardCount    int
	QuizQuestionCount int
	TestQuestionCount int
	TestTimeLimit     int
}

// CreateMissionRequest is the input for mission creation.
type CreateMissionRequest struct {
	Title         string `json:"title" binding:"required"`
	SourceContent string `json:"source_content" binding:"required"`
	ContentType   string `json:"content_type"`
	Subject       string `json:"subject"`
	Difficulty    string `json:"difficulty"`
	TestType      string `json:"test_type"`
}

// Per-artifact generation outcome, reported so callers can see exactly which
// kinds degraded instead of a single success flag.
const (
	GenerationOK = "ok"
)

type CreateMissionResult struct {
	Mission    *model.Mission    `json:"mission"`
	Generation map[string]string `json:"generation"`
}

type MissionService interface {
	CreateMission(ctx context.Context, userID uint, req CreateMissionRequest) (*CreateMissionResult, error)
	GetMissions(userID uint) ([]model.Mission, error)
	GetMission(userID, missionID uint) (*model.Mission, error)
	GetArtifacts(userID, missionID uint) ([]model.MissionArtifact, error)
}

type missionService struct {
	missionRepo  repository.MissionRepository
	progressRepo repository.ProgressRepository
	generator    *llm.Generator
	opts         GenerationOptions
}

func NewMissionService(missionRepo repository.MissionRepository, progressRepo repository.ProgressRepository, generator *llm.Generator, opts GenerationOptions) MissionService {
	if opts.FlashcardCount <= 0 {
		opts.FlashcardCount = 5
	}
	if opts.QuizQuestionCount <= 0 {
		opts.QuizQuestionCount = 5
	}
	if opts.TestQuestionCount <= 0 {
		opts.TestQuestionCount = 15
	}
	if opts.TestTimeLimit <= 0 {
		opts.TestTimeLimit = 900
	}
	return &missionService{
		missionRepo:  missionRepo,
		progressRepo: progressRepo,
		generator:    generator,
		opts:         opts,
	}
}

type artifactResult struct {
	kind    string
	payload interface{}
	err     error
}

// CreateMission creates the mission with its four room-progress rows, then
// generates artifacts: learning content first (the other kinds cross-reference
// it), then flashcards, quiz and test concurrently. A failed kind degrades to
// "artifact absent" and never aborts mission creation.
func (s *missionService) CreateMission(ctx context.Context, userID uint, req CreateMissionRequest) (*CreateMissionResult, error) {
	if strings.TrimSpace(req.SourceContent) == "" {
		return nil, apperror.InvalidArgument("source content is required")
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperror.InvalidArgument("title is required")
	}

	mission := &model.Mission{
		UserID:        userID,
		SessionID:     uuid.New().String(),
		Title:         req.Title,
		SourceContent: req.SourceContent,
		ContentType:   req.ContentType,
		Subject:       req.Subject,
		Difficulty:    req.Difficulty,
		Status:        model.MissionStatusInProgress,
	}
	if err := s.missionRepo.CreateMission(mission); err != nil {
		return nil, apperror.DataStore("failed to create mission", err)
	}

	roomTypes := make([]string, 0, len(xp.RequiredRooms))
	for _, rt := range xp.RequiredRooms {
		roomTypes = append(roomTypes, string(rt))
	}
	if err := s.progressRepo.InitMissionRooms(userID, mission.ID, roomTypes); err != nil {
		return nil, apperror.DataStore("failed to initialize room progress", err)
	}

	generation := s.generateArtifacts(ctx, mission, req)

	return &CreateMissionResult{Mission: mission, Generation: generation}, nil
}

func (s *missionService) generateArtifacts(ctx context.Context, mission *model.Mission, req CreateMissionRequest) map[string]string {
	status := make(map[string]string, 4)

	learning, err := s.generator.GenerateLearningContent(ctx, req.SourceContent, req.ContentType, req.Subject)
	if err != nil {
		utilities.Warn("learning content generation failed for mission %d: %v", mission.ID, err)
		status[model.ArtifactLearningContent] = "failed: " + err.Error()
		learning = nil
	} else if err := s.saveArtifact(mission.ID, model.ArtifactLearningContent, learning); err != nil {
		status[model.ArtifactLearningContent] = "failed: " + err.Error()
	} else {
		status[model.ArtifactLearningContent] = GenerationOK
	}

	// The remaining kinds only read the learning content, so they can run
	// concurrently with each other.
	results := make(chan artifactResult, 3)

	go func() {
		cards, err := s.generator.GenerateFlashcards(ctx, req.SourceContent, learning, s.opts.FlashcardCount)
		results <- artifactResult{kind: model.ArtifactFlashcards, payload: cards, err: err}
	}()
	go func() {
		quiz, err := s.generator.GenerateQuiz(ctx, req.SourceContent, learning, req.Difficulty, s.opts.QuizQuestionCount)
		results <- artifactResult{kind: model.ArtifactQuiz, payload: quiz, err: err}
	}()
	go func() {
		test, err := s.generator.GenerateTest(ctx, req.SourceContent, learning, req.TestType, s.opts.TestQuestionCount, s.opts.TestTimeLimit)
		results <- artifactResult{kind: model.ArtifactTest, payload: test, err: err}
	}()

	for i := 0; i < 3; i++ {
		res := <-results
		if res.err != nil {
			utilities.Warn("%s generation failed for mission %d: %v", res.kind, mission.ID, res.err)
			status[res.kind] = "failed: " + res.err.Error()
			continue
		}
		if err := s.saveArtifact(mission.ID, res.kind, res.payload); err != nil {
			status[res.kind] = "failed: " + err.Error()
			continue
		}
		status[res.kind] = GenerationOK
	}

	return status
}

func (s *missionService) saveArtifact(missionID uint, kind string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.missionRepo.SaveArtifact(&model.MissionArtifact{
		MissionID: missionID,
		Kind:      kind,
		Payload:   string(raw),
	})
}

func (s *missionService) GetMissions(userID uint) ([]model.Mission, error) {
	missions, err := s.missionRepo.GetMissionsByUser(userID)
	if err != nil {
		return nil, apperror.DataStore("failed to fetch missions", err)
	}
	return missions, nil
}

func (s *missionService) GetMission(userID, missionID uint) (*model.Mission, error) {
	mission, err := s.missionRepo.GetMissionByID(missionID)
	if err != nil {
		return nil, apperror.DataStore("failed to fetch mission", err)
	}
	if mission == nil || mission.UserID != userID {
		return nil, apperror.NotFound("mission not found")
	}
	return mission, nil
}

func (s *missionService) GetArtifacts(userID, missionID uint) ([]model.MissionArtifact, error) {
	if _, err := s.GetMission(userID, missionID); err != nil {
		return nil, err
	}
	artifacts, err := s.missionRepo.GetArtifacts(missionID)
	if err != nil {
		return nil, apperror.DataStore("failed to fetch artifacts", err)
	}
	return artifacts, nil
}
