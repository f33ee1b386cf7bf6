package service

import (
	"context"
	"strings"
	"testing"

	"missionforge-backend/internal/apperror"
	"missionforge-backend/internal/llm"
	"missionforge-backend/internal/model"
)

// scriptedLLMClient routes canned responses by a keyword unique to each
// artifact prompt.
type scriptedLLMClient struct {
	responses map[string]string
	err       error
}

func (c *scriptedLLMClient) Generate(_ context.Context, _, prompt string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	for keyword, response := range c.responses {
		if strings.Contains(prompt, keyword) {
			return response, nil
		}
	}
	return "", apperror.UpstreamUnavailable("no response scripted for prompt", nil)
}

const (
	learningResponse = `{"overview": "the water cycle", "key_points": ["p1","p2","p3","p4","p5"],
		"timeline": [], "concepts": [], "sample_answers": [], "difficulty": "easy", "estimated_time": "10m"}`
	flashcardsResponse = `{"flashcards": [
		{"front": "f1", "back": "b1", "difficulty": "easy"},
		{"front": "f2", "back": "b2", "difficulty": "easy"}]}`
	quizResponse = `{"questions": [
		{"question": "q", "options": ["a","b","c","d"], "correct_answer": 1, "explanation": "e", "difficulty": "easy", "points": 10}],
		"total_points": 10, "time_limit": 300}`
	testResponse = `{"title": "t", "instructions": "i", "time_limit": 600, "total_points": 5,
		"questions": [{"type": "short", "question": "q", "points": 5, "explanation": "", "difficulty": "easy"}],
		"passing_score": 60}`
)

func scriptedResponses() map[string]string {
	return map[string]string{
		"learning overview": learningResponse,
		"flashcards from":   flashcardsResponse,
		"multiple-choice":   quizResponse,
		"mixing types":      testResponse,
	}
}

type missionFixture struct {
	missions *fakeMissionRepo
	progress *fakeProgressRepo
	svc      MissionService
}

func newMissionFixture(t *testing.T, client llm.LLMClient) *missionFixture {
	t.Helper()
	fx := &missionFixture{
		missions: newFakeMissionRepo(),
		progress: newFakeProgressRepo(),
	}
	fx.svc = NewMissionService(fx.missions, fx.progress, llm.NewGenerator(client), GenerationOptions{
		FlashcardCount:    2,
		QuizQuestionCount: 1,
		TestQuestionCount: 1,
		TestTimeLimit:     600,
	})
	return fx
}

func TestCreateMissionValidation(t *testing.T) {
	fx := newMissionFixture(t, &scriptedLLMClient{responses: scriptedResponses()})

	_, err := fx.svc.CreateMission(context.Background(), 10, CreateMissionRequest{Title: "t"})
	if apperror.KindOf(err) != apperror.KindInvalidArgument {
		t.Fatalf("missing source content: kind = %v, want invalid argument", apperror.KindOf(err))
	}

	_, err = fx.svc.CreateMission(context.Background(), 10, CreateMissionRequest{SourceContent: "c"})
	if apperror.KindOf(err) != apperror.KindInvalidArgument {
		t.Fatalf("missing title: kind = %v, want invalid argument", apperror.KindOf(err))
	}
}

func TestCreateMissionAllArtifactsGenerated(t *testing.T) {
	fx := newMissionFixture(t, &scriptedLLMClient{responses: scriptedResponses()})

	res, err := fx.svc.CreateMission(context.Background(), 10, CreateMissionRequest{
		Title:         "The Water Cycle",
		SourceContent: "evaporation, condensation, precipitation",
		Difficulty:    "easy",
	})
	if err != nil {
		t.Fatalf("CreateMission: %v", err)
	}
	if res.Mission.SessionID == "" {
		t.Fatal("mission has no session id")
	}

	for _, kind := range []string{
		model.ArtifactLearningContent, model.ArtifactFlashcards, model.ArtifactQuiz, model.ArtifactTest,
	} {
		if res.Generation[kind] != GenerationOK {
			t.Errorf("generation[%s] = %q, want %q", kind, res.Generation[kind], GenerationOK)
		}
	}

	artifacts, err := fx.missions.GetArtifacts(res.Mission.ID)
	if err != nil {
		t.Fatalf("GetArtifacts: %v", err)
	}
	if len(artifacts) != 4 {
		t.Fatalf("saved %d artifacts, want 4", len(artifacts))
	}
}

func TestCreateMissionSurvivesGenerationFailure(t *testing.T) {
	client := &scriptedLLMClient{err: apperror.UpstreamUnavailable("connection refused", nil)}
	fx := newMissionFixture(t, client)

	res, err := fx.svc.CreateMission(context.Background(), 10, CreateMissionRequest{
		Title:         "The Water Cycle",
		SourceContent: "evaporation, condensation, precipitation",
	})
	if err != nil {
		t.Fatalf("generation failure aborted mission creation: %v", err)
	}
	if res.Mission.ID == 0 || res.Mission.SessionID == "" {
		t.Fatalf("mission row not created: %+v", res.Mission)
	}

	rows, err := fx.progress.GetMissionProgress(10, res.Mission.ID)
	if err != nil {
		t.Fatalf("GetMissionProgress: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("initialized %d room rows, want 4", len(rows))
	}
	for _, row := range rows {
		if row.Status != model.ProgressStatusNotStarted {
			t.Errorf("room %s status = %q, want %q", row.RoomType, row.Status, model.ProgressStatusNotStarted)
		}
	}

	if len(res.Generation) != 4 {
		t.Fatalf("generation map has %d kinds, want 4", len(res.Generation))
	}
	for kind, status := range res.Generation {
		if !strings.HasPrefix(status, "failed: ") {
			t.Errorf("generation[%s] = %q, want failed", kind, status)
		}
	}

	artifacts, _ := fx.missions.GetArtifacts(res.Mission.ID)
	if len(artifacts) != 0 {
		t.Fatalf("saved %d artifacts despite total failure", len(artifacts))
	}
}

func TestCreateMissionDegradesPerKind(t *testing.T) {
	responses := scriptedResponses()
	responses["multiple-choice"] = "the model refused to answer"
	fx := newMissionFixture(t, &scriptedLLMClient{responses: responses})

	res, err := fx.svc.CreateMission(context.Background(), 10, CreateMissionRequest{
		Title:         "The Water Cycle",
		SourceContent: "evaporation, condensation, precipitation",
	})
	if err != nil {
		t.Fatalf("CreateMission: %v", err)
	}

	if !strings.HasPrefix(res.Generation[model.ArtifactQuiz], "failed: ") {
		t.Errorf("quiz status = %q, want failed", res.Generation[model.ArtifactQuiz])
	}
	for _, kind := range []string{model.ArtifactLearningContent, model.ArtifactFlashcards, model.ArtifactTest} {
		if res.Generation[kind] != GenerationOK {
			t.Errorf("generation[%s] = %q, want %q", kind, res.Generation[kind], GenerationOK)
		}
	}

	artifacts, _ := fx.missions.GetArtifacts(res.Mission.ID)
	if len(artifacts) != 3 {
		t.Fatalf("saved %d artifacts, want 3 (quiz absent)", len(artifacts))
	}
}
