package llm_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"missionforge-backend/internal/apperror"
	"missionforge-backend/internal/llm"
)

// fakeClient returns canned responses and records prompts.
type fakeClient struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeClient) Generate(_ context.Context, _, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func flashcardsJSON(n int) string {
	out := `{"flashcards": [`
	for i := 0; i < n; i++ {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf(`{"front": "q%d", "back": "a%d", "difficulty": "easy"}`, i, i)
	}
	return out + `]}`
}

func learningContentJSON(keyPoints int) string {
	points := make([]string, keyPoints)
	for i := range points {
		points[i] = fmt.Sprintf(`"point %d"`, i)
	}
	return fmt.Sprintf(`{"overview": "the water cycle", "key_points": [%s], "timeline": [], "concepts": [], "sample_answers": [], "difficulty": "easy", "estimated_time": "10m"}`,
		strings.Join(points, ","))
}

func TestGenerateLearningContentTruncatesKeyPoints(t *testing.T) {
	client := &fakeClient{response: learningContentJSON(7)}
	gen := llm.NewGenerator(client)

	content, err := gen.GenerateLearningContent(context.Background(), "content", "text", "science")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(content.KeyPoints) != 5 {
		t.Fatalf("expected exactly 5 key points, got %d", len(content.KeyPoints))
	}
	if content.KeyPoints[0] != "point 0" {
		t.Errorf("expected key points in upstream order, got %q first", content.KeyPoints[0])
	}
}

func TestGenerateLearningContentTooFewKeyPointsIsSchemaMismatch(t *testing.T) {
	client := &fakeClient{response: learningContentJSON(3)}
	gen := llm.NewGenerator(client)

	_, err := gen.GenerateLearningContent(context.Background(), "content", "text", "science")
	if apperror.KindOf(err) != apperror.KindSchemaMismatch {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}

func TestGenerateFlashcardsTruncatesExtras(t *testing.T) {
	client := &fakeClient{response: flashcardsJSON(8)}
	gen := llm.NewGenerator(client)

	cards, err := gen.GenerateFlashcards(context.Background(), "the water cycle", nil, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 5 {
		t.Fatalf("expected exactly 5 cards, got %d", len(cards))
	}
	if cards[0].Front != "q0" {
		t.Errorf("expected cards in upstream order, got %q first", cards[0].Front)
	}
}

func TestGenerateFlashcardsTooFewIsSchemaMismatch(t *testing.T) {
	client := &fakeClient{response: flashcardsJSON(3)}
	gen := llm.NewGenerator(client)

	_, err := gen.GenerateFlashcards(context.Background(), "content", nil, 5)
	if apperror.KindOf(err) != apperror.KindSchemaMismatch {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}

func TestGenerateFlashcardsFencedResponse(t *testing.T) {
	client := &fakeClient{response: "```json\n" + flashcardsJSON(5) + "\n```"}
	gen := llm.NewGenerator(client)

	cards, err := gen.GenerateFlashcards(context.Background(), "content", nil, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 5 {
		t.Fatalf("expected 5 cards, got %d", len(cards))
	}
}

func TestGenerateFlashcardsTransportErrorKeepsKind(t *testing.T) {
	client := &fakeClient{err: apperror.UpstreamUnavailable("connection refused", nil)}
	gen := llm.NewGenerator(client)

	_, err := gen.GenerateFlashcards(context.Background(), "content", nil, 5)
	if apperror.KindOf(err) != apperror.KindUpstreamUnavailable {
		t.Fatalf("expected upstream unavailable, got %v", err)
	}
}

func TestGenerateQuizValidatesOptions(t *testing.T) {
	client := &fakeClient{response: `{"questions": [
		{"question": "q1", "options": ["a","b","c"], "correct_answer": 0, "explanation": "", "difficulty": "easy", "points": 10}
	], "total_points": 10, "time_limit": 300}`}
	gen := llm.NewGenerator(client)

	_, err := gen.GenerateQuiz(context.Background(), "content", nil, "easy", 1)
	if apperror.KindOf(err) != apperror.KindSchemaMismatch {
		t.Fatalf("expected schema mismatch for 3-option question, got %v", err)
	}
}

func TestGenerateQuizComputesTotals(t *testing.T) {
	client := &fakeClient{response: `{"questions": [
		{"question": "q1", "options": ["a","b","c","d"], "correct_answer": 1, "explanation": "e", "difficulty": "easy", "points": 10},
		{"question": "q2", "options": ["a","b","c","d"], "correct_answer": 3, "explanation": "e", "difficulty": "hard", "points": 0}
	], "total_points": 0, "time_limit": 0}`}
	gen := llm.NewGenerator(client)

	quiz, err := gen.GenerateQuiz(context.Background(), "content", nil, "medium", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// zero-point question defaults to 10
	if quiz.TotalPoints != 20 {
		t.Errorf("expected total points 20, got %d", quiz.TotalPoints)
	}
	if quiz.TimeLimit != 300 {
		t.Errorf("expected default time limit 300, got %d", quiz.TimeLimit)
	}
}

func TestGenerateTestRejectsUnknownQuestionType(t *testing.T) {
	client := &fakeClient{response: `{"title": "t", "instructions": "i", "time_limit": 900, "total_points": 5,
		"questions": [{"type": "essay", "question": "q", "points": 5, "explanation": "", "difficulty": "easy"}],
		"passing_score": 60}`}
	gen := llm.NewGenerator(client)

	_, err := gen.GenerateTest(context.Background(), "content", nil, "mixed", 1, 900)
	if apperror.KindOf(err) != apperror.KindSchemaMismatch {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}

func TestGenerateLearningContentIncludedInFollowupPrompts(t *testing.T) {
	lc := &llm.LearningContent{Overview: "photosynthesis converts light to chemical energy", KeyPoints: []string{"light"}}
	client := &fakeClient{response: flashcardsJSON(5)}
	gen := llm.NewGenerator(client)

	if _, err := gen.GenerateFlashcards(context.Background(), "content", lc, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.prompts) != 1 {
		t.Fatalf("expected one prompt, got %d", len(client.prompts))
	}
	if !strings.Contains(client.prompts[0], "photosynthesis converts light") {
		t.Errorf("expected prompt to cross-reference learning content")
	}
}

func TestAggregateStreamedResponse(t *testing.T) {
	body := `{"model":"mistral","response":"{\"flash","done":false}
{"model":"mistral","response":"cards\": []}","done":true}`
	got := llm.AggregateStreamedResponse(body)
	if got != `{"flashcards": []}` {
		t.Errorf("unexpected aggregate: %q", got)
	}
}
