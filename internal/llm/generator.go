package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"missionforge-backend/internal/apperror"
)

// Generator turns source content into structured learning artifacts through
// the text-generation service. Each artifact kind is one prompt/response
// exchange parsed strictly against its schema.
type Generator struct {
	client LLMClient
}

func NewGenerator(client LLMClient) *Generator {
	return &Generator{client: client}
}

const tutorRole = "You are an expert tutor who writes structured study material. " +
	"Respond with a single JSON object only, no prose and no markdown fences."

// keyPointCount is the fixed learning-content key point cardinality; extras
// are truncated, fewer is a schema violation.
const keyPointCount = 5

// GenerateLearningContent produces the mission overview artifact.
func (g *Generator) GenerateLearningContent(ctx context.Context, sourceContent, contentType, subject string) (*LearningContent, error) {
	prompt := fmt.Sprintf(`Create a learning overview for the following %s content.
Subject: %s
Return JSON with this exact shape:
{
  "overview": "string",
  "key_points": ["exactly five strings"],
  "timeline": [{"event": "string", "description": "string", "year": "optional string"}],
  "concepts": [{"term": "string", "definition": "string"}],
  "sample_answers": ["string"],
  "difficulty": "easy|medium|hard",
  "estimated_time": "string"
}

Content:
%s`, fallback(contentType, "text"), fallback(subject, "general"), sourceContent)

	response, err := g.client.Generate(ctx, tutorRole, prompt)
	if err != nil {
		return nil, err
	}

	var content LearningContent
	if err := decodeStrict(response, &content); err != nil {
		return nil, err
	}
	if content.Overview == "" {
		return nil, apperror.SchemaMismatch("learning content missing overview", nil)
	}
	if len(content.KeyPoints) < keyPointCount {
		return nil, apperror.SchemaMismatch(
			fmt.Sprintf("expected %d key points, got %d", keyPointCount, len(content.KeyPoints)), nil)
	}
	content.KeyPoints = content.KeyPoints[:keyPointCount]
	return &content, nil
}

// GenerateFlashcards produces exactly count cards. Extras from the model are
// truncated; fewer than count is a schema violation.
func (g *Generator) GenerateFlashcards(ctx context.Context, sourceContent string, learningContent *LearningContent, count int) ([]Flashcard, error) {
	if count <= 0 {
		count = 5
	}
	prompt := fmt.Sprintf(`Create %d flashcards from the content below.
Return JSON with this exact shape:
{"flashcards": [{"front": "string", "back": "string", "category": "optional", "difficulty": "easy|medium|hard", "hint": "optional"}]}

%sContent:
%s`, count, overviewSection(learningContent), sourceContent)

	response, err := g.client.Generate(ctx, tutorRole, prompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Flashcards []Flashcard `json:"flashcards"`
	}
	if err := decodeStrict(response, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Flashcards) < count {
		return nil, apperror.SchemaMismatch(
			fmt.Sprintf("expected %d flashcards, got %d", count, len(parsed.Flashcards)), nil)
	}
	for i, card := range parsed.Flashcards[:count] {
		if card.Front == "" || card.Back == "" {
			return nil, apperror.SchemaMismatch(fmt.Sprintf("flashcard %d missing front or back", i), nil)
		}
	}
	return parsed.Flashcards[:count], nil
}

// GenerateQuiz produces a quiz with count four-option questions.
func (g *Generator) GenerateQuiz(ctx context.Context, sourceContent string, learningContent *LearningContent, difficulty string, count int) (*Quiz, error) {
	if count <= 0 {
		count = 5
	}
	prompt := fmt.Sprintf(`Create a %s quiz of %d multiple-choice questions from the content below.
Each question has exactly 4 options and correct_answer is the option index 0-3.
Return JSON with this exact shape:
{"questions": [{"question": "string", "options": ["a","b","c","d"], "correct_answer": 0, "explanation": "string", "difficulty": "easy|medium|hard", "points": 10}], "total_points": 50, "time_limit": 300}

%sContent:
%s`, fallback(difficulty, "medium"), count, overviewSection(learningContent), sourceContent)

	response, err := g.client.Generate(ctx, tutorRole, prompt)
	if err != nil {
		return nil, err
	}

	var quiz Quiz
	if err := decodeStrict(response, &quiz); err != nil {
		return nil, err
	}
	if len(quiz.Questions) < count {
		return nil, apperror.SchemaMismatch(
			fmt.Sprintf("expected %d quiz questions, got %d", count, len(quiz.Questions)), nil)
	}
	quiz.Questions = quiz.Questions[:count]
	total := 0
	for i, q := range quiz.Questions {
		if len(q.Options) != 4 {
			return nil, apperror.SchemaMismatch(fmt.Sprintf("quiz question %d must have 4 options", i), nil)
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer > 3 {
			return nil, apperror.SchemaMismatch(fmt.Sprintf("quiz question %d has out-of-range answer index", i), nil)
		}
		if q.Points <= 0 {
			quiz.Questions[i].Points = 10
		}
		total += quiz.Questions[i].Points
	}
	quiz.TotalPoints = total
	if quiz.TimeLimit <= 0 {
		quiz.TimeLimit = 300
	}
	return &quiz, nil
}

// GenerateTest produces a mixed-type test artifact.
func (g *Generator) GenerateTest(ctx context.Context, sourceContent string, learningContent *LearningContent, testType string, count, timeLimit int) (*Test, error) {
	if count <= 0 {
		count = 15
	}
	if timeLimit <= 0 {
		timeLimit = 900
	}
	prompt := fmt.Sprintf(`Create a %s test of %d questions from the content below, mixing types "mcq", "short" and "long".
MCQ questions carry 4 options and the correct option text in correct_answer.
Return JSON with this exact shape:
{"title": "string", "instructions": "string", "time_limit": %d, "total_points": 100, "questions": [{"type": "mcq|short|long", "question": "string", "options": ["optional for mcq"], "correct_answer": "optional", "points": 5, "explanation": "string", "difficulty": "easy|medium|hard"}], "passing_score": 60}

%sContent:
%s`, fallback(testType, "mixed"), count, timeLimit, overviewSection(learningContent), sourceContent)

	response, err := g.client.Generate(ctx, tutorRole, prompt)
	if err != nil {
		return nil, err
	}

	var test Test
	if err := decodeStrict(response, &test); err != nil {
		return nil, err
	}
	if len(test.Questions) < count {
		return nil, apperror.SchemaMismatch(
			fmt.Sprintf("expected %d test questions, got %d", count, len(test.Questions)), nil)
	}
	test.Questions = test.Questions[:count]
	total := 0
	for i, q := range test.Questions {
		switch q.Type {
		case TestQuestionMCQ, TestQuestionShort, TestQuestionLong:
		default:
			return nil, apperror.SchemaMismatch(fmt.Sprintf("test question %d has unknown type %q", i, q.Type), nil)
		}
		if q.Type == TestQuestionMCQ && len(q.Options) != 4 {
			return nil, apperror.SchemaMismatch(fmt.Sprintf("test question %d must have 4 options", i), nil)
		}
		if q.Points <= 0 {
			test.Questions[i].Points = 5
		}
		total += test.Questions[i].Points
	}
	test.TotalPoints = total
	test.TimeLimit = timeLimit
	if test.PassingScore <= 0 || test.PassingScore > 100 {
		test.PassingScore = 60
	}
	return &test, nil
}

func overviewSection(lc *LearningContent) string {
	if lc == nil || lc.Overview == "" {
		return ""
	}
	return "Previously generated overview for cross-reference:\n" + lc.Overview + "\n\n"
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

// decodeStrict extracts the JSON document from a model response and decodes
// it into out. Any decode failure is a SchemaMismatch, distinct from
// transport failures, so callers do not retry it blindly.
func decodeStrict(response string, out interface{}) error {
	doc := extractJSON(response)
	if doc == "" {
		return apperror.SchemaMismatch("response contains no JSON document", nil)
	}
	if err := json.Unmarshal([]byte(doc), out); err != nil {
		return apperror.SchemaMismatch("response does not match artifact schema", err)
	}
	return nil
}

// extractJSON trims markdown fences and surrounding prose, returning the
// outermost {...} document.
func extractJSON(response string) string {
	trimmed := strings.TrimSpace(response)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return ""
	}
	return trimmed[start : end+1]
}
