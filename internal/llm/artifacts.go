package llm

// Artifact schemas for generated mission content. These are the fixed output
// contracts parsed strictly from the model's response.

type TimelineEvent struct {
	Event       string `json:"event"`
	Description string `json:"description"`
	Year        string `json:"year,omitempty"`
}

type Concept struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

type LearningContent struct {
	Overview      string          `json:"overview"`
	KeyPoints     []string        `json:"key_points"`
	Timeline      []TimelineEvent `json:"timeline"`
	Concepts      []Concept       `json:"concepts"`
	SampleAnswers []string        `json:"sample_answers"`
	Difficulty    string          `json:"difficulty"`
	EstimatedTime string          `json:"estimated_time"`
}

type Flashcard struct {
	Front      string `json:"front"`
	Back       string `json:"back"`
	Category   string `json:"category,omitempty"`
	Difficulty string `json:"difficulty"`
	Hint       string `json:"hint,omitempty"`
}

type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
	Points        int      `json:"points"`
}

type Quiz struct {
	Questions   []QuizQuestion `json:"questions"`
	TotalPoints int            `json:"total_points"`
	TimeLimit   int            `json:"time_limit"`
}

// Test question types.
const (
	TestQuestionMCQ   = "mcq"
	TestQuestionShort = "short"
	TestQuestionLong  = "long"
)

type TestQuestion struct {
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Points        int      `json:"points"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
}

type Test struct {
	Title        string         `json:"title"`
	Instructions string         `json:"instructions"`
	TimeLimit    int            `json:"time_limit"`
	TotalPoints  int            `json:"total_points"`
	Questions    []TestQuestion `json:"questions"`
	PassingScore int            `json:"passing_score"`
}
