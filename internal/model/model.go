package model

import "time"

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username"`
	Email     string    `json:"email" gorm:"uniqueIndex"`
	Password  string    `json:"password,omitempty"` // Exclude from JSON responses
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Mission status values.
const (
	MissionStatusInProgress = "in_progress"
	MissionStatusCompleted  = "completed"
)

type Mission struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	UserID        uint       `json:"user_id" gorm:"not null;index"`
	SessionID     string     `json:"session_id" gorm:"not null;unique"`
	Title         string     `json:"title" gorm:"not null"`
	SourceContent string     `json:"source_content" gorm:"type:text"`
	ContentType   string     `json:"content_type"`
	Subject       string     `json:"subject"`
	Difficulty    string     `json:"difficulty"`
	Status        string     `json:"status" gorm:"default:'in_progress'"`
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Room progress status values.
const (
	ProgressStatusNotStarted = "not_started"
	ProgressStatusInProgress = "in_progress"
	ProgressStatusCompleted  = "completed"
)

// MissionProgress is one row per user x mission x room. Upserts key on the
// composite unique index; attempts counts every write to the row.
type MissionProgress struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_user_mission_room"`
	MissionID   uint       `json:"mission_id" gorm:"not null;uniqueIndex:idx_user_mission_room"`
	RoomType    string     `json:"room_type" gorm:"not null;uniqueIndex:idx_user_mission_room"`
	Score       int        `json:"score"`
	MaxScore    int        `json:"max_score"`
	TimeSpent   int        `json:"time_spent"`
	Attempts    int        `json:"attempts" gorm:"default:0"`
	Status      string     `json:"status" gorm:"default:'not_started'"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type UserStats struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	UserID            uint      `json:"user_id" gorm:"not null;uniqueIndex"`
	TotalXP           int       `json:"total_xp"`
	CurrentLevel      int       `json:"current_level" gorm:"default:1"`
	MissionsCompleted int       `json:"missions_completed"`
	StreakDays        int       `json:"streak_days"`
	LastActivityDate  string    `json:"last_activity_date"` // YYYY-MM-DD, calendar day granularity
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// UserAchievement existence means the achievement is unlocked. At most one
// row per user x achievement id.
type UserAchievement struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_achievement"`
	AchievementID string    `json:"achievement_id" gorm:"not null;uniqueIndex:idx_user_achievement"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// Artifact kinds attached to a mission.
const (
	ArtifactLearningContent = "learning_content"
	ArtifactFlashcards      = "flashcards"
	ArtifactQuiz            = "quiz"
	ArtifactTest            = "test"
)

// MissionArtifact stores one generated artifact as its JSON payload. Written
// once at mission creation, never updated.
type MissionArtifact struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	MissionID uint      `json:"mission_id" gorm:"not null;uniqueIndex:idx_mission_kind"`
	Kind      string    `json:"kind" gorm:"not null;uniqueIndex:idx_mission_kind"`
	Payload   string    `json:"payload" gorm:"type:text"` // JSON document
	CreatedAt time.Time `json:"created_at"`
}
