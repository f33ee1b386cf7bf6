package xp

import (
	"math"

	"missionforge-backend/internal/apperror"
)

// RoomType identifies one of the four mission rooms.
type RoomType string

const (
	RoomClarity RoomType = "clarity"
	RoomQuiz    RoomType = "quiz"
	RoomMemory  RoomType = "memory"
	RoomTest    RoomType = "test"
)

// RequiredRooms is the set of rooms a mission must complete, in play order.
var RequiredRooms = []RoomType{RoomClarity, RoomQuiz, RoomMemory, RoomTest}

func ValidRoomType(rt RoomType) bool {
	switch rt {
	case RoomClarity, RoomQuiz, RoomMemory, RoomTest:
		return true
	}
	return false
}

// Difficulty scales the XP award.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func ValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Performance is one room-completion attempt as reported by the client.
type Performance struct {
	CorrectAnswers int
	TotalQuestions int
	TimeSpent      int // seconds
	Difficulty     Difficulty
	RoomType       RoomType
}

// Params holds every knob of the XP formula so that all call sites share one
// computation and supply their table explicitly.
type Params struct {
	BaseRates             map[RoomType]int
	DifficultyMultipliers map[Difficulty]float64
	SpeedBonusThreshold   int // seconds; attempts faster than this earn the bonus
	SpeedBonusMultiplier  float64
	AccuracyBonusWeight   float64
}

// DefaultParams is the canonical table used by the progress pipeline.
func DefaultParams() Params {
	return Params{
		BaseRates: map[RoomType]int{
			RoomClarity: 5,
			RoomQuiz:    10,
			RoomMemory:  8,
			RoomTest:    20,
		},
		DifficultyMultipliers: map[Difficulty]float64{
			DifficultyEasy:   1.0,
			DifficultyMedium: 1.5,
			DifficultyHard:   2.0,
		},
		SpeedBonusThreshold:  300,
		SpeedBonusMultiplier: 1.2,
		AccuracyBonusWeight:  0.5,
	}
}

// Award is the XP granted for one attempt. Total = Base + AccuracyBonus.
type Award struct {
	Base          int `json:"base"`
	AccuracyBonus int `json:"accuracy_bonus"`
}

func (a Award) Total() int { return a.Base + a.AccuracyBonus }

// ComputeXP applies the canonical formula:
//
//	base  = round(rate[room] * correct * mult[difficulty] * speedBonus)
//	bonus = round(base * correct/total * accuracyWeight)
func ComputeXP(perf Performance, params Params) (Award, error) {
	if !ValidRoomType(perf.RoomType) {
		return Award{}, apperror.InvalidArgument("unknown room type")
	}
	if !ValidDifficulty(perf.Difficulty) {
		return Award{}, apperror.InvalidArgument("unknown difficulty")
	}
	if perf.TotalQuestions <= 0 {
		return Award{}, apperror.InvalidArgument("total questions must be positive")
	}
	if perf.CorrectAnswers < 0 || perf.TimeSpent < 0 {
		return Award{}, apperror.InvalidArgument("negative performance values")
	}
	if perf.CorrectAnswers > perf.TotalQuestions {
		return Award{}, apperror.InvalidArgument("correct answers exceed total questions")
	}

	speedBonus := 1.0
	if perf.TimeSpent < params.SpeedBonusThreshold {
		speedBonus = params.SpeedBonusMultiplier
	}

	rate := float64(params.BaseRates[perf.RoomType])
	mult := params.DifficultyMultipliers[perf.Difficulty]
	base := math.Round(rate * float64(perf.CorrectAnswers) * mult * speedBonus)

	accuracy := float64(perf.CorrectAnswers) / float64(perf.TotalQuestions)
	bonus := math.Round(base * accuracy * params.AccuracyBonusWeight)

	return Award{Base: int(base), AccuracyBonus: int(bonus)}, nil
}

// XPPerLevel is the flat level width: level = totalXP/1000 + 1.
const XPPerLevel = 1000

// ComputeLevel maps cumulative XP to a level. Total function, always >= 1.
func ComputeLevel(totalXP int) int {
	if totalXP < 0 {
		return 1
	}
	return totalXP/XPPerLevel + 1
}
