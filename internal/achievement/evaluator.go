package achievement

// Stats is the slice of user state the rules read. The progress pipeline
// passes a snapshot from before the attempt and one from after.
type Stats struct {
	TotalXP      int
	CurrentLevel int
	StreakDays   int
}

// Attempt is the room-completion outcome being evaluated.
type Attempt struct {
	CorrectAnswers int
	TotalQuestions int
	TimeSpent      int // seconds
}

// fastRoomSeconds is the Speed Demon cutoff.
const fastRoomSeconds = 120

// Evaluate runs every rule independently and returns the IDs whose condition
// holds after this attempt. Rules are threshold-crossing where the stat is
// cumulative, so an already-held achievement simply evaluates true again;
// exactly-once unlock is enforced by the persistence layer's membership check.
func Evaluate(before, after Stats, attempt Attempt) []ID {
	var unlocked []ID

	if attempt.TotalQuestions > 0 && attempt.CorrectAnswers == attempt.TotalQuestions {
		unlocked = append(unlocked, PerfectScore)
	}
	if attempt.TimeSpent >= 0 && attempt.TimeSpent < fastRoomSeconds {
		unlocked = append(unlocked, SpeedDemon)
	}
	if after.StreakDays >= 3 {
		unlocked = append(unlocked, Streak3)
	}
	if after.StreakDays >= 7 {
		unlocked = append(unlocked, Streak7)
	}
	if after.CurrentLevel >= 5 {
		unlocked = append(unlocked, RisingStar)
	}
	if after.TotalXP >= 1000 {
		unlocked = append(unlocked, KnowledgeSeeker)
	}

	return unlocked
}
