package achievement_test

import (
	"testing"

	"missionforge-backend/internal/achievement"
)

func contains(ids []achievement.ID, want achievement.ID) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}

func TestEvaluateRules(t *testing.T) {
	cases := []struct {
		name    string
		after   achievement.Stats
		attempt achievement.Attempt
		want    []achievement.ID
		absent  []achievement.ID
	}{
		{
			name:    "perfect fast attempt",
			after:   achievement.Stats{TotalXP: 135, CurrentLevel: 1, StreakDays: 1},
			attempt: achievement.Attempt{CorrectAnswers: 5, TotalQuestions: 5, TimeSpent: 100},
			want:    []achievement.ID{achievement.PerfectScore, achievement.SpeedDemon},
			absent:  []achievement.ID{achievement.Streak3, achievement.KnowledgeSeeker},
		},
		{
			name:    "imperfect slow attempt",
			after:   achievement.Stats{TotalXP: 40, CurrentLevel: 1, StreakDays: 1},
			attempt: achievement.Attempt{CorrectAnswers: 3, TotalQuestions: 5, TimeSpent: 400},
			absent: []achievement.ID{
				achievement.PerfectScore, achievement.SpeedDemon,
				achievement.Streak3, achievement.Streak7,
				achievement.RisingStar, achievement.KnowledgeSeeker,
			},
		},
		{
			name:    "streak thresholds",
			after:   achievement.Stats{TotalXP: 500, CurrentLevel: 1, StreakDays: 7},
			attempt: achievement.Attempt{CorrectAnswers: 2, TotalQuestions: 5, TimeSpent: 300},
			want:    []achievement.ID{achievement.Streak3, achievement.Streak7},
		},
		{
			name:    "level and xp thresholds",
			after:   achievement.Stats{TotalXP: 4200, CurrentLevel: 5, StreakDays: 2},
			attempt: achievement.Attempt{CorrectAnswers: 2, TotalQuestions: 5, TimeSpent: 300},
			want:    []achievement.ID{achievement.RisingStar, achievement.KnowledgeSeeker},
		},
		{
			name:    "zero question attempt is never perfect",
			after:   achievement.Stats{},
			attempt: achievement.Attempt{CorrectAnswers: 0, TotalQuestions: 0, TimeSpent: 10},
			want:    []achievement.ID{achievement.SpeedDemon},
			absent:  []achievement.ID{achievement.PerfectScore},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := achievement.Evaluate(achievement.Stats{}, tc.after, tc.attempt)
			for _, id := range tc.want {
				if !contains(got, id) {
					t.Errorf("expected %s in %v", id, got)
				}
			}
			for _, id := range tc.absent {
				if contains(got, id) {
					t.Errorf("did not expect %s in %v", id, got)
				}
			}
		})
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	after := achievement.Stats{TotalXP: 1200, CurrentLevel: 2, StreakDays: 3}
	attempt := achievement.Attempt{CorrectAnswers: 5, TotalQuestions: 5, TimeSpent: 90}

	first := achievement.Evaluate(achievement.Stats{}, after, attempt)
	second := achievement.Evaluate(achievement.Stats{}, after, attempt)
	if len(first) != len(second) {
		t.Fatalf("evaluator not deterministic: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("evaluator not deterministic: %v vs %v", first, second)
		}
	}
}

func TestCatalogLookup(t *testing.T) {
	for _, def := range achievement.Catalog() {
		got, ok := achievement.Lookup(def.ID)
		if !ok {
			t.Errorf("catalog entry %s not found by Lookup", def.ID)
		}
		if got.Title == "" {
			t.Errorf("catalog entry %s has empty title", def.ID)
		}
	}
	if _, ok := achievement.Lookup("no_such_badge"); ok {
		t.Error("expected Lookup miss for unknown id")
	}
}
