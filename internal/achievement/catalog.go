package achievement

// ID is the stable machine identifier stored in unlock rows. Display titles
// are presentation only and may change without migrating data.
type ID string

const (
	PerfectScore    ID = "perfect_score"
	SpeedDemon      ID = "speed_demon"
	Streak3         ID = "streak_3"
	Streak7         ID = "streak_7"
	RisingStar      ID = "level_5"
	KnowledgeSeeker ID = "xp_1000"
)

// Definition is one catalog entry.
type Definition struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

var catalog = []Definition{
	{ID: PerfectScore, Title: "Perfect Score", Description: "Answer every question in a room correctly.", Icon: "target"},
	{ID: SpeedDemon, Title: "Speed Demon", Description: "Clear a room in under two minutes.", Icon: "bolt"},
	{ID: Streak3, Title: "On Fire", Description: "Learn three days in a row.", Icon: "flame"},
	{ID: Streak7, Title: "Unstoppable", Description: "Learn seven days in a row.", Icon: "calendar"},
	{ID: RisingStar, Title: "Rising Star", Description: "Reach level 5.", Icon: "star"},
	{ID: KnowledgeSeeker, Title: "Knowledge Seeker", Description: "Earn 1000 total XP.", Icon: "book"},
}

var catalogByID = func() map[ID]Definition {
	m := make(map[ID]Definition, len(catalog))
	for _, def := range catalog {
		m[def.ID] = def
	}
	return m
}()

// Catalog returns every defined achievement.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the definition for id.
func Lookup(id ID) (Definition, bool) {
	def, ok := catalogByID[id]
	return def, ok
}
