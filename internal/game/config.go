package game

// Mode selects how player factions relate to each other. The simulation
// treats both the same way (zombies are always the hostile faction); the
// mode is carried for the presentation layer and matchmaking.
type Mode string

const (
	ModeCooperative Mode = "coop"
	ModeTeamBattle  Mode = "teams"
)

// Difficulty scales the zombie faction multiplicatively.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

type difficultyScale struct {
	HP     float64
	Damage float64
	Speed  float64
	Spawn  float64
}

func (d Difficulty) scale() difficultyScale {
	switch d {
	case DifficultyEasy:
		return difficultyScale{HP: 0.75, Damage: 0.75, Speed: 0.9, Spawn: 0.75}
	case DifficultyHard:
		return difficultyScale{HP: 1.3, Damage: 1.3, Speed: 1.15, Spawn: 1.5}
	default:
		return difficultyScale{HP: 1, Damage: 1, Speed: 1, Spawn: 1}
	}
}

// SlotConfig binds a display name and color to one player slot.
type SlotConfig struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// SessionConfig is the plain configuration structure a session is built
// from. Zero values fall back to sane defaults in NewWorld.
type SessionConfig struct {
	PlayerCount int          `json:"playerCount"`
	Slots       []SlotConfig `json:"slots,omitempty"`
	MapSize     int          `json:"mapSize"`
	Difficulty  Difficulty   `json:"difficulty"`
	Mode        Mode         `json:"mode"`
	// FogOfWar only affects what guests render; the simulation ignores it.
	FogOfWar bool `json:"fogOfWar"`
	// Seed pins the world RNG for tests; zero picks a time-based seed.
	Seed int64 `json:"-"`
}

var defaultColors = [...]string{
	"#e6194b", "#3cb44b", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c",
}

func (c SessionConfig) normalized() SessionConfig {
	if c.PlayerCount < 1 {
		c.PlayerCount = 1
	}
	if c.PlayerCount > 8 {
		c.PlayerCount = 8
	}
	if c.MapSize <= 0 {
		c.MapSize = defaultMapSize
	}
	if c.Difficulty == "" {
		c.Difficulty = DifficultyNormal
	}
	if c.Mode == "" {
		c.Mode = ModeCooperative
	}
	return c
}
