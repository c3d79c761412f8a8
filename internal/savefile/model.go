package savefile

import "time"

// NotFound marks a numeric field that never appeared in the payload.
const NotFound = -1

// ticksPerSecond is the game's time unit: milliseconds are stored scaled so
// that dividing by 60 yields whole seconds.
const ticksPerSecond = 60

// SplitResult is a save divided into its checksum line and markup payload.
type SplitResult struct {
	Checksum string
	Payload  string
	Valid    bool
}

// ParsedSave is the typed view of one save file. It is populated once by
// Parse and treated as read-only afterwards.
type ParsedSave struct {
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`
	Checksum string `json:"checksum" yaml:"checksum"`
	Payload  string `json:"-" yaml:"-"`
	Valid    bool   `json:"valid" yaml:"valid"`

	TimePlayedRaw int      `json:"time_played_raw" yaml:"time_played_raw"`
	Deaths        int      `json:"deaths" yaml:"deaths"`
	BossesSlain   []string `json:"bosses_slain" yaml:"bosses_slain"`
	KeysUnlocked  []string `json:"keys_unlocked" yaml:"keys_unlocked"`

	// KillsDeclared is the count attribute of the Kills element, NotFound if
	// there was none. It is a hint only; BossesSlain may be longer or shorter.
	KillsDeclared int `json:"kills_declared" yaml:"kills_declared"`
}

func newParsedSave() *ParsedSave {
	return &ParsedSave{
		TimePlayedRaw: NotFound,
		Deaths:        NotFound,
		KillsDeclared: NotFound,
	}
}

// TimePlayed converts the raw tick count to whole seconds. Sub-second
// remainders are dropped. It returns 0 when no time element was present.
func (s *ParsedSave) TimePlayed() time.Duration {
	if s.TimePlayedRaw < 0 {
		return 0
	}
	return time.Duration(s.TimePlayedRaw/ticksPerSecond) * time.Second
}

func (s *ParsedSave) HasTimePlayed() bool { return s.TimePlayedRaw != NotFound }

func (s *ParsedSave) HasDeaths() bool { return s.Deaths != NotFound }

// HasKills reports whether a bosses list exists, i.e. a Kills element was
// seen (or a Titan element in lenient mode).
func (s *ParsedSave) HasKills() bool { return s.BossesSlain != nil }

// HasKeys distinguishes "no Key element at all" from "zero keys".
func (s *ParsedSave) HasKeys() bool { return s.KeysUnlocked != nil }
