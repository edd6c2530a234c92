package asset

import "strings"

// Level is the difficulty tier of an asset.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Levels lists the difficulty tiers from easiest to hardest.
var Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}

// NormalizeLevel maps free-form input onto the level vocabulary.
// Unknown values map to beginner.
func NormalizeLevel(s string) Level {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Levels {
		if l == known {
			return known
		}
	}
	return LevelBeginner
}

func (l Level) index() int {
	for i, known := range Levels {
		if l == known {
			return i
		}
	}
	return 0
}

// Next returns the level above l. The top level maps to itself.
func (l Level) Next() Level {
	i := NormalizeLevel(string(l)).index()
	if i >= len(Levels)-1 {
		return Levels[len(Levels)-1]
	}
	return Levels[i+1]
}

// Lower returns the level below l. Beginner maps to itself.
func (l Level) Lower() Level {
	i := NormalizeLevel(string(l)).index()
	if i <= 0 {
		return LevelBeginner
	}
	return Levels[i-1]
}

// HasNext reports whether a level above l exists.
func (l Level) HasNext() bool {
	return l.Next() != NormalizeLevel(string(l))
}
