package asset

import (
	"regexp"
	"strings"
)

const idPrefix = "asset"

var unsafeChars = regexp.MustCompile(`[^a-z0-9-]`)

// Key is the structured identity of an asset. Two assets are the same
// asset exactly when their keys are equal after normalization.
type Key struct {
	Course string `json:"course" yaml:"course"`
	Topic  string `json:"topic" yaml:"topic"`
	Level  Level  `json:"level" yaml:"level"`
	Format Format `json:"format" yaml:"format"`
}

// NewKey builds a normalized key from raw field values.
func NewKey(course, topic, level, format string) Key {
	return Key{
		Course: strings.TrimSpace(course),
		Topic:  strings.TrimSpace(topic),
		Level:  NormalizeLevel(level),
		Format: NormalizeFormat(format),
	}
}

// ID renders the stable external identifier:
// asset-{course}-{topic}-{level}-{format}, lower-cased, with every
// character outside [a-z0-9-] replaced by '-'.
func (k Key) ID() string {
	raw := strings.Join([]string{idPrefix, k.Course, k.Topic, string(k.Level), string(k.Format)}, "-")
	return slug(raw)
}

// WithLevel returns a copy of k at a different level.
func (k Key) WithLevel(l Level) Key {
	k.Level = l
	return k
}

// WithFormat returns a copy of k with a different format.
func (k Key) WithFormat(f Format) Key {
	k.Format = f
	return k
}

// Routable reports whether k carries enough data to compute sibling keys.
func (k Key) Routable() bool {
	return strings.TrimSpace(k.Course) != "" && strings.TrimSpace(k.Topic) != ""
}

// SameUnit reports whether k and other address the same course and topic
// at the same level, ignoring format.
func (k Key) SameUnit(other Key) bool {
	return k.SameTopic(other) && NormalizeLevel(string(k.Level)) == NormalizeLevel(string(other.Level))
}

// SameTopic reports whether k and other belong to the same course topic.
func (k Key) SameTopic(other Key) bool {
	return slug(k.Course) == slug(other.Course) && slug(k.Topic) == slug(other.Topic)
}

// ParseID recovers a key from an identifier produced by ID. Course ids
// are assumed to be a single segment; the topic absorbs every segment
// between course and level. Keys stored alongside ids are preferred.
func ParseID(id string) (Key, bool) {
	parts := strings.Split(id, "-")
	if len(parts) < 5 || parts[0] != idPrefix {
		return Key{}, false
	}
	n := len(parts)
	return Key{
		Course: parts[1],
		Topic:  strings.Join(parts[2:n-2], "-"),
		Level:  NormalizeLevel(parts[n-2]),
		Format: NormalizeFormat(parts[n-1]),
	}, true
}

func slug(s string) string {
	return unsafeChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
}
