// Package learner holds the learner record and the per-attempt tracking
// that updates it.
package learner

import (
	"time"

	"github.com/abhisek/pathwise/internal/asset"
	"github.com/abhisek/pathwise/internal/mastery"
)

// User is a learner with tracked mastery and format preference.
type User struct {
	ID              string              `json:"userId"`
	Name            string              `json:"name"`
	Role            string              `json:"role"`
	Mastery         mastery.Map         `json:"masteryMap"`
	FormatStats     mastery.FormatStats `json:"formatStats"`
	PreferredFormat string              `json:"preferredFormat"`
	Version         int64               `json:"version"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// New returns a user with empty tracking state.
func New(id, name, role string) *User {
	return &User{
		ID:              id,
		Name:            name,
		Role:            role,
		Mastery:         mastery.Map{},
		PreferredFormat: mastery.Label(mastery.DefaultPreferredFormat),
	}
}

// Update is the tracking result of one attempt.
type Update struct {
	Topic           string
	Mastery         float64
	PreferredFormat string
}

// Track folds an attempt into the user's mastery and format statistics and
// refreshes the preferred-format label.
func (u *User) Track(topic string, format asset.Format, score, timeRatio float64) Update {
	if u.Mastery == nil {
		u.Mastery = mastery.Map{}
	}
	if topic == "" {
		topic = "unknown"
	}
	v := u.Mastery.Apply(topic, score, timeRatio)
	u.FormatStats.Record(format, score)
	u.PreferredFormat = u.FormatStats.PreferredLabel()
	return Update{Topic: topic, Mastery: v, PreferredFormat: u.PreferredFormat}
}

// Clone returns a deep copy.
func (u *User) Clone() *User {
	cp := *u
	cp.Mastery = make(mastery.Map, len(u.Mastery))
	for k, v := range u.Mastery {
		cp.Mastery[k] = v
	}
	cp.FormatStats = append(mastery.FormatStats(nil), u.FormatStats...)
	return &cp
}

// Summary is the public listing view of a user.
type Summary struct {
	ID              string `json:"userId"`
	Name            string `json:"name"`
	Role            string `json:"role"`
	PreferredFormat string `json:"preferredFormat"`
}

// Summary returns the listing view.
func (u *User) Summary() Summary {
	return Summary{ID: u.ID, Name: u.Name, Role: u.Role, PreferredFormat: u.PreferredFormat}
}
