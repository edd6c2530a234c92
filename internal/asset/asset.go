package asset

// DefaultExpectedMinutes is used when an asset declares no duration.
const DefaultExpectedMinutes = 10

// Asset is a single learning asset in the catalog.
type Asset struct {
	ID              string  `json:"assetId"`
	Key             Key     `json:"key"`
	Title           string  `json:"title"`
	ExpectedMinutes float64 `json:"expectedTimeMin"`
}

// New builds an asset whose id is derived from its key.
func New(key Key, title string, expectedMinutes float64) *Asset {
	return &Asset{
		ID:              key.ID(),
		Key:             key,
		Title:           title,
		ExpectedMinutes: expectedMinutes,
	}
}

// Topic returns the asset's topic.
func (a *Asset) Topic() string { return a.Key.Topic }

// Level returns the asset's normalized level.
func (a *Asset) Level() Level { return NormalizeLevel(string(a.Key.Level)) }

// Format returns the asset's normalized format.
func (a *Asset) Format() Format { return NormalizeFormat(string(a.Key.Format)) }

// Expected returns the expected duration in minutes, falling back to
// DefaultExpectedMinutes for unset or non-positive values.
func (a *Asset) Expected() float64 {
	if a == nil || a.ExpectedMinutes <= 0 {
		return DefaultExpectedMinutes
	}
	return a.ExpectedMinutes
}
