package coach

// Config holds study-note generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	Workers     int
	QueueSize   int
}

func DefaultConfig() Config {
	return Config{
		MaxTokens:   600,
		Temperature: 0.4,
		Workers:     2,
		QueueSize:   64,
	}
}
