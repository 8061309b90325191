package queue

import "time"

// Config holds worker tuning loaded from the environment.
type Config struct {
	Concurrency  int           `env:"QUEUE_CONCURRENCY" envDefault:"4"`
	PollInterval time.Duration `env:"QUEUE_POLL_INTERVAL" envDefault:"500ms"`
	MaxRetries   int           `env:"QUEUE_MAX_RETRIES" envDefault:"3"`
	BackoffBase  time.Duration `env:"QUEUE_BACKOFF_BASE" envDefault:"30s"`
}
