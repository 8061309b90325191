package notifykit

import (
	"github.com/dmitrymomot/notifykit/pkg/activity"
	"github.com/dmitrymomot/notifykit/pkg/httpserver"
	"github.com/dmitrymomot/notifykit/pkg/idempotency"
	"github.com/dmitrymomot/notifykit/pkg/pg"
	"github.com/dmitrymomot/notifykit/pkg/queue"
	"github.com/dmitrymomot/notifykit/pkg/ratelimit"
	"github.com/dmitrymomot/notifykit/pkg/redis"
	"github.com/dmitrymomot/notifykit/pkg/webhook"
)

// Config aggregates the settings of every wired component. Load it with
// config.Load; nested structs resolve their own environment variables.
type Config struct {
	HTTP        httpserver.Config
	PG          pg.Config
	Redis       redis.Config
	Queue       queue.Config
	Webhook     webhook.Config
	Idempotency idempotency.Config
	Activity    activity.Config

	// InAppRate bounds synchronous in-app sends per recipient.
	InAppRate ratelimit.Config `envPrefix:"INAPP_"`

	// Concurrency bounds parallel recipient processing per trigger call.
	Concurrency int `env:"DISPATCH_CONCURRENCY" envDefault:"10"`

	// BatchSize chunks large recipient lists; zero processes the whole list
	// as one batch.
	BatchSize int `env:"DISPATCH_BATCH_SIZE" envDefault:"0"`
}
