package templates

import (
	"github.com/dmitrymomot/notifykit/pkg/channel"
)

// Key identifies a template variant. Both cache levels are keyed by it.
type Key struct {
	Locale  string
	Channel channel.Channel
	Name    string
}

func (k Key) String() string {
	return k.Locale + ":" + string(k.Channel) + ":" + k.Name
}
