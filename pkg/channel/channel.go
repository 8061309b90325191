package channel

import (
	"fmt"
	"strings"
)

// Channel represents a delivery medium. The set is closed: every capability
// below switches exhaustively over it, so adding a channel means extending
// each switch rather than comparing strings at call sites.
type Channel string

const (
	Email    Channel = "email"
	SMS      Channel = "sms"
	WhatsApp Channel = "whatsapp"
	InApp    Channel = "in_app"
	Push     Channel = "push"
)

// Strategy represents how content is produced for a channel.
type Strategy string

const (
	// StrategyMarkup compiles and executes a logic-enabled template engine.
	StrategyMarkup Strategy = "markup"
	// StrategyPlain performs plain {{var}} substitution with no logic.
	StrategyPlain Strategy = "plain"
	// StrategyStructured builds structured content from a locale catalog.
	StrategyStructured Strategy = "structured"
)

// All returns every known channel in a stable order.
func All() []Channel {
	return []Channel{Email, SMS, WhatsApp, InApp, Push}
}

// Parse converts a string into a Channel.
func Parse(s string) (Channel, error) {
	switch Channel(strings.ToLower(strings.TrimSpace(s))) {
	case Email:
		return Email, nil
	case SMS:
		return SMS, nil
	case WhatsApp:
		return WhatsApp, nil
	case InApp:
		return InApp, nil
	case Push:
		return Push, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownChannel, s)
	}
}

// Valid reports whether the channel is a member of the closed set.
func (c Channel) Valid() bool {
	switch c {
	case Email, SMS, WhatsApp, InApp, Push:
		return true
	default:
		return false
	}
}

func (c Channel) String() string {
	return string(c)
}

// RenderStrategy returns the rendering strategy for the channel.
func (c Channel) RenderStrategy() Strategy {
	switch c {
	case Email:
		return StrategyMarkup
	case SMS, WhatsApp:
		return StrategyPlain
	case InApp, Push:
		return StrategyStructured
	default:
		return StrategyPlain
	}
}

// TemplateExt returns the file extension for channels rendered from template
// files. Structured channels have no file template and return an empty string.
func (c Channel) TemplateExt() string {
	switch c {
	case Email:
		return ".html"
	case SMS, WhatsApp:
		return ".txt"
	case InApp, Push:
		return ""
	default:
		return ""
	}
}

// Folder returns the per-channel template folder used when deriving template
// paths from a manifest template base.
func (c Channel) Folder() string {
	switch c {
	case Email:
		return "email"
	case SMS:
		return "sms"
	case WhatsApp:
		return "whatsapp"
	case InApp:
		return "in-app"
	case Push:
		return "push"
	default:
		return string(c)
	}
}

// IsExternal reports whether delivery leaves the application, i.e. the user
// can receive it without opening the product.
func (c Channel) IsExternal() bool {
	switch c {
	case Email, SMS, WhatsApp:
		return true
	case InApp, Push:
		return false
	default:
		return false
	}
}
