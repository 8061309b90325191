package pipeline

import (
	"context"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/notifykit/pkg/channel"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/manifest"
)

// Selector narrows the enabled channel set to the channels worth delivering
// to. Implementations never return an error and never return an empty set for
// a non-empty base; dispatch must not be blocked by selection.
type Selector interface {
	Select(ctx context.Context, userID string, base []channel.Channel, priority int, requiresAudit bool) []channel.Channel
}

// ActivityChecker reports whether a user has been seen recently.
type ActivityChecker interface {
	IsActive(ctx context.Context, userID string) (bool, error)
}

// ChannelSelector drops channels an inactive user will not see and guarantees
// an external channel for critical notifications.
type ChannelSelector struct {
	activity ActivityChecker
	log      *slog.Logger
}

// NewChannelSelector creates a selector backed by the given activity checker.
func NewChannelSelector(activity ActivityChecker, log *slog.Logger) *ChannelSelector {
	if log == nil {
		log = slog.Default()
	}
	return &ChannelSelector{activity: activity, log: log}
}

// Select applies three rules in order: drop in-app for inactive users when an
// external channel remains, force-add SMS for critical priority when no
// external channel is present, and fall back to the base set when the result
// would be empty. An activity lookup failure returns the base set unchanged.
// Audited notifications keep in-app regardless of activity so the in-product
// trail stays complete.
func (s *ChannelSelector) Select(ctx context.Context, userID string, base []channel.Channel, priority int, requiresAudit bool) []channel.Channel {
	if len(base) == 0 {
		return base
	}

	final := slices.Clone(base)

	if s.activity != nil && !requiresAudit && slices.Contains(final, channel.InApp) && hasExternal(final) {
		active, err := s.activity.IsActive(ctx, userID)
		if err != nil {
			s.log.WarnContext(ctx, "activity lookup failed, keeping base channels",
				logger.UserID(userID), logger.Error(err))
			return slices.Clone(base)
		}
		if !active {
			final = slices.DeleteFunc(final, func(c channel.Channel) bool { return c == channel.InApp })
		}
	}

	if priority >= manifest.CriticalPriority && !hasExternal(final) {
		final = append(final, channel.SMS)
	}

	if len(final) == 0 {
		return slices.Clone(base)
	}
	return final
}

func hasExternal(channels []channel.Channel) bool {
	return slices.ContainsFunc(channels, channel.Channel.IsExternal)
}
