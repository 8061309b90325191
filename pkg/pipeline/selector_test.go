package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/notifykit/pkg/channel"
	"github.com/dmitrymomot/notifykit/pkg/pipeline"
)

type stubActivity struct {
	active bool
	err    error
}

func (s stubActivity) IsActive(ctx context.Context, userID string) (bool, error) {
	return s.active, s.err
}

func TestSelectDropsInAppForInactiveUser(t *testing.T) {
	t.Parallel()

	sel := pipeline.NewChannelSelector(stubActivity{active: false}, nil)
	base := []channel.Channel{channel.Email, channel.InApp}

	final := sel.Select(context.Background(), "user-1", base, 5, false)
	assert.Equal(t, []channel.Channel{channel.Email}, final)
}

func TestSelectKeepsInAppForActiveUser(t *testing.T) {
	t.Parallel()

	sel := pipeline.NewChannelSelector(stubActivity{active: true}, nil)
	base := []channel.Channel{channel.Email, channel.InApp}

	final := sel.Select(context.Background(), "user-1", base, 5, false)
	assert.ElementsMatch(t, base, final)
}

func TestSelectKeepsInAppWithoutExternalChannel(t *testing.T) {
	t.Parallel()

	sel := pipeline.NewChannelSelector(stubActivity{active: false}, nil)
	base := []channel.Channel{channel.InApp}

	final := sel.Select(context.Background(), "user-1", base, 5, false)
	assert.Equal(t, base, final, "in-app survives when it is the only channel")
}

func TestSelectAuditKeepsInApp(t *testing.T) {
	t.Parallel()

	sel := pipeline.NewChannelSelector(stubActivity{active: false}, nil)
	base := []channel.Channel{channel.Email, channel.InApp}

	final := sel.Select(context.Background(), "user-1", base, 5, true)
	assert.ElementsMatch(t, base, final, "audited notifications keep the in-product trail")
}

func TestSelectCriticalForcesSMS(t *testing.T) {
	t.Parallel()

	sel := pipeline.NewChannelSelector(stubActivity{active: true}, nil)
	base := []channel.Channel{channel.InApp}

	final := sel.Select(context.Background(), "user-1", base, 8, false)
	assert.Contains(t, final, channel.SMS)
	assert.Contains(t, final, channel.InApp)
}

func TestSelectCriticalWithExternalUnchanged(t *testing.T) {
	t.Parallel()

	sel := pipeline.NewChannelSelector(stubActivity{active: true}, nil)
	base := []channel.Channel{channel.Email, channel.InApp}

	final := sel.Select(context.Background(), "user-1", base, 9, false)
	assert.ElementsMatch(t, base, final)
}

func TestSelectFailsOpenOnActivityError(t *testing.T) {
	t.Parallel()

	sel := pipeline.NewChannelSelector(stubActivity{err: errors.New("redis down")}, nil)
	base := []channel.Channel{channel.Email, channel.InApp}

	final := sel.Select(context.Background(), "user-1", base, 5, false)
	assert.ElementsMatch(t, base, final, "lookup failures never block dispatch")
}

func TestSelectEmptyBase(t *testing.T) {
	t.Parallel()

	sel := pipeline.NewChannelSelector(stubActivity{active: true}, nil)
	assert.Empty(t, sel.Select(context.Background(), "user-1", nil, 9, false))
}
