package channel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/channel"
)

func TestParse(t *testing.T) {
	t.Parallel()

	ch, err := channel.Parse(" Email ")
	require.NoError(t, err)
	assert.Equal(t, channel.Email, ch)

	_, err = channel.Parse("pigeon")
	assert.ErrorIs(t, err, channel.ErrUnknownChannel)
}

func TestRenderStrategy(t *testing.T) {
	t.Parallel()

	assert.Equal(t, channel.StrategyMarkup, channel.Email.RenderStrategy())
	assert.Equal(t, channel.StrategyPlain, channel.SMS.RenderStrategy())
	assert.Equal(t, channel.StrategyPlain, channel.WhatsApp.RenderStrategy())
	assert.Equal(t, channel.StrategyStructured, channel.InApp.RenderStrategy())
	assert.Equal(t, channel.StrategyStructured, channel.Push.RenderStrategy())
}

func TestIsExternal(t *testing.T) {
	t.Parallel()

	assert.True(t, channel.Email.IsExternal())
	assert.True(t, channel.SMS.IsExternal())
	assert.True(t, channel.WhatsApp.IsExternal())
	assert.False(t, channel.InApp.IsExternal())
	assert.False(t, channel.Push.IsExternal())
}

func TestAddress(t *testing.T) {
	t.Parallel()

	t.Run("email", func(t *testing.T) {
		t.Parallel()
		addr, err := channel.Email.Address("a@b.com", "", "")
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", addr)

		_, err = channel.Email.Address("not-an-email", "+15551234567", "u1")
		assert.ErrorIs(t, err, channel.ErrInvalidEmail)

		_, err = channel.Email.Address("user@localhost", "", "")
		assert.ErrorIs(t, err, channel.ErrInvalidEmail)
	})

	t.Run("phone channels", func(t *testing.T) {
		t.Parallel()
		for _, ch := range []channel.Channel{channel.SMS, channel.WhatsApp} {
			addr, err := ch.Address("", "+1 (555) 123-4567", "")
			require.NoError(t, err)
			assert.Equal(t, "+15551234567", addr)

			_, err = ch.Address("a@b.com", "garbage", "u1")
			assert.ErrorIs(t, err, channel.ErrInvalidPhone)
		}
	})

	t.Run("application channels", func(t *testing.T) {
		t.Parallel()
		for _, ch := range []channel.Channel{channel.InApp, channel.Push} {
			addr, err := ch.Address("", "", "user-1")
			require.NoError(t, err)
			assert.Equal(t, "user-1", addr)

			_, err = ch.Address("a@b.com", "+15551234567", "")
			assert.ErrorIs(t, err, channel.ErrMissingUserID)
		}
	})
}

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"+15551234567", "+15551234567", false},
		{"15551234567", "+15551234567", false},
		{"+44 20 7183 8750", "+442071838750", false},
		{"", "", true},
		{"+0123", "", true},
		{"abc", "", true},
	}
	for _, tt := range tests {
		got, err := channel.NormalizePhone(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestTemplateConventions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".html", channel.Email.TemplateExt())
	assert.Equal(t, ".txt", channel.SMS.TemplateExt())
	assert.Empty(t, channel.InApp.TemplateExt())
	assert.Equal(t, "in-app", channel.InApp.Folder())
	assert.Len(t, channel.All(), 5)
}
