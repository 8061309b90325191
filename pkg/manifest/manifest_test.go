package manifest_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/channel"
	"github.com/dmitrymomot/notifykit/pkg/manifest"
)

func centerCreated() manifest.Manifest {
	return manifest.Manifest{
		Type:         "CENTER_CREATED",
		Group:        "centers",
		Priority:     5,
		TemplateBase: "center-created",
		Audiences: map[manifest.Audience]manifest.AudienceManifest{
			"OWNER": {
				Channels: map[channel.Channel]manifest.ChannelManifest{
					channel.Email: {
						Subject:           "Your center is live",
						RequiredVariables: []string{"centerName"},
					},
					channel.InApp: {},
				},
			},
			"STAFF": {
				Channels: map[channel.Channel]manifest.ChannelManifest{
					channel.SMS: {Template: "sms/center-created-staff.txt"},
				},
			},
		},
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("get", func(t *testing.T) {
		t.Parallel()
		r, err := manifest.NewRegistry([]manifest.Manifest{centerCreated()})
		require.NoError(t, err)

		m, err := r.Get("CENTER_CREATED")
		require.NoError(t, err)
		assert.Equal(t, manifest.Type("CENTER_CREATED"), m.Type)

		_, err = r.Get("NO_SUCH_TYPE")
		assert.ErrorIs(t, err, manifest.ErrManifestNotFound)
	})

	t.Run("duplicate type rejected", func(t *testing.T) {
		t.Parallel()
		_, err := manifest.NewRegistry([]manifest.Manifest{centerCreated(), centerCreated()})
		assert.ErrorIs(t, err, manifest.ErrDuplicateManifest)
	})
}

func TestAudienceConfig(t *testing.T) {
	t.Parallel()

	m := centerCreated()

	_, err := manifest.AudienceConfig(m, "OWNER")
	require.NoError(t, err)

	_, err = manifest.AudienceConfig(m, "ADMIN")
	require.ErrorIs(t, err, manifest.ErrAudienceNotFound)
	// The error lists the audiences that do exist.
	assert.Contains(t, err.Error(), "OWNER")
	assert.Contains(t, err.Error(), "STAFF")
}

func TestChannelConfig(t *testing.T) {
	t.Parallel()

	m := centerCreated()

	t.Run("derived from template base", func(t *testing.T) {
		t.Parallel()
		cm, err := manifest.ChannelConfig(m, "OWNER", channel.Email)
		require.NoError(t, err)
		assert.Equal(t, "email/center-created.html", cm.Template)
		assert.Equal(t, "Your center is live", cm.Subject)
	})

	t.Run("explicit template wins", func(t *testing.T) {
		t.Parallel()
		cm, err := manifest.ChannelConfig(m, "STAFF", channel.SMS)
		require.NoError(t, err)
		assert.Equal(t, "sms/center-created-staff.txt", cm.Template)
	})

	t.Run("structured channel needs no template", func(t *testing.T) {
		t.Parallel()
		cm, err := manifest.ChannelConfig(m, "OWNER", channel.InApp)
		require.NoError(t, err)
		assert.Empty(t, cm.Template)
	})

	t.Run("missing template path", func(t *testing.T) {
		t.Parallel()
		bare := centerCreated()
		bare.TemplateBase = ""
		_, err := manifest.ChannelConfig(bare, "OWNER", channel.Email)
		assert.ErrorIs(t, err, manifest.ErrMissingTemplatePath)
	})

	t.Run("channel not declared", func(t *testing.T) {
		t.Parallel()
		_, err := manifest.ChannelConfig(m, "OWNER", channel.WhatsApp)
		assert.ErrorIs(t, err, manifest.ErrChannelNotFound)
	})
}

func TestChannels(t *testing.T) {
	t.Parallel()

	channels, err := manifest.Channels(centerCreated(), "OWNER")
	require.NoError(t, err)
	assert.ElementsMatch(t, []channel.Channel{channel.Email, channel.InApp}, channels)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid registry passes strict", func(t *testing.T) {
		t.Parallel()
		r, err := manifest.NewRegistry([]manifest.Manifest{centerCreated()})
		require.NoError(t, err)
		assert.NoError(t, r.Validate([]manifest.Type{"CENTER_CREATED"}, true))
	})

	t.Run("missing manifest fatal in strict mode", func(t *testing.T) {
		t.Parallel()
		r, err := manifest.NewRegistry([]manifest.Manifest{centerCreated()})
		require.NoError(t, err)
		err = r.Validate([]manifest.Type{"CENTER_CREATED", "OTP_ISSUED"}, true)
		assert.ErrorContains(t, err, "OTP_ISSUED")
	})

	t.Run("missing manifest warn-only otherwise", func(t *testing.T) {
		t.Parallel()
		r, err := manifest.NewRegistry([]manifest.Manifest{centerCreated()})
		require.NoError(t, err)
		assert.NoError(t, r.Validate([]manifest.Type{"OTP_ISSUED"}, false))
	})

	t.Run("email without subject", func(t *testing.T) {
		t.Parallel()
		m := centerCreated()
		owner := m.Audiences["OWNER"]
		owner.Channels[channel.Email] = manifest.ChannelManifest{}
		m.Audiences["OWNER"] = owner

		r, err := manifest.NewRegistry([]manifest.Manifest{m})
		require.NoError(t, err)
		assert.ErrorContains(t, r.Validate(nil, true), "without subject")
	})

	t.Run("whatsapp without provider template", func(t *testing.T) {
		t.Parallel()
		m := centerCreated()
		owner := m.Audiences["OWNER"]
		owner.Channels[channel.WhatsApp] = manifest.ChannelManifest{}
		m.Audiences["OWNER"] = owner

		r, err := manifest.NewRegistry([]manifest.Manifest{m})
		require.NoError(t, err)
		assert.ErrorContains(t, r.Validate(nil, true), "whatsapp channel without template name")
	})
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	src := `
manifests:
  - type: OTP_ISSUED
    group: auth
    priority: 9
    template_base: otp-issued
    audiences:
      OWNER:
        channels:
          sms:
            required_variables: [code]
          email:
            subject: "Your one-time code"
`
	manifests, err := manifest.LoadYAML(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, manifests, 1)

	m := manifests[0]
	assert.Equal(t, manifest.Type("OTP_ISSUED"), m.Type)
	assert.Equal(t, 9, m.Priority)

	cm, err := manifest.ChannelConfig(m, "OWNER", channel.SMS)
	require.NoError(t, err)
	assert.Equal(t, "sms/otp-issued.txt", cm.Template)
	assert.Equal(t, []string{"code"}, cm.RequiredVariables)
}
