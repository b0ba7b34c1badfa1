package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	return NewRegistry(
		Profile{ProjectID: "support-project", CredentialsKey: "support-key"},
		Profile{ProjectID: "sales-project", CredentialsKey: "sales-key"},
	)
}

func TestResolveKnownBots(t *testing.T) {
	r := newTestRegistry()

	support, err := r.Resolve("support")
	require.NoError(t, err)
	assert.Equal(t, Support, support.ID)
	assert.Equal(t, "support-project", support.ProjectID)

	sales, err := r.Resolve("sales")
	require.NoError(t, err)
	assert.Equal(t, Sales, sales.ID)
	assert.Equal(t, "sales-project", sales.ProjectID)
}

func TestResolveRejectsUnknownBot(t *testing.T) {
	r := newTestRegistry()

	for _, id := range []string{"marketing", "", "SUPPORT", "sales "} {
		_, err := r.Resolve(id)
		assert.ErrorIs(t, err, ErrUnknownBot, "botId %q", id)
	}
}

func TestResolveFailsOnMissingProject(t *testing.T) {
	r := NewRegistry(
		Profile{ProjectID: "support-project"},
		Profile{}, // sales project unset
	)

	_, err := r.Resolve("sales")
	assert.ErrorIs(t, err, ErrMisconfigured)

	_, err = r.Resolve("support")
	assert.NoError(t, err)
}

func TestFallbackIsSupport(t *testing.T) {
	r := newTestRegistry()
	assert.Equal(t, Support, r.Fallback().ID)
	assert.Equal(t, "support-project", r.Fallback().ProjectID)
}
