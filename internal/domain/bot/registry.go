package bot

import (
	"errors"
	"fmt"
)

// ID identifies one of the bot brains.
type ID string

const (
	Support ID = "support"
	Sales   ID = "sales"
)

var (
	// ErrUnknownBot rejects bot ids outside the known set. The request is
	// refused before any external call is made.
	ErrUnknownBot = errors.New("unknown bot id")
	// ErrMisconfigured marks a known bot whose project binding is missing.
	ErrMisconfigured = errors.New("bot configuration error")
)

// Profile binds a bot to its intent-engine project and credential.
type Profile struct {
	ID             ID
	ProjectID      string
	CredentialsKey string
}

// Registry resolves bot ids to profiles. The support profile is also the
// fixed fallback credential pool for translation.
type Registry struct {
	profiles map[ID]Profile
}

// NewRegistry creates a registry over the two known bots.
func NewRegistry(support, sales Profile) *Registry {
	support.ID = Support
	sales.ID = Sales
	return &Registry{
		profiles: map[ID]Profile{
			Support: support,
			Sales:   sales,
		},
	}
}

// Resolve maps a caller-supplied bot id to its profile. Unknown ids are
// rejected rather than routed to a default brain; a known id without a
// project binding fails loudly as a configuration error.
func (r *Registry) Resolve(botID string) (Profile, error) {
	p, ok := r.profiles[ID(botID)]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownBot, botID)
	}
	if p.ProjectID == "" {
		return Profile{}, fmt.Errorf("%w: no project for bot %q", ErrMisconfigured, botID)
	}
	return p, nil
}

// Fallback returns the fixed fallback profile used as the secondary
// credential pool for translation calls.
func (r *Registry) Fallback() Profile {
	return r.profiles[Support]
}

// IDs lists the known bot identifiers.
func (r *Registry) IDs() []ID {
	return []ID{Support, Sales}
}
