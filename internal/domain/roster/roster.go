// Package roster prepares participants for a reveal session: it assigns
// identifiers, validates entries and provides the default league roster.
package roster

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/draftreveal/internal/domain/model"
)

// Supported league sizes.
var LeagueSizes = []int{8, 10, 12, 14, 16}

// DefaultLeagueSize is used when no size is requested.
const DefaultLeagueSize = 12

// IDGenerator produces participant identifiers.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates random UUIDv4 identifiers.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// Builder normalizes and validates rosters.
type Builder struct {
	ids IDGenerator
}

// Option configures a Builder.
type Option func(*Builder)

// WithIDGenerator overrides the identifier source.
func WithIDGenerator(g IDGenerator) Option {
	return func(b *Builder) {
		if g != nil {
			b.ids = g
		}
	}
}

// NewBuilder returns a Builder using UUIDs for missing identifiers.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{ids: UUIDGenerator{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Prepare trims text fields, assigns identifiers to entries without one and
// validates the result. The input slice is not modified.
func (b *Builder) Prepare(participants []model.Participant) ([]model.Participant, error) {
	out := make([]model.Participant, len(participants))
	for i, p := range participants {
		p.Name = strings.TrimSpace(p.Name)
		p.Motto = strings.TrimSpace(p.Motto)
		p.Prediction = strings.TrimSpace(p.Prediction)
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			p.ID = b.ids.NewID()
		}
		out[i] = p
	}
	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate checks that the roster is non-empty, every member is named and ids are unique.
func Validate(participants []model.Participant) error {
	if len(participants) == 0 {
		return ErrEmptyRoster
	}
	seen := make(map[string]struct{}, len(participants))
	for i, p := range participants {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("member %d: %w", i+1, ErrBlankName)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateID, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// SupportedSize reports whether size is one of LeagueSizes.
func SupportedSize(size int) bool {
	return slices.Contains(LeagueSizes, size)
}
