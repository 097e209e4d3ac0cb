package filter

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/roach88/qsfilter/internal/predicate"
)

// ErrInvalidConfig is wrapped by every configuration error returned from New.
var ErrInvalidConfig = errors.New("invalid filter configuration")

const (
	DefaultPageSize = 25
	DefaultMaxPage  = 100
)

// DefaultDateFields are the fields compared by calendar date when
// DateOnlyCompare is enabled and Config.DateFields is nil.
var DefaultDateFields = []string{"createdAt", "updatedAt"}

// CustomHandler replaces predicate derivation for one field. The returned
// predicates are merged into the spec and may name other fields. A nil
// result contributes nothing.
type CustomHandler func(field string, raw any, cfg Config) *predicate.Predicates

// Config holds the translation settings.
//
// Zero values select defaults:
//   - Operators nil: every token in grammar order (see DefaultOperators)
//   - DefaultPageSize 0: 25
//   - MaxPageSize 0: 100; a negative MaxPageSize disables the cap
//   - DateFields nil: DefaultDateFields
//   - Location nil: UTC
//
// A non-nil empty Operators or DateFields slice is kept empty.
type Config struct {
	Operators       []string
	Aliases         map[string]string
	Blacklist       []string
	CustomHandlers  map[string]CustomHandler
	DefaultPageSize int
	MaxPageSize     int
	DateFields      []string
	DateOnlyCompare bool
	Location        *time.Location
}

// withDefaults returns a deep copy of c with defaults applied.
func (c Config) withDefaults() Config {
	out := Config{
		Operators:       slices.Clone(c.Operators),
		Aliases:         maps.Clone(c.Aliases),
		Blacklist:       slices.Clone(c.Blacklist),
		CustomHandlers:  maps.Clone(c.CustomHandlers),
		DefaultPageSize: c.DefaultPageSize,
		MaxPageSize:     c.MaxPageSize,
		DateFields:      slices.Clone(c.DateFields),
		DateOnlyCompare: c.DateOnlyCompare,
		Location:        c.Location,
	}
	if out.Operators == nil {
		out.Operators = DefaultOperators()
	}
	if out.Aliases == nil {
		out.Aliases = map[string]string{}
	}
	if out.CustomHandlers == nil {
		out.CustomHandlers = map[string]CustomHandler{}
	}
	if out.DefaultPageSize == 0 {
		out.DefaultPageSize = DefaultPageSize
	}
	if out.MaxPageSize == 0 {
		out.MaxPageSize = DefaultMaxPage
	}
	if out.DateFields == nil {
		out.DateFields = slices.Clone(DefaultDateFields)
	}
	if out.Location == nil {
		out.Location = time.UTC
	}
	return out
}

// validate checks a config that already has defaults applied.
func (c Config) validate() error {
	if c.DefaultPageSize < 1 {
		return fmt.Errorf("%w: default page size must be at least 1, got %d", ErrInvalidConfig, c.DefaultPageSize)
	}
	if c.MaxPageSize > 0 && c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("%w: max page size %d is below default page size %d",
			ErrInvalidConfig, c.MaxPageSize, c.DefaultPageSize)
	}
	for key, field := range c.Aliases {
		if strings.TrimSpace(field) == "" {
			return fmt.Errorf("%w: alias %q has an empty target", ErrInvalidConfig, key)
		}
	}
	for field, h := range c.CustomHandlers {
		if h == nil {
			return fmt.Errorf("%w: custom handler for %q is nil", ErrInvalidConfig, field)
		}
	}
	return nil
}

// HasMaxPageSize reports whether limits above MaxPageSize are rejected.
func (c Config) HasMaxPageSize() bool {
	return c.MaxPageSize > 0
}

// IsDateField reports whether field is one of the configured date fields.
func (c Config) IsDateField(field string) bool {
	return slices.Contains(c.DateFields, field)
}
