package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/qsfilter/internal/config"
)

// ConfigResult is the output of the config command: the effective
// settings after defaults are applied.
type ConfigResult struct {
	Path            string            `json:"path"`
	Operators       []string          `json:"operators"`
	Aliases         map[string]string `json:"aliases,omitempty"`
	Blacklist       []string          `json:"blacklist,omitempty"`
	DefaultPageSize int               `json:"default_page_size"`
	MaxPageSize     int               `json:"max_page_size"`
	DateFields      []string          `json:"date_fields"`
	DateOnlyCompare bool              `json:"date_only_compare"`
	Timezone        string            `json:"timezone"`
}

func (r ConfigResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "✓ %s is valid\n", r.Path)
	fmt.Fprintf(&b, "operators: %s\n", strings.Join(r.Operators, " "))
	for _, from := range slices.Sorted(maps.Keys(r.Aliases)) {
		fmt.Fprintf(&b, "alias: %s -> %s\n", from, r.Aliases[from])
	}
	if len(r.Blacklist) > 0 {
		fmt.Fprintf(&b, "blacklist: %s\n", strings.Join(r.Blacklist, ", "))
	}
	fmt.Fprintf(&b, "page size: %d (max %s)\n", r.DefaultPageSize, formatMax(r.MaxPageSize))
	fmt.Fprintf(&b, "date fields: %s\n", strings.Join(r.DateFields, ", "))
	fmt.Fprintf(&b, "date only: %t\n", r.DateOnlyCompare)
	fmt.Fprintf(&b, "timezone: %s", r.Timezone)
	return b.String()
}

func formatMax(n int) string {
	if n < 0 {
		return "unlimited"
	}
	return fmt.Sprint(n)
}

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <file>",
		Short: "Validate a filter config file",
		Long: `Validate a filter config file and print the effective settings.

YAML files are decoded strictly; unknown keys are errors. CUE and JSON
files are unified with the config schema, so constraint violations are
reported with their source position.

Example:
  qsfilter config filter.yaml
  qsfilter config --format json filter.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runConfig(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	file, err := config.Load(path)
	if err != nil {
		return configFailure(f, err)
	}
	p, err := file.Parser()
	if err != nil {
		return configFailure(f, err)
	}

	cfg := p.Config()
	return f.Success(ConfigResult{
		Path:            path,
		Operators:       cfg.Operators,
		Aliases:         cfg.Aliases,
		Blacklist:       cfg.Blacklist,
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
		DateFields:      cfg.DateFields,
		DateOnlyCompare: cfg.DateOnlyCompare,
		Timezone:        cfg.Location.String(),
	})
}
