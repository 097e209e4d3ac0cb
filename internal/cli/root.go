package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/qsfilter/internal/config"
	"github.com/roach88/qsfilter/internal/filter"
	"github.com/roach88/qsfilter/internal/predicate"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json" | "msgpack"
	Config  string // Optional filter config file
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{FormatText, FormatJSON, FormatMsgpack}

// NewRootCommand creates the root command for the qsfilter CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "qsfilter",
		Short: "qsfilter - query strings to filter specs",
		Long: `Translate URL query parameters into backend-neutral filter specs.

Each parameter becomes a predicate (equality, comparison, string match,
range or set membership) chosen by its operator prefix. The reserved
keys sort, page and limit become ordering and pagination.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			configureLogging(cmd, opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", FormatText, "output format (text|json|msgpack)")
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "filter config file (.yaml, .cue or .json)")

	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewSQLCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// configureLogging routes slog to the command's stderr.
// Debug records (compiled SQL, query ids) appear only with --verbose.
func configureLogging(cmd *cobra.Command, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// loadParser builds the parser from --config, or the defaults when no
// config file was given.
func loadParser(opts *RootOptions, f *OutputFormatter) (*filter.Parser, error) {
	if opts.Config == "" {
		return filter.MustNew(filter.Config{}), nil
	}

	f.VerboseLog("Loading config %s", opts.Config)
	file, err := config.Load(opts.Config)
	if err != nil {
		return nil, configFailure(f, err)
	}
	p, err := file.Parser()
	if err != nil {
		return nil, configFailure(f, err)
	}
	return p, nil
}

func configFailure(f *OutputFormatter, err error) error {
	var loadErr *config.LoadError
	if errors.As(err, &loadErr) {
		return f.fail(ExitCommandError, loadErr.Code, loadErr.Message, loadErr)
	}
	return f.fail(ExitCommandError, ErrCodeGeneric, "failed to load config", err)
}

// parseQuery parses raw with p, reporting decode errors through f.
func parseQuery(p *filter.Parser, raw string, f *OutputFormatter) (*predicate.Spec, error) {
	spec, err := p.ParseString(raw)
	if err != nil {
		return nil, f.fail(ExitCommandError, ErrCodeQuery, "invalid query string", err)
	}
	f.VerboseLog("Parsed %d predicate(s)", spec.Predicates.Len())
	return spec, nil
}
