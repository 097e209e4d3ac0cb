package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/qsfilter/internal/predicate"
	"github.com/roach88/qsfilter/internal/wire"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	Strict bool
}

// ParseResult is the output of the parse command.
type ParseResult struct {
	Spec        *predicate.Spec `json:"spec"`
	Fingerprint string          `json:"fingerprint"`
	Warnings    []string        `json:"warnings,omitempty"`
}

func (r ParseResult) String() string {
	var b strings.Builder
	writeSpec(&b, r.Spec)
	fmt.Fprintf(&b, "fingerprint: %s", r.Fingerprint)
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "\nwarning: %s", w)
	}
	return b.String()
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse <query-string>",
		Short: "Translate a query string into a filter spec",
		Long: `Translate a query string into a filter spec and print it.

With --format msgpack the spec is written in its wire encoding, ready to
hand to a remote adapter.

Example:
  qsfilter parse 'age=|20|30&name=^s&sort=!age&page=2&limit=10'
  qsfilter parse --config filter.yaml --format json 'wealth=>1000'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail when the spec has warnings")

	return cmd
}

func runParse(opts *ParseOptions, raw string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	p, err := loadParser(opts.RootOptions, f)
	if err != nil {
		return err
	}
	spec, err := parseQuery(p, raw, f)
	if err != nil {
		return err
	}

	result := predicate.Validate(spec)
	if opts.Strict && !result.Clean {
		return f.fail(ExitFailure, ErrCodeStrict,
			fmt.Sprintf("spec has %d warning(s)", len(result.Warnings)), nil)
	}

	if opts.Format == FormatMsgpack {
		data, err := wire.Encode(spec)
		if err != nil {
			return f.fail(ExitCommandError, ErrCodeGeneric, "failed to encode spec", err)
		}
		return f.Raw(data)
	}

	fp, err := predicate.Fingerprint(spec)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeGeneric, "failed to fingerprint spec", err)
	}
	return f.Success(ParseResult{Spec: spec, Fingerprint: fp, Warnings: result.Warnings})
}
