// Package config loads filter configuration files.
//
// YAML (.yaml, .yml) files are decoded strictly: unknown keys are errors.
// CUE and JSON (.cue, .json) files are unified with an embedded CUE schema
// before decoding. Either way the result is checked with filter.New, so a
// file that loads is guaranteed to build a Parser.
//
// Custom handlers are code, not configuration; set them on the
// filter.Config returned by File.FilterConfig.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/qsfilter/internal/filter"
)

//go:embed schema.cue
var schemaSource []byte

// Error codes carried by LoadError.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeReadFailed  = "E004" // File read error
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE or YAML syntax error
	ErrCodeSchema      = "E201" // Schema violation
	ErrCodeInvalid     = "E202" // Rejected by filter.New
	ErrCodeFormat      = "E203" // Unsupported file extension
	ErrCodeTimezone    = "E204" // Unknown IANA zone
)

// LoadError describes why a configuration file could not be loaded.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Pos     token.Pos // CUE position if available
	Err     error
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// File is the on-disk form of filter.Config.
type File struct {
	Operators       []string          `yaml:"operators,omitempty" json:"operators,omitempty"`
	Aliases         map[string]string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Blacklist       []string          `yaml:"blacklist,omitempty" json:"blacklist,omitempty"`
	DefaultPageSize int               `yaml:"default_page_size,omitempty" json:"default_page_size,omitempty"`
	MaxPageSize     int               `yaml:"max_page_size,omitempty" json:"max_page_size,omitempty"`
	DateFields      []string          `yaml:"date_fields,omitempty" json:"date_fields,omitempty"`
	DateOnlyCompare bool              `yaml:"date_only_compare,omitempty" json:"date_only_compare,omitempty"`
	Timezone        string            `yaml:"timezone,omitempty" json:"timezone,omitempty"`
}

// FilterConfig converts f into a filter.Config.
func (f *File) FilterConfig() (filter.Config, error) {
	cfg := filter.Config{
		Operators:       f.Operators,
		Aliases:         f.Aliases,
		Blacklist:       f.Blacklist,
		DefaultPageSize: f.DefaultPageSize,
		MaxPageSize:     f.MaxPageSize,
		DateFields:      f.DateFields,
		DateOnlyCompare: f.DateOnlyCompare,
	}
	if f.Timezone != "" {
		loc, err := time.LoadLocation(f.Timezone)
		if err != nil {
			return filter.Config{}, &LoadError{
				Code:    ErrCodeTimezone,
				Message: fmt.Sprintf("unknown timezone %q", f.Timezone),
				Err:     err,
			}
		}
		cfg.Location = loc
	}
	return cfg, nil
}

// Parser builds a filter.Parser from f.
func (f *File) Parser() (*filter.Parser, error) {
	cfg, err := f.FilterConfig()
	if err != nil {
		return nil, err
	}
	p, err := filter.New(cfg)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: err.Error(), Err: err}
	}
	return p, nil
}

// Load reads and validates the configuration file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "config file not found", Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Path: path, Message: err.Error(), Err: err}
	}

	var f *File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		f, err = decodeYAML(path, data)
	case ".cue", ".json":
		f, err = decodeCUE(path, data)
	default:
		return nil, &LoadError{Code: ErrCodeFormat, Path: path, Message: fmt.Sprintf("unsupported config format %q", ext)}
	}
	if err != nil {
		return nil, err
	}

	if _, err := f.Parser(); err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Path == "" {
			loadErr.Path = path
		}
		return nil, err
	}
	return f, nil
}

func decodeYAML(path string, data []byte) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Path: path, Message: fmt.Sprintf("parsing YAML: %v", err), Err: err}
	}
	return &f, nil
}

func decodeCUE(path string, data []byte) (*File, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("building schema: %v", err), Err: err}
	}

	user := ctx.CompileBytes(data, cue.Filename(path))
	if err := user.Err(); err != nil {
		return nil, cueLoadError(ErrCodeBuildFailed, path, err)
	}

	v := schema.LookupPath(cue.ParsePath("#Config")).Unify(user)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(ErrCodeSchema, path, err)
	}

	var f File
	if err := v.Decode(&f); err != nil {
		return nil, cueLoadError(ErrCodeSchema, path, err)
	}
	return &f, nil
}

// cueLoadError converts a CUE error to a LoadError carrying the first
// position CUE reports.
func cueLoadError(code, path string, err error) *LoadError {
	loadErr := &LoadError{Code: code, Path: path, Message: err.Error(), Err: err}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return loadErr
	}
	loadErr.Message = errs[0].Error()
	if positions := cueerrors.Positions(errs[0]); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}
