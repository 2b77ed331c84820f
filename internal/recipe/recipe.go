// Package recipe loads YAML documents describing a query as a list of
// fragments and applies them to a sqlfrag.Frag.
//
//	max_len: 0
//	fragments:
//	  - lit: "SELECT "
//	  - fmt: "%s"
//	    args: ["*"]
package recipe

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mitranim/sqlfrag"
)

// Step is a single fragment: either a literal or a template with arguments.
type Step struct {
	Lit  *string `yaml:"lit,omitempty"`
	Fmt  *string `yaml:"fmt,omitempty"`
	Args []any   `yaml:"args,omitempty"`
}

// Recipe is an ordered list of fragments with an optional byte budget.
type Recipe struct {
	MaxLen int    `yaml:"max_len,omitempty"`
	Steps  []Step `yaml:"fragments"`
}

// Load reads and parses recipe from file.
func Load(fname string) (*Recipe, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, fmt.Errorf("unable to read recipe '%s': %w", fname, err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse recipe '%s': %w", fname, err)
	}
	return r, nil
}

// Parse decodes recipe and validates every step, reporting all invalid
// steps at once.
func Parse(data []byte) (*Recipe, error) {
	var r Recipe

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks that each step is either literal or formatted.
func (r *Recipe) Validate() (err error) {
	if r.MaxLen < 0 {
		err = multierr.Append(err, fmt.Errorf("max_len must not be negative, got %d: %w", r.MaxLen, sqlfrag.ErrInvalidInput))
	}
	for i, s := range r.Steps {
		switch {
		case s.Lit != nil && s.Fmt != nil:
			err = multierr.Append(err, fmt.Errorf("fragment %d: both 'lit' and 'fmt' are set: %w", i, sqlfrag.ErrInvalidInput))
		case s.Lit == nil && s.Fmt == nil:
			err = multierr.Append(err, fmt.Errorf("fragment %d: neither 'lit' nor 'fmt' is set: %w", i, sqlfrag.ErrInvalidInput))
		case s.Lit != nil && len(s.Args) > 0:
			err = multierr.Append(err, fmt.Errorf("fragment %d: 'args' require 'fmt': %w", i, sqlfrag.ErrInvalidInput))
		}
	}
	return err
}

// Apply appends steps to frag in order. Failing steps leave frag unchanged
// and do not stop processing, all failures are returned combined. Nil log
// discards messages.
func (r *Recipe) Apply(frag *sqlfrag.Frag, log *zap.Logger) (err error) {
	if log == nil {
		log = zap.NewNop()
	}
	for i, s := range r.Steps {
		var er error
		switch {
		case s.Lit != nil:
			er = frag.Str(*s.Lit)
		case s.Fmt != nil:
			er = frag.Strf(*s.Fmt, s.Args...)
		default:
			er = sqlfrag.ErrInvalidInput
		}
		if er != nil {
			log.Warn("Skipping fragment", zap.Int("index", i), zap.Error(er))
			err = multierr.Append(err, fmt.Errorf("fragment %d: %w", i, er))
			continue
		}
		log.Debug("Fragment appended", zap.Int("index", i), zap.Int("size", frag.Size()))
	}
	return err
}

// Build applies recipe to a fresh builder limited by recipe budget and returns
// the result.
func (r *Recipe) Build(log *zap.Logger) (string, error) {
	frag := sqlfrag.MakeFrag(len(r.Steps))
	frag.MaxLen = r.MaxLen
	defer frag.Dispose()

	if err := r.Apply(frag, log); err != nil {
		return "", err
	}
	return frag.Build(), nil
}
