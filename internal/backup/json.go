package backup

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"

	"github.com/abhisek/lexa/internal/grading"
	"github.com/abhisek/lexa/internal/tracker"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema://lexa/backup.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// documentSchema compiles the embedded schema on first use.
func documentSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// WriteJSON writes s as an indented JSON document.
func WriteJSON(w io.Writer, s *tracker.AppState) error {
	out := *s
	if out.FormatVersion == "" {
		out.FormatVersion = tracker.FormatVersion
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

// ReadJSON parses and validates a backup document. The returned state is
// not yet normalized; missing collections are filled in by the tracker.
// Evaluations and sessions without an id get a fresh one.
func ReadJSON(r io.Reader) (*tracker.AppState, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	sch, err := documentSchema()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	if err := sch.Validate(parsed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	var st tracker.AppState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if err := checkVersion(st.FormatVersion); err != nil {
		return nil, err
	}
	if err := checkWeights(&st); err != nil {
		return nil, err
	}
	assignMissingIDs(&st)
	return &st, nil
}

// Replacer swaps the whole tracked state for an imported one.
type Replacer interface {
	Replace(ctx context.Context, s *tracker.AppState) error
}

// Import reads a JSON backup from r and hands it to dst. dst is untouched
// when the document is rejected.
func Import(ctx context.Context, r io.Reader, dst Replacer) error {
	st, err := ReadJSON(r)
	if err != nil {
		return err
	}
	return dst.Replace(ctx, st)
}

// checkVersion rejects documents written by a newer major format. Backups
// from before versioning carry no version and are accepted.
func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: format version %q is not a semantic version", ErrInvalidDocument, v)
	}
	if semver.Compare(semver.Major(v), semver.Major(tracker.FormatVersion)) > 0 {
		return fmt.Errorf("%w: %s (this build reads %s)", ErrUnsupportedVersion, v, semver.Major(tracker.FormatVersion))
	}
	return nil
}

func checkWeights(st *tracker.AppState) error {
	for key, term := range st.Terms {
		if term == nil {
			continue
		}
		for name, c := range term.Courses {
			if c == nil {
				continue
			}
			if total := grading.TotalWeight(c.Grades); total > grading.FullWeight {
				return fmt.Errorf("%w: course %q in %s has %.2f%% of weight", ErrInvalidDocument, name, key, total)
			}
		}
	}
	return nil
}

func assignMissingIDs(st *tracker.AppState) {
	for _, term := range st.Terms {
		if term == nil {
			continue
		}
		for i := range term.Evaluations {
			if term.Evaluations[i].ID == "" {
				term.Evaluations[i].ID = uuid.NewString()
			}
		}
	}
	for i := range st.Sessions {
		if st.Sessions[i].ID == "" {
			st.Sessions[i].ID = uuid.NewString()
		}
	}
}
