package relay

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/gob"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// JSONTarget persists a value as indented JSON under the task's artifact
// directory.
type JSONTarget struct {
	artifact
}

// NewJSONTarget returns a JSON target named name (default "data") owned by
// the given task.
func NewJSONTarget(owner Task, name string) *JSONTarget {
	return &JSONTarget{artifact: newArtifact(owner, name, "json")}
}

// Save encodes v and writes the artifact atomically.
func (t *JSONTarget) Save(ctx context.Context, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", t.Path(), err)
	}
	return t.write(ctx, data)
}

// Load decodes the artifact into out.
func (t *JSONTarget) Load(ctx context.Context, out any) error {
	data, err := t.read(ctx)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s: %w", t.Path(), err)
	}
	return nil
}

// YAMLTarget persists a value as YAML, for artifacts meant to be edited or
// diffed by people.
type YAMLTarget struct {
	artifact
}

// NewYAMLTarget returns a YAML target named name (default "data") owned by
// the given task.
func NewYAMLTarget(owner Task, name string) *YAMLTarget {
	return &YAMLTarget{artifact: newArtifact(owner, name, "yaml")}
}

func (t *YAMLTarget) Save(ctx context.Context, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", t.Path(), err)
	}
	return t.write(ctx, data)
}

func (t *YAMLTarget) Load(ctx context.Context, out any) error {
	data, err := t.read(ctx)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s: %w", t.Path(), err)
	}
	return nil
}

// CSVTarget persists tabular records. The caller owns the header row.
type CSVTarget struct {
	artifact
}

// NewCSVTarget returns a CSV target named name (default "data") owned by
// the given task.
func NewCSVTarget(owner Task, name string) *CSVTarget {
	return &CSVTarget{artifact: newArtifact(owner, name, "csv")}
}

func (t *CSVTarget) Save(ctx context.Context, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("encoding %s: %w", t.Path(), err)
	}
	return t.write(ctx, buf.Bytes())
}

func (t *CSVTarget) Load(ctx context.Context) ([][]string, error) {
	data, err := t.read(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", t.Path(), err)
	}
	return rows, nil
}

// GobTarget persists a value in Go's native binary encoding. Fastest of
// the codecs, unreadable outside Go; register concrete types used inside
// interface values with gob.Register.
type GobTarget struct {
	artifact
}

// NewGobTarget returns a gob target named name (default "data") owned by
// the given task.
func NewGobTarget(owner Task, name string) *GobTarget {
	return &GobTarget{artifact: newArtifact(owner, name, "gob")}
}

func (t *GobTarget) Save(ctx context.Context, v any) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", t.Path(), err)
	}
	return t.write(ctx, buf.Bytes())
}

func (t *GobTarget) Load(ctx context.Context, out any) error {
	data, err := t.read(ctx)
	if err != nil {
		return err
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", t.Path(), err)
	}
	return nil
}
