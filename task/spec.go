package task

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultOutputPattern places each output next to its input's relative
// directory with an "_aug" suffix.
const DefaultOutputPattern = "{reldir}/{name}_aug.{ext}"

// TransformSpec names a registered transform and its parameters.
type TransformSpec struct {
	Type   string         `json:"type" yaml:"type"`
	Params map[string]any `json:"params" yaml:"params"`
}

// TaskSpec describes a batch augmentation task.
type TaskSpec struct {
	InputRoot     string          `json:"input_root" yaml:"input_root"`
	InputPattern  string          `json:"input_pattern" yaml:"input_pattern"`
	OutputRoot    string          `json:"output_root" yaml:"output_root"`
	OutputPattern string          `json:"output_pattern" yaml:"output_pattern"`
	Transforms    []TransformSpec `json:"transforms" yaml:"transforms"`
}

// Normalize fills in defaults: OutputPattern falls back to
// DefaultOutputPattern and OutputRoot to InputRoot.
func (s *TaskSpec) Normalize() {
	if s.OutputPattern == "" {
		s.OutputPattern = DefaultOutputPattern
	}

	if s.OutputRoot == "" {
		s.OutputRoot = s.InputRoot
	}

	for i := range s.Transforms {
		if s.Transforms[i].Params == nil {
			s.Transforms[i].Params = map[string]any{}
		}
	}
}

// Validate checks that s names its inputs and at least one transform.
func (s *TaskSpec) Validate() error {
	switch {
	case s.InputPattern == "":
		return fmt.Errorf("%w: input pattern must be specified", ErrInvalidSpec)
	case len(s.Transforms) == 0:
		return fmt.Errorf("%w: at least one transform must be specified", ErrInvalidSpec)
	}

	for i, t := range s.Transforms {
		if t.Type == "" {
			return fmt.Errorf("%w: transform %d has no type", ErrInvalidSpec, i)
		}
	}

	return nil
}

// Read decodes a YAML task spec and normalizes it.
func Read(r io.Reader) (*TaskSpec, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var spec TaskSpec
	if err := dec.Decode(&spec); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode task spec: %w", err)
	}

	spec.Normalize()

	return &spec, nil
}

// Load reads a YAML task spec from path.
func Load(path string) (*TaskSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	spec, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return spec, nil
}

// Write encodes s as YAML.
func (s *TaskSpec) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode task spec: %w", err)
	}

	return enc.Close()
}

// Save writes s as YAML to path.
func (s *TaskSpec) Save(path string) error {
	var buf bytes.Buffer
	if err := s.Write(&buf); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}
