package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stepan-anokhin/audio-processor/task"
)

// parseParams turns repeated key=value flags into transform parameters.
// Values are parsed as YAML scalars, so 4000 is an int, 0.5 a float, true
// a bool and anything else a string.
func parseParams(values []string) (map[string]any, error) {
	params := make(map[string]any, len(values))

	for _, kv := range values {
		key, raw, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q (want key=value)", kv)
		}

		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("parameter %s: %w", key, err)
		}
		switch value.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("parameter %s: expected a scalar value, got %q", key, raw)
		}

		params[key] = value
	}

	return params, nil
}

// transformFlags are the flags selecting a transform chain.
type transformFlags struct {
	typeName string
	params   []string
	specPath string
}

// load returns the task spec selected by the flags: the spec file named by
// --config, if any, with its transforms replaced by --type and --param when
// a type is given. Unless overrideSpec is set, --type and --config are
// mutually exclusive.
func (f *transformFlags) load(overrideSpec bool) (*task.TaskSpec, error) {
	typeName := strings.TrimSpace(f.typeName)
	specPath := strings.TrimSpace(f.specPath)

	switch {
	case typeName == "" && specPath == "":
		return nil, errors.New("either a transform type (--type) or a task spec (--config) must be specified")
	case typeName != "" && specPath != "" && !overrideSpec:
		return nil, errors.New("ambiguous usage: --type and --config cannot be specified together")
	case typeName == "" && len(f.params) > 0:
		return nil, errors.New("--param requires --type")
	}

	spec := &task.TaskSpec{}
	if specPath != "" {
		loaded, err := task.Load(specPath)
		if err != nil {
			return nil, err
		}
		spec = loaded
	}

	if typeName != "" {
		params, err := parseParams(f.params)
		if err != nil {
			return nil, err
		}
		spec.Transforms = []task.TransformSpec{{Type: typeName, Params: params}}
	}

	return spec, nil
}

func (f *transformFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.typeName, "type", "t", "", "Transform type, see `augment list`")
	cmd.Flags().StringArrayVarP(&f.params, "param", "p", nil, "Transform parameter as key=value (repeatable)")
	cmd.Flags().StringVarP(&f.specPath, "config", "c", "", "Task spec file (YAML)")
}
