package task

import (
	"errors"
	"fmt"
	"slices"

	"github.com/stepan-anokhin/audio-processor/dsp/transform"
)

// Factory describes and builds one kind of transform.
type Factory struct {
	// Name is the type name used in task specs.
	Name string
	// Brief is a one-line description.
	Brief string
	// Params lists the accepted parameters in declaration order.
	Params []Param
	// New builds the transform from validated arguments.
	New func(args Args) (transform.Transform, error)
}

// Registry maps transform type names to their factories. A Registry is
// populated once and read concurrently afterwards.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under f.Name.
func (r *Registry) Register(f Factory) error {
	if f.Name == "" {
		return errors.New("empty transform name")
	}

	if f.New == nil {
		return fmt.Errorf("transform %s: nil constructor", f.Name)
	}

	if _, exists := r.factories[f.Name]; exists {
		return fmt.Errorf("%w: %s", errDuplicateTransform, f.Name)
	}

	r.factories[f.Name] = f

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(f Factory) {
	if err := r.Register(f); err != nil {
		panic("task registry: " + err.Error())
	}
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered names in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// New builds a single transform from its spec.
func (r *Registry) New(spec TransformSpec) (transform.Transform, error) {
	f, ok := r.factories[spec.Type]
	if !ok {
		return nil, unknownTransform(spec.Type, r.Names())
	}

	args, err := bindArgs(f.Params, spec.Params)
	if err != nil {
		return nil, &InitError{Name: f.Name, Err: err, Params: f.Params}
	}

	t, err := f.New(args)
	if err != nil {
		return nil, &InitError{Name: f.Name, Err: err, Params: f.Params}
	}

	return t, nil
}

// Build builds the transforms named by specs, in order, and combines them
// into a Composite. The first failure is returned as an *InitError.
func (r *Registry) Build(specs []TransformSpec) (*transform.Composite, error) {
	members := make([]transform.Transform, 0, len(specs))

	for _, spec := range specs {
		t, err := r.New(spec)
		if err != nil {
			return nil, err
		}

		members = append(members, t)
	}

	return transform.NewComposite(members...), nil
}
