// Package buildspec maps the symbolic tags used in a structure to the
// builders that turn a tagged node pair into a concrete body spec.
//
// A BuildSpec is filled once per model type before resolution. Every pair
// sharing a tag shares that tag's builder and therefore its configuration.
// There is no fallback builder: looking up a tag that was never registered
// is a configuration error.
package buildspec

import (
	"errors"
	"fmt"

	"github.com/san-kum/tgsim/internal/geom"
	"github.com/san-kum/tgsim/internal/world"
)

var (
	// ErrUnknownTag indicates a structure tag with no registered builder.
	ErrUnknownTag = errors.New("buildspec: no builder registered for tag")

	// ErrDuplicateTag indicates a second registration for the same tag.
	ErrDuplicateTag = errors.New("buildspec: tag already registered")

	// ErrInvalidConfig indicates a builder configuration that cannot produce a body.
	ErrInvalidConfig = errors.New("buildspec: invalid builder config")
)

// Builder produces the spec of one body spanning from→to.
type Builder interface {
	Build(from, to geom.Vec3) (world.BodySpec, error)
}

type BuildSpec struct {
	builders map[string]Builder
	order    []string
}

func New() *BuildSpec {
	return &BuildSpec{
		builders: make(map[string]Builder),
		order:    make([]string, 0),
	}
}

func (b *BuildSpec) AddBuilder(tag string, builder Builder) error {
	if tag == "" {
		return fmt.Errorf("%w: empty tag", ErrInvalidConfig)
	}
	if builder == nil {
		return fmt.Errorf("%w: nil builder for tag %q", ErrInvalidConfig, tag)
	}
	if _, ok := b.builders[tag]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTag, tag)
	}
	b.builders[tag] = builder
	b.order = append(b.order, tag)
	return nil
}

func (b *BuildSpec) Builder(tag string) (Builder, error) {
	builder, ok := b.builders[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}
	return builder, nil
}

// Tags lists registered tags in registration order.
func (b *BuildSpec) Tags() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}
