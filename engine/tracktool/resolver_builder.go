package tracktool

import (
	"github.com/Carmen-Shannon/oxy-viewport/engine/overlay"
)

// ResolverBuilderOption is a functional option for configuring a Resolver.
type ResolverBuilderOption func(r *Resolver)

// WithLayout sets the gizmo layout the resolver hit-tests against.
//
// Parameters:
//   - layout: the gizmo layout
//
// Returns:
//   - ResolverBuilderOption: option function to apply
func WithLayout(layout overlay.Layout) ResolverBuilderOption {
	return func(r *Resolver) {
		r.layout = layout
	}
}
