package window

import (
	"time"

	"github.com/Carmen-Shannon/oxy-viewport/engine/viewport"
)

// InputRouterOption is a functional option for configuring an InputRouter.
type InputRouterOption func(r *InputRouter)

// WithClock replaces the clock used to time double clicks.
//
// Parameters:
//   - now: the clock
//
// Returns:
//   - InputRouterOption: option function to apply
func WithClock(now func() time.Time) InputRouterOption {
	return func(r *InputRouter) {
		r.now = now
	}
}

// WithCursorHandler sets the function receiving cursor changes after every event.
//
// Parameters:
//   - handler: the cursor handler
//
// Returns:
//   - InputRouterOption: option function to apply
func WithCursorHandler(handler func(shape viewport.CursorShape)) InputRouterOption {
	return func(r *InputRouter) {
		r.setCursor = handler
	}
}
