// Package llm holds the judgment collaborators: language-model backed
// implementations of interfaces.Judge. Each provider lives in its own
// sub-package; this package carries the prompt and reply handling they share.
package llm

import (
	"context"
	"errors"
	"time"
)

// ErrNoAPIKey is returned by constructors when the provider key is unset.
var ErrNoAPIKey = errors.New("api key not configured")

// WithDeadline bounds one judge call. A zero timeout leaves ctx unchanged.
func WithDeadline(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
