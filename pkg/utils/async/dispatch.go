package async

import (
	"context"

	"github.com/medrec-lab/asclepius/pkg/utils/errutil"
	"github.com/medrec-lab/asclepius/pkg/utils/logging"
)

// Dispatch runs handler in a new goroutine detached from the request
// lifecycle. Errors and panics are logged, never propagated.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	// Detach from the caller's cancellation but keep its logger.
	bgCtx := context.Background()
	if logger := logging.From(ctx); logger != nil {
		bgCtx = logging.With(bgCtx, logger)
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger := logging.From(bgCtx)
				logger.Error("panic in async handler", "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			_ = errutil.Handle(bgCtx, err, "async handler failed")
		}
	}()
}
