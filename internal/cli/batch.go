package cli

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/llehouerou/ipv/internal/config"
	"github.com/llehouerou/ipv/internal/geometry"
	"github.com/llehouerou/ipv/internal/logging"
	"github.com/llehouerou/ipv/internal/params"
	"github.com/llehouerou/ipv/internal/session"
	"github.com/llehouerou/ipv/internal/state"
)

// runBatch applies work to every item with at most concurrency calls in
// flight and at most perSecond calls started per second. Results keep the
// order of items. Work reports its own failures in T; only cancellation
// stops the batch.
func runBatch[T any](ctx context.Context, items []string, concurrency int, perSecond float64,
	work func(context.Context, string) T,
) ([]T, error) {
	limiter := rate.NewLimiter(rate.Limit(perSecond), 1)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	results := make([]T, len(items))
	for i, item := range items {
		g.Go(func() error {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			results[i] = work(ctx, item)
			return nil
		})
	}
	return results, g.Wait()
}

// settler is the part of a session that applies call outcomes.
type settler interface {
	Settle(call *session.Call, out session.Outcome) session.Settlement
}

// runCall executes call synchronously and settles it. A settlement notice
// becomes the returned error.
func runCall(ctx context.Context, s settler, call *session.Call) (session.Settlement, error) {
	st := s.Settle(call, call.Run(ctx))
	if st.Notice != "" {
		return st, errors.New(st.Notice)
	}
	return st, nil
}

func sessionOptions(cfg *config.Config, method params.Method, rt params.ResultType) session.Options {
	display := cfg.GetDisplayConfig()
	policy := geometry.NeverUpscale
	if display.Upscale {
		policy = geometry.AlwaysScale
	}
	return session.Options{
		MaxSize:     display.MaxSize,
		MinRectSize: display.MinRectSize,
		Policy:      policy,
		Method:      method,
		ResultType:  rt,
	}
}

// recordSave appends to the save history. History is best effort: a
// failure is logged, the save itself already succeeded.
func recordSave(ctx context.Context, store state.Interface, rec state.SaveRecord) {
	if store == nil {
		return
	}
	if err := store.RecordSave(ctx, rec); err != nil {
		logging.Warn().Add(logging.ErrorField(err)).Msg("save history write failed")
	}
}
