package kv

import (
	"context"
	"time"
)

// Observer receives timing and outcome for every store operation.
// metrics.Provider satisfies it.
type Observer interface {
	ObserveStoreOp(op string, d time.Duration, err error)
}

// Observed reports each Get and Set on next to obs.
type Observed struct {
	next Store
	obs  Observer
}

// NewObserved wraps next. A nil obs returns next unchanged.
func NewObserved(next Store, obs Observer) Store {
	if obs == nil {
		return next
	}
	return &Observed{next: next, obs: obs}
}

func (o *Observed) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	v, ok, err := o.next.Get(ctx, key)
	o.obs.ObserveStoreOp("get", time.Since(start), err)
	return v, ok, err
}

func (o *Observed) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := o.next.Set(ctx, key, value)
	o.obs.ObserveStoreOp("set", time.Since(start), err)
	return err
}
