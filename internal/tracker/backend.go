package tracker

import (
	"context"
	"errors"
)

// ErrPersistence marks a failed read or write against the backing store.
// The in-memory collection is left as it was before the failed call.
var ErrPersistence = errors.New("persistence failure")

// Backend is the key-value persistence the store writes through.
//
// Get reports found=false (and no error) when key has never been set.
// Implementations live under internal/store.
type Backend interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Observer receives store events, typically to feed Prometheus.
type Observer interface {
	ObserveMutation(op string, err error)
	ObserveSize(n int)
}

type noopObserver struct{}

func (noopObserver) ObserveMutation(string, error) {}
func (noopObserver) ObserveSize(int)               {}
