package api

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/drydocklabs/mcpdock/pkg/catalog"
	"github.com/drydocklabs/mcpdock/pkg/logger"
)

const warmUpMaxTries = 3

// refreshable matches providers backed by the registry cache. Local and
// embedded providers have nothing to prime.
type refreshable interface {
	Cache() *catalog.Cache
}

// warmUpRegistry eagerly fetches the registry document so the first request
// hits a warm cache. Failures are logged and absorbed.
func warmUpRegistry(ctx context.Context, provider catalog.Provider) {
	cp, ok := provider.(refreshable)
	if !ok {
		return
	}

	expBackoff := backoff.NewExponentialBackOff()

	operation := func() (*catalog.RegistryData, error) {
		return cp.Cache().Refresh()
	}

	data, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxTries(warmUpMaxTries),
		backoff.WithNotify(func(err error, duration time.Duration) {
			logger.Debugf("Registry warm-up failed, retrying in %v: %v", duration, err)
		}),
	)
	if err != nil {
		logger.Warnf("Registry warm-up did not succeed, serving will fall back per cache rules: %v", err)
		return
	}

	logger.Infof("Registry warm-up complete, %d servers cached", len(data.Servers))
}
