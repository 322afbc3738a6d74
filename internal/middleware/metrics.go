package middleware

import (
	"sync"

	"recordhub/internal/observability"

	"github.com/ansrivas/fiberprometheus/v2"
)

var (
	promOnce       sync.Once
	promMiddleware *fiberprometheus.FiberPrometheus
)

// Prometheus returns the process-wide HTTP metrics middleware. The collectors
// register with the default registry once, however many apps are built.
func Prometheus() *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promMiddleware = fiberprometheus.New(observability.ServiceName)
	})
	return promMiddleware
}
