/*
Package observability provides tools for monitoring the tutoring engine.

It turns domain.LifecycleHooks into Prometheus metrics and structured log lines, and
composes several hook sets into one.

# Usage

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	hooks := observability.Chain(metrics.Hooks(), observability.LoggingHooks(logger))
	ws, _ := workshop.New(workshop.WithLifecycleHooks(hooks))
*/
package observability
