/*
Package observability turns builder lifecycle hooks into Prometheus metrics
and audit logs.

Hooks from several sources are merged with Combine and handed to the engine:

	metrics, _ := observability.NewMetrics(prometheus.DefaultRegisterer)
	eng, _ := wayfinder.New(g, wayfinder.WithLifecycleHooks(
		observability.Combine(metrics.Hooks(), observability.LogHooks(logger)),
	))
*/
package observability
