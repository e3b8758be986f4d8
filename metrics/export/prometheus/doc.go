// Package prometheus provides Prometheus collectors for goCred metrics.
//
// [NewPrometheusExporter] accepts a [goCred.Engine] and exposes an [http.Handler]
// that renders all goCred rotation counters in Prometheus text exposition format.
// Counter names are prefixed gocred_*_total.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
