// Package metrics counts refresh outcomes and renders them in the Prometheus
// text exposition format.
package metrics
