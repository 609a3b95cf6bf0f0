// Package metrics owns the Prometheus collectors for the HTTP surface, the
// NeoWs feed client and the feed cache.
package metrics
