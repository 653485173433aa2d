// Package billing contains the aggregates behind the point-of-sale billing
// pipeline: the in-memory cart assembled on a terminal, the scan events
// relayed from a paired handheld device, the server-side staging cart used
// during checkout, and the immutable bill produced when a checkout confirms.
package billing
