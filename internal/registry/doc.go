// Package registry is the coordination store used as the cluster's source of
// truth for proxy instance and data source status.
//
// Keys are slash separated paths forming a tree. Every key lives inside a
// namespace, so several clusters can share one backing database. The layout of
// the paths and the disabled marker literal are shared with the proxies that
// read the same registry and must not change.
package registry
