/*
Package observability turns engine lifecycle hooks into Prometheus metrics and
structured audit logs.

Both are plain domain.LifecycleHooks and can be combined with domain.ChainHooks
before being handed to the engines. NewTracerProvider exports the per-state spans
as JSON lines.
*/
package observability
