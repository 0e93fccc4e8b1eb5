/*
Package observability turns execution envelope events into metrics and logs.

Both Metrics.Hooks and LogHooks return domain.Hooks, which can be merged and passed to
fluent.WithHooks.
*/
package observability
