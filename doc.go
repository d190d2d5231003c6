// Package jsonlog builds one JSON object per log statement and hands it to a
// text logging backend (rs/zerolog or go.uber.org/zap).
//
// Key features
//   - Fluent builder: Message, Field, Map, List, JSON and Exception, each
//     with an eager and a deferred (func) form where it makes sense
//   - Deferred values are evaluated once, in call order, and only when the
//     level is enabled
//   - The Mapped Diagnostic Context carried in the context.Context (see
//     package mdc) is nested under "MDC", always as the last key
//   - Output is rendered without HTML escaping, so <, > and & stay readable
//   - Exceptions keep the error for the backend, which enriches it with the
//     error chain (outermost -> root) and the Station-Manager operation ids
//   - Child loggers from Service.With carry fixed fields ahead of each
//     record's own fields; Service.Hook installs zerolog hooks
//   - Service lifecycle with file rotation via lumberjack and a bounded,
//     graceful shutdown that waits for in-flight records
//
// Typical usage
//
//	svc := &jsonlog.Service{WorkingDir: wd, Config: jsonlog.DefaultConfig()}
//	if err := svc.Initialize(); err != nil { panic(err) }
//	defer svc.Close()
//
//	ctx = mdc.With(ctx, "request_id", rid)
//	svc.InfoWith(ctx).Message("processed").Field("user_id", id).Log()
//	svc.ErrorWith(ctx).MessageFunc(expensive).Exception("error", err).Log()
//
//	orders := svc.With().Field("component", "orders").Logger()
//	orders.WarnWith(ctx).Message("stock low").Log()
package jsonlog
