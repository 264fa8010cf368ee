// Package logger wraps zap for the scheduler binaries:
//   - a global sugared logger writing to stderr with a console encoder,
//     so log lines never interleave with the interactive console on stdout,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and configuration,
//   - leveled helpers (Info, InfoKV, ErrorKV and the like).
//
// Every service extracts its logger from the context, so fields attached
// by callers follow the request into the engine.
package logger
