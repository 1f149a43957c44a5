// Package logger wraps zap to offer:
//   - a global sugared logger with a console encoder,
//   - an optional rotating JSON file sink backed by lumberjack,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and convenience functions (Infof, ErrorKV, etc.).
//
// Services accept a context and log through the logger stored in it, so
// component names and fields follow a call down the stack.
package logger
