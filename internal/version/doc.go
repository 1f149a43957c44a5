// Package version exposes build metadata injected through -ldflags.
package version
