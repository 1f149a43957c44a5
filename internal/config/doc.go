// Package config defines the daemon and CLI settings and provides helpers to
// load, validate and save them in YAML format.
package config
