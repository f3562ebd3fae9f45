// Package config holds the process-wide configuration, loaded once at
// startup and read-only afterwards.
package config
