// Package config loads and validates the YAML configuration file and builds
// the application logger from it.
//
// Every setting has a documented default, so a minimal config file only needs
// to override what differs. Configuration problems are fatal and reported
// before any network activity starts.
package config
