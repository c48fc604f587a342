// Package client provides a small HTTP client for the cadence daemon's
// local API. The CLI subcommands use it so that only the daemon process
// ever opens the bolt database.
package client
