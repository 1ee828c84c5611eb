// Package version exposes build metadata injected via ldflags and a
// cobra `version` subcommand shared by all roomguard binaries.
package version
