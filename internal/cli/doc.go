// Package cli defines the Cobra command tree for create-inventree-plugin. The
// root command runs the scaffolding flow; each other file registers one
// subcommand (version, config, list). Commands delegate to internal packages
// for the work and only handle flags, output formatting and user interaction.
package cli
