// Package project defines the Context that drives template rendering together
// with the closed option sets (mixins, frontend packages and features, CI
// modes) the collector offers.
package project
