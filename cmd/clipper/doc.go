// Package main hosts the clipper CLI.
//
// The Cobra command tree resolves configuration once, wires the stage
// providers, and hands work to the batch coordinator. Subcommands only parse
// flags and render results; planning and enrichment live in internal packages.
package main
