// Package main hosts the clipper CLI entrypoint and command graph.
//
// The Cobra-based command tree covers running the batch pipeline against
// a root folder, dry-run environment checks, run history inspection, and
// configuration scaffolding. It centralizes configuration resolution and
// structured logging setup so subcommands can focus on user experience.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
