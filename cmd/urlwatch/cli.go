package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/urlwatch"
)

// Dependencies holds configuration and services for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Config *urlwatch.Config
	Logger *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config   string `short:"c" default:"config.yaml" help:"Path to the configuration file"`
	LogLevel string `default:"info" enum:"debug,info,warn,error" help:"Log verbosity"`

	Run   RunCmd   `cmd:"" help:"Run one discovery pass across all configured sources"`
	Stats StatsCmd `cmd:"" help:"Print per-source store statistics"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	DryRun bool `help:"Discover and print without persisting or sending mail"`
	NoMail bool `help:"Persist new URLs but skip the email report"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}
