// Package main is the entry point for the issuebot CLI.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/runoshun/issuebot/internal/app"
	"github.com/runoshun/issuebot/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// Create dependency injection container
	container, err := app.New(configPathFromArgs(args))
	if err != nil {
		// Allow help, version and offline commands with a broken config
		if canRunWithoutConfig(args) {
			rootCmd := cli.NewRootCommand(nil, version)
			rootCmd.SetArgs(args)
			return rootCmd.Execute()
		}
		return fmt.Errorf("failed to initialize: %w", err)
	}

	// Create and execute root command
	rootCmd := cli.NewRootCommand(container, version)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// configPathFromArgs returns the value of the --config flag, which must be
// known before the container is built.
func configPathFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v
		}
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func canRunWithoutConfig(args []string) bool {
	if len(args) == 0 {
		return true
	}
	for _, arg := range args {
		if arg == "--version" || arg == "-v" || arg == "--help" || arg == "-h" {
			return true
		}
	}
	var positional []string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--config":
			i++
		case strings.HasPrefix(args[i], "-"):
		default:
			positional = append(positional, args[i])
		}
	}
	if len(positional) == 0 {
		return true
	}
	switch positional[0] {
	case "help", "card":
		return true
	case "config":
		return len(positional) > 1 && positional[1] == "template"
	}
	return false
}
