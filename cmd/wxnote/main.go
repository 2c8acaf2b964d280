// wxnote - WeChat to Notion note relay
// License: MIT
//
// Copyright (c) 2026 wxnote contributors

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/zhaopengme/wxnote/pkg/config"
)

var (
	version   = "dev"
	gitCommit string
	buildTime string
	goVersion string
)

const logo = "📝"

// versionInfo renders the version block shown by "version" and "status".
// The git commit and build time are only present in release builds.
func versionInfo() string {
	var b strings.Builder
	b.WriteString(version)
	if gitCommit != "" {
		fmt.Fprintf(&b, " (git: %s)", gitCommit)
	}
	if buildTime != "" {
		fmt.Fprintf(&b, "\n  Build: %s", buildTime)
	}
	goVer := goVersion
	if goVer == "" {
		goVer = runtime.Version()
	}
	fmt.Fprintf(&b, "\n  Go: %s", goVer)
	return b.String()
}

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "gateway", "serve":
		gatewayCmd()
	case "status":
		statusCmd()
	case "version", "--version", "-v":
		fmt.Printf("%s wxnote %s\n", logo, versionInfo())
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Printf("%s wxnote - WeChat to Notion note relay v%s\n\n", logo, version)
	fmt.Println("Usage: wxnote <command> [-c config.yaml]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  gateway     Start the webhook server")
	fmt.Println("  status      Show configuration status")
	fmt.Println("  version     Show version information")
}

// getConfigPath resolves -c/--config, then WXNOTE_CONFIG, then ~/.wxnote/config.yaml.
func getConfigPath() string {
	args := os.Args[2:]
	for i := 0; i < len(args); i++ {
		if (args[i] == "-c" || args[i] == "--config") && i+1 < len(args) {
			return args[i+1]
		}
	}
	if p := os.Getenv("WXNOTE_CONFIG"); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".wxnote", "config.yaml")
}

func loadConfig() (*config.Config, error) {
	return config.LoadConfig(getConfigPath())
}
