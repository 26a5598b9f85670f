package commands

import (
	"os"
	"path/filepath"

	"github.com/colonyops/docsync/internal/core/config"
	"github.com/colonyops/docsync/internal/core/eventbus"
	"github.com/colonyops/docsync/pkg/utils"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Bus is started in the Before hook and stopped in After
	Bus *eventbus.EventBus

	// LogHold is the stderr log writer when no log file is configured. It is
	// held while the preview owns the terminal.
	LogHold *utils.DeferredWriter
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "docsync", "config.yaml")
}
