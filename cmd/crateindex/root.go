package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/crateindex/crateindex/internal/errmsg"
	"github.com/crateindex/crateindex/internal/logging"
	"github.com/crateindex/crateindex/internal/profile"
)

var preamble = `crateindex

An indexed catalog of audio files with fuzzy duplicate detection,
template-driven organization, and multi-profile persistence.

crateindex comes with ABSOLUTELY NO WARRANTY. This is free software, and
you are welcome to redistribute it under certain conditions.`

var (
	configPath  string
	profileName string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "crateindex",
	Short: "crateindex music catalog manager",
	Long:  preamble,
}

func init() {
	configPath = defaultConfigPath()
	rootCmd.PersistentFlags().StringVar(&configPath, "config", configPath, "path to the profile configuration file")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "profile name to operate on (defaults to the active profile)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "profiles.toml"
	}
	return filepath.Join(home, ".config", "crateindex", "profiles.toml")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// appContext bundles the components a subcommand needs, bound to the
// profile selected by --profile, or the manager's active profile when
// --profile is not given.
type appContext struct {
	logger  logging.Logger
	manager *profile.Manager
	active  *profile.Profile
}

func newAppContext() (*appContext, error) {
	logger := logging.New(logLevel)

	mgr := profile.NewManager(configPath, logger)
	if err := mgr.Load(); err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpProfileLoad, err))
	}

	active, err := selectProfile(mgr, profileName)
	if err != nil {
		return nil, err
	}

	return &appContext{logger: logger, manager: mgr, active: active}, nil
}

func selectProfile(mgr *profile.Manager, name string) (*profile.Profile, error) {
	if name == "" {
		active, err := mgr.ActiveProfile()
		if err != nil {
			return nil, fmt.Errorf("no active profile (run 'crateindex profile create' first): %w", err)
		}
		return active, nil
	}
	for _, p := range mgr.Profiles() {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no profile named %q", name)
}
