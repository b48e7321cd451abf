package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crateindex/crateindex/internal/errmsg"
	"github.com/crateindex/crateindex/internal/logging"
	"github.com/crateindex/crateindex/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage named catalog profiles",
}

var profileCreateDBPath string

var profileCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if profileCreateDBPath == "" {
			return fmt.Errorf("--db is required")
		}

		mgr := profile.NewManager(configPath, logging.New(logLevel))
		if err := mgr.Load(); err != nil {
			return errors.New(errmsg.Format(errmsg.OpProfileLoad, err))
		}

		p, err := mgr.CreateProfile(args[0], profileCreateDBPath, nil)
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpProfileCreate, err))
		}

		fmt.Printf("created profile %q (%s) backed by %s\n", p.Name, p.ID, p.DatabasePath)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known profiles, marking the active one",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := profile.NewManager(configPath, logging.New(logLevel))
		if err := mgr.Load(); err != nil {
			return errors.New(errmsg.Format(errmsg.OpProfileLoad, err))
		}

		active, _ := mgr.ActiveProfile()
		for _, p := range mgr.Profiles() {
			marker := " "
			if active != nil && active.ID == p.ID {
				marker = "*"
			}
			fmt.Printf("%s %-20s %s\n", marker, p.Name, p.DatabasePath)
		}
		return nil
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Switch the active profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := profile.NewManager(configPath, logging.New(logLevel))
		if err := mgr.Load(); err != nil {
			return errors.New(errmsg.Format(errmsg.OpProfileLoad, err))
		}

		target, err := selectProfile(mgr, args[0])
		if err != nil {
			return err
		}
		if err := mgr.SetActive(target.ID); err != nil {
			return errors.New(errmsg.Format(errmsg.OpProfileSwitch, err))
		}

		fmt.Printf("active profile is now %q\n", target.Name)
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a profile (fails if it is the only remaining one)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := profile.NewManager(configPath, logging.New(logLevel))
		if err := mgr.Load(); err != nil {
			return errors.New(errmsg.Format(errmsg.OpProfileLoad, err))
		}

		target, err := selectProfile(mgr, args[0])
		if err != nil {
			return err
		}
		if err := mgr.DeleteProfile(target.ID); err != nil {
			return errors.New(errmsg.Format(errmsg.OpProfileDelete, err))
		}

		fmt.Printf("deleted profile %q\n", target.Name)
		return nil
	},
}

func init() {
	profileCreateCmd.Flags().StringVar(&profileCreateDBPath, "db", "", "absolute path to the profile's database file (required)")
	profileCmd.AddCommand(profileCreateCmd, profileListCmd, profileUseCmd, profileDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}
