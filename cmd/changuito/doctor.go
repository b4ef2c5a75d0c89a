package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"changuito/internal/deps"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the external tools voice capture depends on",
		RunE: func(cmd *cobra.Command, args []string) error {
			ok := printStatus("pw-record", deps.CheckPwRecord(), "required for voice capture")
			printStatus("notify-send", deps.CheckNotifySend(), "only needed for desktop notifications")
			if !ok {
				return fmt.Errorf("missing required dependencies")
			}
			return nil
		},
	}
}

func printStatus(name string, s deps.Status, hint string) bool {
	if s.Installed {
		version := s.Version
		if version == "" {
			version = s.Path
		}
		fmt.Printf("[x] %s - %s\n", name, version)
		return true
	}
	fmt.Printf("[ ] %s - not found (%s)\n", name, hint)
	return false
}
