package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/outpass/internal/cli"
	"github.com/example/outpass/internal/version"
	"github.com/example/outpass/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "outpass",
		Short:   "Outpass - hostel security desk for student departures and returns",
		Version: version.String(),
		Long: `outpass is the security desk CLI for hostel outpasses.
It shows which approved students may leave, which students are overdue,
and marks departures and returns against the hostel backend.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.Setup(cmd)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.outpass/config.yaml)")
	rootCmd.PersistentFlags().String("officer", "", "Officer name recorded in the journal")

	// Boards
	rootCmd.AddCommand(cli.DeparturesCmd())
	rootCmd.AddCommand(cli.ReturnsCmd())
	rootCmd.AddCommand(cli.ShowCmd())
	rootCmd.AddCommand(cli.ActivityCmd())
	rootCmd.AddCommand(cli.WatchCmd())

	// Transitions
	rootCmd.AddCommand(cli.DepartCmd())
	rootCmd.AddCommand(cli.ReturnCmd())

	// Local state
	rootCmd.AddCommand(cli.JournalCmd())
	rootCmd.AddCommand(cli.ConfigCmd())

	err := rootCmd.Execute()
	if cerr := wire.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
