package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/outpass/internal/wire"
)

// DeparturesCmd returns the departures command.
func DeparturesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "departures",
		Short: "Show approved outpasses and their departure window",
		Long: `Show the departure board: approved outpasses with their departure window.

The window opens 24h before leave start and closes 24h after it. Departure
can be marked while the window is open.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.OutpassAdapter()
			if err != nil {
				return err
			}
			return adapter.Departures(NewContext())
		},
	}
}

// ReturnsCmd returns the returns command.
func ReturnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "returns",
		Short: "Show active outpasses and whether they are on time, overdue or expired",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.OutpassAdapter()
			if err != nil {
				return err
			}
			return adapter.Returns(NewContext())
		},
	}
}

// ShowCmd returns the show command.
func ShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [outpass-id]",
		Short: "Show one outpass and the check for its next action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.OutpassAdapter()
			if err != nil {
				return err
			}
			return adapter.Show(NewContext(), args[0])
		},
	}
}

// ActivityCmd returns the activity command.
func ActivityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activity",
		Short: "Show today's departures, returns and expected returns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.OutpassAdapter()
			if err != nil {
				return err
			}
			return adapter.Activity(NewContext())
		},
	}
}
