package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/outpass/internal/core/outpass"
	"github.com/example/outpass/internal/ports/secondary"
	"github.com/example/outpass/internal/wire"
)

// DepartCmd returns the depart command.
func DepartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "depart [outpass-id]",
		Short: "Mark a student's departure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comments, _ := cmd.Flags().GetString("comments")

			adapter, err := wire.OutpassAdapter()
			if err != nil {
				return err
			}
			return withHint(adapter.Depart(NewContext(), args[0], comments))
		},
	}
	cmd.Flags().StringP("comments", "c", "", "Desk comments for the departure")
	return cmd
}

// ReturnCmd returns the return command.
func ReturnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "return [outpass-id]",
		Short: "Mark a student's return",
		Long: `Mark a student's return.

Returns after the expected return time, or more than 24h after departure,
need a reason (--reason). Without one nothing is submitted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comments, _ := cmd.Flags().GetString("comments")
			reason, _ := cmd.Flags().GetString("reason")

			adapter, err := wire.OutpassAdapter()
			if err != nil {
				return err
			}
			return withHint(adapter.Return(NewContext(), args[0], comments, reason))
		},
	}
	cmd.Flags().StringP("comments", "c", "", "Desk comments for the return")
	cmd.Flags().StringP("reason", "r", "", "Reason for a late return")
	return cmd
}

// withHint appends a next step to errors the officer can act on.
func withHint(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, outpass.ErrMissingReason):
		return fmt.Errorf("%w\nHint: re-run with --reason \"...\"", err)
	case errors.Is(err, secondary.ErrTransitionConflict):
		return fmt.Errorf("%w\nHint: the outpass was updated elsewhere; run 'outpass show' to see its current state", err)
	case errors.Is(err, secondary.ErrUnauthorized):
		return fmt.Errorf("%w\nHint: check api.token in the config file or OUTPASS_API_TOKEN", err)
	}
	return err
}
