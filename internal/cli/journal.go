package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/outpass/internal/wire"
)

// JournalCmd returns the journal command.
func JournalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List transitions recorded by this desk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outpassID, _ := cmd.Flags().GetString("outpass")
			limit, _ := cmd.Flags().GetInt("limit")

			adapter, err := wire.JournalAdapter()
			if err != nil {
				return err
			}
			return adapter.List(NewContext(), outpassID, limit)
		},
	}
	cmd.Flags().String("outpass", "", "Only entries for this outpass")
	cmd.Flags().IntP("limit", "n", 20, "Maximum entries to show (0 for all)")
	return cmd
}
