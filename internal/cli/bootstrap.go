// Package cli provides CLI commands for the outpass security desk.
package cli

import (
	gocontext "context"

	"github.com/spf13/cobra"

	"github.com/example/outpass/internal/ctxutil"
	"github.com/example/outpass/internal/wire"
)

// Setup resolves the global flags and hands them to the wire package.
// Should be called once at CLI startup in PersistentPreRunE.
func Setup(cmd *cobra.Command) {
	configPath, _ := cmd.Flags().GetString("config")
	officer, _ := cmd.Flags().GetString("officer")
	wire.Configure(wire.Settings{
		ConfigPath: configPath,
		Officer:    officer,
	})
}

// NewContext creates a context.Background() with the desk officer embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if officer := wire.Officer(); officer != "" {
		return ctxutil.WithOfficer(ctx, officer)
	}
	return ctx
}
