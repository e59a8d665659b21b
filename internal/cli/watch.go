package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/outpass/internal/adapters/cli"
	"github.com/example/outpass/internal/wire"
)

const clearScreen = "\033[H\033[2J"

// watchViews maps each watchable view to its renderer.
var watchViews = map[string]func(a *cliadapter.OutpassAdapter, ctx context.Context) error{
	"departures": (*cliadapter.OutpassAdapter).Departures,
	"returns":    (*cliadapter.OutpassAdapter).Returns,
	"activity":   (*cliadapter.OutpassAdapter).Activity,
}

// WatchCmd returns the watch command.
func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "watch [departures|returns|activity]",
		Short:     "Keep a board on screen, refreshing on an interval",
		Long:      "Re-fetch and re-classify a board on an interval until Ctrl-C.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"departures", "returns", "activity"},
		RunE: func(cmd *cobra.Command, args []string) error {
			view := args[0]
			interval, _ := cmd.Flags().GetDuration("interval")
			noClear, _ := cmd.Flags().GetBool("no-clear")

			c, err := wire.Config()
			if err != nil {
				return err
			}
			if interval == 0 {
				interval = c.Poll.BoardInterval
				if view == "activity" {
					interval = c.Poll.ActivityInterval
				}
			}

			ctx, stop := signal.NotifyContext(NewContext(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			refresh := watchRefresh(view, interval, !noClear, os.Stdout)
			return wire.Refresher(view, interval, refresh).Run(ctx)
		},
	}
	cmd.Flags().Duration("interval", 0, "Refresh interval (default from poll config)")
	cmd.Flags().Bool("no-clear", false, "Append each refresh instead of clearing the screen")
	return cmd
}

// watchRefresh renders a view into a buffer and writes it in one piece,
// so a failed fetch leaves the previous board on screen.
func watchRefresh(view string, interval time.Duration, clearFirst bool, out io.Writer) func(ctx context.Context) error {
	render := watchViews[view]
	return func(ctx context.Context) error {
		var buf bytes.Buffer
		adapter, err := wire.OutpassAdapterWithOutput(&buf)
		if err != nil {
			return err
		}
		if err := render(adapter, ctx); err != nil {
			return err
		}

		if clearFirst {
			fmt.Fprint(out, clearScreen)
		}
		fmt.Fprintf(out, "outpass %s  (every %s, updated %s, Ctrl-C to stop)\n",
			view, interval, time.Now().Format("15:04:05"))
		_, err = buf.WriteTo(out)
		return err
	}
}
