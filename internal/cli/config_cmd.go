package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/example/outpass/internal/config"
	"github.com/example/outpass/internal/wire"
)

// ConfigCmd returns the config command.
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the desk configuration file",
	}
	cmd.AddCommand(configInitCmd())
	cmd.AddCommand(configShowCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			baseURL, _ := cmd.Flags().GetString("base-url")

			path, err := wire.ConfigPath()
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists at %s\nHint: use --force to overwrite", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to check config: %w", err)
			}

			cfg := config.Default()
			if baseURL != "" {
				cfg.API.BaseURL = baseURL
			}
			if officer, _ := cmd.Flags().GetString("officer"); officer != "" {
				cfg.Officer = officer
			}

			if err := config.Save(path, cfg); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote config to %s\n", path)
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Overwrite an existing config file")
	cmd.Flags().String("base-url", "", "Backend base URL")
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration (token masked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := wire.Config()
			if err != nil {
				return err
			}
			path, _ := wire.ConfigPath()

			shown := *cfg
			if shown.API.Token != "" {
				shown.API.Token = "********"
			}
			shown.API.TimeoutRaw = shown.API.Timeout.String()
			shown.Poll.BoardIntervalRaw = shown.Poll.BoardInterval.String()
			shown.Poll.ActivityIntervalRaw = shown.Poll.ActivityInterval.String()

			data, err := yaml.Marshal(&shown)
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", path)
			fmt.Fprint(out, string(data))
			return nil
		},
	}
}
