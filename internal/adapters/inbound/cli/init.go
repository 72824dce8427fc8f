package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codequal/codequal/internal/adapters/outbound/config"
	"github.com/codequal/codequal/internal/domain"
)

func newInitCmd() *cobra.Command {
	var (
		lang  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .codequal.yaml configuration file",
		Long:  "Create a .codequal.yaml holding the default thresholds for the chosen language.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := resolvePath(args)
			if err != nil {
				return err
			}

			dest := filepath.Join(absPath, config.FileName)
			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
			}

			l, err := domain.ParseLanguage(lang)
			if err != nil {
				return err
			}
			cfg := domain.DefaultConfig()
			cfg.Language = l

			content, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			if err := os.WriteFile(dest, content, 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "python", "Language of the project (python, go)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing .codequal.yaml")

	return cmd
}
