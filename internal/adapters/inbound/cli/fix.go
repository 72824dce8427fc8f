package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codequal/codequal/internal/adapters/outbound/tui"
	"github.com/codequal/codequal/internal/domain"
)

func newFixCmd() *cobra.Command {
	var (
		dryRun     bool
		force      bool
		docstrings bool
		only       []string
		excludes   []string
		lang       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "fix [path]",
		Short: "Apply safe, idempotent rewrites to source files",
		Long: "Trim trailing whitespace, collapse blank lines, space top-level definitions and\n" +
			"wrap long imports. Files are rewritten in place, atomically, only when their\n" +
			"content changes. Refuses to run outside a git work tree unless --force is given.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := resolvePath(args)
			if err != nil {
				return err
			}

			opts := domain.FixOptions{
				DryRun:     dryRun,
				Force:      force,
				Docstrings: docstrings,
				Only:       only,
				Excludes:   excludes,
			}
			if lang != "" {
				l, err := domain.ParseLanguage(lang)
				if err != nil {
					return err
				}
				opts.Language = l
			}

			if !jsonOutput {
				fmt.Fprint(cmd.ErrOrStderr(), tui.RenderFixWarning(dryRun))
			}

			summary, err := newFixService().Fix(cmd.Context(), absPath, opts)
			if err != nil {
				return fmt.Errorf("fix failed: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderFixSummary(summary))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")
	cmd.Flags().BoolVar(&force, "force", false, "Run even outside a git work tree")
	cmd.Flags().BoolVar(&docstrings, "docstrings", false, "Also insert placeholder docstrings into public functions")
	cmd.Flags().StringArrayVar(&only, "only", nil, "Run only this transform (repeatable): "+strings.Join(domain.AllTransforms, ", "))
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil, "Exclude paths containing this substring (repeatable)")
	cmd.Flags().StringVar(&lang, "lang", "", "Language to fix (python, go); overrides the config")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the fix summary as JSON")

	return cmd
}
