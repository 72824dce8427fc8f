package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codequal/codequal/internal/adapters/outbound/report"
	"github.com/codequal/codequal/internal/adapters/outbound/tui"
	"github.com/codequal/codequal/internal/domain"
)

func newCheckCmd() *cobra.Command {
	var (
		scan       scanFlags
		jsonOutput bool
		top        int
	)

	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Exit non-zero when any finding is reported",
		Long: "Run the same analysis as analyze without writing a report or history entry.\n" +
			"Exits 0 when there are no findings in any category and 1 otherwise.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := resolvePath(args)
			if err != nil {
				return err
			}
			opts, err := scan.options()
			if err != nil {
				return err
			}
			opts.NoHistory = true

			svc := newAnalyzeService()
			cfg, err := svc.Config(absPath, opts)
			if err != nil {
				return err
			}
			r, err := svc.Analyze(cmd.Context(), absPath, opts)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			if jsonOutput {
				data, err := report.MarshalJSON(r)
				if err != nil {
					return err
				}
				if _, err := cmd.OutOrStdout().Write(data); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(r, topN(cmd, top, cfg)))
			}

			if n := r.TotalFindings(); n > 0 {
				return fmt.Errorf("%d findings", n)
			}
			return nil
		},
	}

	scan.bind(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON instead of the summary")
	cmd.Flags().IntVar(&top, "top", domain.DefaultTopN, "Findings shown per category in the summary")

	return cmd
}
