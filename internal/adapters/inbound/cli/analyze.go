package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codequal/codequal/internal/adapters/outbound/cache"
	"github.com/codequal/codequal/internal/adapters/outbound/report"
	"github.com/codequal/codequal/internal/adapters/outbound/tui"
	"github.com/codequal/codequal/internal/domain"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		scan       scanFlags
		output     string
		sarifPath  string
		jsonOutput bool
		top        int
		noHistory  bool
		clearCache bool
		ciMode     bool
		minScore   float64
	)

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze a source tree and write a quality report",
		Long: "Scan every source file under path, print a summary grouped by category and\n" +
			"write the full report to code_quality_report.json in the project root.",
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
			opts.NoHistory = noHistory

			svc := newAnalyzeService()
			cfg, err := svc.Config(absPath, opts)
			if err != nil {
				return err
			}

			if clearCache {
				if err := cache.New(absPath).Clear(); err != nil {
					return fmt.Errorf("clearing cache: %w", err)
				}
			}

			r, err := svc.Analyze(cmd.Context(), absPath, opts)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			if dest := reportDestination(absPath, output, cfg); dest != "" {
				if err := report.WriteJSON(r, dest); err != nil {
					return err
				}
			}
			if sarifPath != "" {
				if err := report.WriteSARIF(r, sarifPath); err != nil {
					return err
				}
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

			if ciMode && r.QualityScore < minScore {
				return fmt.Errorf("score %s is below minimum %s", tui.FormatScore(r.QualityScore), tui.FormatScore(minScore))
			}
			return nil
		},
	}

	scan.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Report path (default: <path>/code_quality_report.json, \"-\" to skip)")
	cmd.Flags().StringVar(&sarifPath, "sarif", "", "Also write a SARIF 2.1.0 log to this path")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON instead of the summary")
	cmd.Flags().IntVar(&top, "top", domain.DefaultTopN, "Findings shown per category in the summary")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run in .codequal/history.json")
	cmd.Flags().BoolVar(&clearCache, "clear-cache", false, "Drop cached per-file results before analyzing")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 if the score is below --min")
	cmd.Flags().Float64Var(&minScore, "min", 0, "Minimum score for CI mode")

	return cmd
}

// reportDestination resolves where the JSON report goes; "" disables it.
func reportDestination(root, flag string, cfg domain.ProjectConfig) string {
	path := flag
	if path == "" {
		path = cfg.ReportPath
	}
	if path == "" || path == "-" {
		return ""
	}
	if flag == "" && !filepath.IsAbs(path) {
		return filepath.Join(root, path)
	}
	return path
}
