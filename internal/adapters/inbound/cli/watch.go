package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/codequal/codequal/internal/adapters/outbound/scanner"
	"github.com/codequal/codequal/internal/adapters/outbound/tui"
	"github.com/codequal/codequal/internal/adapters/outbound/watcher"
	"github.com/codequal/codequal/internal/domain"
)

func newWatchCmd() *cobra.Command {
	var (
		scan     scanFlags
		top      int
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-analyze whenever a source file changes",
		Args:  cobra.MaximumNArgs(1),
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
			n := topN(cmd, top, cfg)

			run := func(ctx context.Context) {
				r, err := svc.Analyze(ctx, absPath, opts)
				if err != nil {
					slog.Error("analysis failed", "error", err)
					return
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(r, n))
			}
			run(cmd.Context())

			ignore := func(rel string) bool { return scanner.Excluded(rel, cfg.ExcludePaths...) }
			w := watcher.New(absPath, cfg.Language.Extension(), ignore).WithDebounce(debounce)
			return w.Run(cmd.Context(), func(ctx context.Context, changed []string) {
				slog.Info("files changed", "count", len(changed), "first", changed[0])
				run(ctx)
			})
		},
	}

	scan.bind(cmd)
	cmd.Flags().IntVar(&top, "top", domain.DefaultTopN, "Findings shown per category in the summary")
	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "Wait this long for changes to settle")

	return cmd
}
