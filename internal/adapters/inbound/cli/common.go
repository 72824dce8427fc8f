package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codequal/codequal/internal/adapters/outbound/cache"
	"github.com/codequal/codequal/internal/adapters/outbound/config"
	"github.com/codequal/codequal/internal/adapters/outbound/gitinfo"
	"github.com/codequal/codequal/internal/adapters/outbound/history"
	"github.com/codequal/codequal/internal/adapters/outbound/parser"
	"github.com/codequal/codequal/internal/adapters/outbound/scanner"
	"github.com/codequal/codequal/internal/adapters/outbound/sourcefs"
	"github.com/codequal/codequal/internal/application"
	"github.com/codequal/codequal/internal/domain"
)

func resolvePath(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return absPath, nil
}

func configLoader() domain.ConfigLoader {
	if configFile != "" {
		return config.NewWithPath(configFile)
	}
	return config.New()
}

func newAnalyzeService() *application.AnalyzeService {
	return application.NewAnalyzeService(
		scanner.New(),
		parser.ForLanguage,
		configLoader(),
		sourcefs.New(),
	).
		WithCache(func(root string) domain.AnalysisCache { return cache.New(root) }).
		WithHistory(history.New()).
		WithGit(gitinfo.New())
}

func newFixService() *application.FixService {
	return application.NewFixService(scanner.New(), configLoader(), sourcefs.New(), gitinfo.New())
}

// scanFlags are shared by every command that collects files.
type scanFlags struct {
	excludes []string
	lang     string
	jobs     int
	noCache  bool
}

func (f *scanFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.excludes, "exclude", nil, "Exclude paths containing this substring (repeatable)")
	cmd.Flags().StringVar(&f.lang, "lang", "", "Language to analyze (python, go); overrides the config")
	cmd.Flags().IntVar(&f.jobs, "jobs", 0, "Parallel workers (default: number of CPUs)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "Do not read or write the analysis cache")
}

func (f *scanFlags) options() (application.AnalyzeOptions, error) {
	opts := application.AnalyzeOptions{
		Excludes: f.excludes,
		Jobs:     f.jobs,
		NoCache:  f.noCache,
	}
	if f.lang != "" {
		lang, err := domain.ParseLanguage(f.lang)
		if err != nil {
			return opts, err
		}
		opts.Language = lang
	}
	return opts, nil
}

// topN returns the --top flag when set, the config value otherwise.
func topN(cmd *cobra.Command, flag int, cfg domain.ProjectConfig) int {
	if cmd.Flags().Changed("top") {
		return flag
	}
	return cfg.TopN
}
