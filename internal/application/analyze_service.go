package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codequal/codequal/internal/domain"
	"github.com/codequal/codequal/internal/domain/rules"
	"github.com/codequal/codequal/internal/domain/scoring"
)

// InspectorFactory returns the syntax inspector for a language.
type InspectorFactory func(domain.Language) domain.SyntaxInspector

// CacheFactory opens the analysis cache of a project root.
type CacheFactory func(projectPath string) domain.AnalysisCache

// AnalyzeOptions are per-run overrides of the project config.
type AnalyzeOptions struct {
	Language  domain.Language
	Excludes  []string
	Jobs      int
	NoCache   bool
	NoHistory bool
}

// AnalyzeService orchestrates the analysis pipeline:
// load config → collect files → inspect and scan each file in parallel →
// aggregate → score → record history.
type AnalyzeService struct {
	collector    domain.FileCollector
	inspectors   InspectorFactory
	configLoader domain.ConfigLoader
	sources      domain.SourceStore

	cacheFor CacheFactory
	history  domain.ScoreHistory
	git      domain.GitInfo
	now      func() time.Time
}

func NewAnalyzeService(
	collector domain.FileCollector,
	inspectors InspectorFactory,
	configLoader domain.ConfigLoader,
	sources domain.SourceStore,
) *AnalyzeService {
	return &AnalyzeService{
		collector:    collector,
		inspectors:   inspectors,
		configLoader: configLoader,
		sources:      sources,
		now:          time.Now,
	}
}

// WithCache enables the per-file result cache.
func (s *AnalyzeService) WithCache(f CacheFactory) *AnalyzeService {
	s.cacheFor = f
	return s
}

// WithHistory records one entry per run.
func (s *AnalyzeService) WithHistory(h domain.ScoreHistory) *AnalyzeService {
	s.history = h
	return s
}

// WithGit stamps reports with the HEAD commit.
func (s *AnalyzeService) WithGit(g domain.GitInfo) *AnalyzeService {
	s.git = g
	return s
}

// Config loads the project config and applies the run overrides.
func (s *AnalyzeService) Config(projectPath string, opts AnalyzeOptions) (domain.ProjectConfig, error) {
	cfg, err := s.configLoader.Load(projectPath)
	if err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("loading config: %w", err)
	}
	if opts.Language != "" {
		cfg.Language = opts.Language
	}
	cfg.ExcludePaths = append(append([]string(nil), cfg.ExcludePaths...), opts.Excludes...)
	return cfg, nil
}

// Analyze scans projectPath and returns the aggregated report. Per-file read
// errors are recorded in the report; only configuration errors and
// cancellation are returned.
func (s *AnalyzeService) Analyze(ctx context.Context, projectPath string, opts AnalyzeOptions) (*domain.QualityReport, error) {
	cfg, err := s.Config(projectPath, opts)
	if err != nil {
		return nil, err
	}

	scan, err := s.collector.Collect(projectPath, cfg.Language, cfg.ExcludePaths...)
	if err != nil {
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	slog.Debug("collected files", "root", scan.RootPath, "files", len(scan.Files), "language", cfg.Language)

	var cache domain.AnalysisCache
	if s.cacheFor != nil && !opts.NoCache {
		cache = s.cacheFor(scan.RootPath)
	}

	results, err := s.analyzeFiles(ctx, scan, cfg, cache, opts.Jobs)
	if err != nil {
		return nil, err
	}

	b := scoring.NewReportBuilder(scan.RootPath, cfg)
	for _, fe := range scan.Errors {
		b.AddError(fe.File, errors.New(fe.Err))
	}
	for i, path := range scan.Files {
		r := results[i]
		if r.err != nil {
			b.AddError(path, r.err)
			continue
		}
		b.AddResult(r.result)
	}

	report := b.Build(s.now())
	if s.git != nil {
		if hash, err := s.git.CommitHash(scan.RootPath); err == nil {
			report.CommitHash = hash
		} else {
			slog.Debug("no commit hash", "error", err)
		}
	}

	if s.history != nil && !opts.NoHistory {
		if err := s.history.Save(scan.RootPath, domain.NewHistoryEntry(report)); err != nil {
			slog.Debug("saving history failed", "error", err)
		}
	}
	return report, nil
}

type fileOutcome struct {
	result *domain.FileResult
	err    error
}

// analyzeFiles runs the per-file stage on a bounded worker pool. Each worker
// writes only its own slot, so results stay in collection order.
func (s *AnalyzeService) analyzeFiles(ctx context.Context, scan *domain.ScanResult, cfg domain.ProjectConfig, cache domain.AnalysisCache, jobs int) ([]fileOutcome, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]fileOutcome, len(scan.Files))
	if len(scan.Files) == 0 {
		return results, nil
	}

	inspector := s.inspectors(cfg.Language)
	lineScanner := rules.NewScanner(cfg)
	fingerprint := cfg.Fingerprint()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(scan.Files)))

	for i, path := range scan.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			src, err := readSource(s.sources, scan.RootPath, path)
			if err != nil {
				slog.Warn("skipping unreadable file", "file", path, "error", err)
				results[i] = fileOutcome{err: err}
				return nil
			}

			var key string
			if cache != nil {
				key = domain.CacheKey(path, src.Content, fingerprint)
				if cached, ok := cache.Get(key); ok {
					results[i] = fileOutcome{result: cached}
					return nil
				}
			}

			res := AnalyzeContent(src, cfg, inspector, lineScanner)
			if cache != nil {
				if err := cache.Put(key, res); err != nil {
					slog.Debug("cache write failed", "file", path, "error", err)
				}
			}
			results[i] = fileOutcome{result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// AnalyzeContent runs the inspector, the structural checks and the line rules
// over one file's content.
func AnalyzeContent(src domain.SourceFile, cfg domain.ProjectConfig, inspector domain.SyntaxInspector, lineScanner *rules.Scanner) *domain.FileResult {
	facts := inspector.Inspect(src.Path, src.Content)
	findings := scoring.Derive(facts, src.Content, cfg)
	findings = append(findings, lineScanner.Scan(src.Path, src.Content)...)
	return &domain.FileResult{Path: src.Path, Facts: facts, Findings: findings}
}

func readSource(store domain.SourceStore, root, path string) (domain.SourceFile, error) {
	abs := filepath.Join(root, filepath.FromSlash(path))
	content, err := store.Read(abs)
	if err != nil {
		return domain.SourceFile{}, err
	}
	return domain.SourceFile{Path: path, AbsPath: abs, Content: content}, nil
}

// CheckFile analyzes a single file of a project with the project's config.
// The file path may be absolute or relative to projectPath.
func (s *AnalyzeService) CheckFile(projectPath, file string) (*domain.QualityReport, error) {
	cfg, err := s.Config(projectPath, AnalyzeOptions{})
	if err != nil {
		return nil, err
	}

	abs := file
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(projectPath, file)
	}
	content, err := s.sources.Read(abs)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}

	rel := filepath.ToSlash(file)
	if r, err := filepath.Rel(projectPath, abs); err == nil {
		rel = filepath.ToSlash(r)
	}
	if lang, ok := languageOf(abs); ok {
		cfg.Language = lang
	}

	b := scoring.NewReportBuilder(projectPath, cfg)
	src := domain.SourceFile{Path: rel, AbsPath: abs, Content: content}
	b.AddResult(AnalyzeContent(src, cfg, s.inspectors(cfg.Language), rules.NewScanner(cfg)))
	return b.Build(s.now()), nil
}

func languageOf(path string) (domain.Language, bool) {
	for _, l := range domain.ValidLanguages {
		if filepath.Ext(path) == l.Extension() {
			return l, true
		}
	}
	return "", false
}
