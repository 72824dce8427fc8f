package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/codequal/codequal/internal/domain"
	"github.com/codequal/codequal/internal/domain/fix"
)

// ErrNotGitWorkTree is returned by Fix when the project is not under git
// and the run is neither forced nor a dry run.
var ErrNotGitWorkTree = errors.New("not inside a git work tree (use --force to fix anyway)")

// FixService orchestrates the fix pipeline:
// load config → collect files → run transforms per file → write changed files.
type FixService struct {
	collector    domain.FileCollector
	configLoader domain.ConfigLoader
	sources      domain.SourceStore
	git          domain.GitInfo
}

func NewFixService(
	collector domain.FileCollector,
	configLoader domain.ConfigLoader,
	sources domain.SourceStore,
	git domain.GitInfo,
) *FixService {
	return &FixService{
		collector:    collector,
		configLoader: configLoader,
		sources:      sources,
		git:          git,
	}
}

// Pipeline builds the transform pipeline a run with opts would use.
func (s *FixService) Pipeline(cfg domain.ProjectConfig, opts domain.FixOptions) (*fix.Pipeline, error) {
	only := opts.Only
	if opts.Docstrings {
		if len(only) == 0 {
			only = cfg.EnabledTransforms()
		}
		only = append(append([]string(nil), only...), domain.TransformDocstrings)
	}
	return fix.NewPipeline(cfg, only)
}

// Fix rewrites every collected file whose transformed content differs from
// the original. Files are processed sequentially; each write is atomic but
// the batch is not. A per-file failure is recorded in its FixResult.
func (s *FixService) Fix(ctx context.Context, projectPath string, opts domain.FixOptions) (*domain.FixSummary, error) {
	cfg, err := s.configLoader.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.Language != "" {
		cfg.Language = opts.Language
	}

	if !opts.DryRun && !opts.Force && s.git != nil && !s.git.InWorkTree(projectPath) {
		return nil, ErrNotGitWorkTree
	}

	pipeline, err := s.Pipeline(cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("building fix pipeline: %w", err)
	}

	excludes := append(append([]string(nil), cfg.ExcludePaths...), opts.Excludes...)
	scan, err := s.collector.Collect(projectPath, cfg.Language, excludes...)
	if err != nil {
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	summary := &domain.FixSummary{Root: scan.RootPath, DryRun: opts.DryRun}
	for _, fe := range scan.Errors {
		summary.Results = append(summary.Results, domain.FixResult{File: fe.File, Err: fe.Err})
	}

	for _, path := range scan.Files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Results = append(summary.Results, s.fixFile(scan.RootPath, path, pipeline, opts.DryRun))
	}

	slog.Debug("fix complete", "files", len(scan.Files), "changed", summary.ChangedFiles(), "dry_run", opts.DryRun)
	return summary, nil
}

func (s *FixService) fixFile(root, path string, pipeline *fix.Pipeline, dryRun bool) domain.FixResult {
	res := domain.FixResult{File: path}

	src, err := readSource(s.sources, root, path)
	if err != nil {
		slog.Warn("skipping unreadable file", "file", path, "error", err)
		res.Err = err.Error()
		return res
	}

	out := pipeline.Run(string(src.Content))
	if !out.Changed {
		return res
	}
	res.Changed = true
	res.Applied = out.Applied
	res.Transforms = out.Transforms

	if dryRun {
		return res
	}
	if err := s.sources.WriteAtomic(src.AbsPath, []byte(out.Content)); err != nil {
		slog.Warn("write failed", "file", path, "error", err)
		res.Err = err.Error()
		res.Changed = false
	}
	return res
}
