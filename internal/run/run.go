/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package run wires the kernel together: collection, the scheduler's phase
sequence, persistence and the run report. This is the "analyze project"
entry point surrounding layers (the CLI, a migration engine embedding the
kernel) call.

The phase sequence is fixed:

 1. file-level detection (multi-pass over files),
 2. collection of class and package nodes from the detected files,
 3. multi-pass over files to fixpoint,
 3½. global file inspectors,
 4. multi-pass over classes to fixpoint,
 5. global class inspectors,

then persistence into the embedded store and the report. Collection and
inspection errors accumulate on the report and do not stop the run unless
the configured error budget is exceeded; configuration errors stop it
before phase 1.
*/
package run

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"jgraph/internal/collect"
	"jgraph/internal/graphmodel"
	"jgraph/internal/graphutil"
	"jgraph/internal/inspect"
	"jgraph/internal/inspectors"
	"jgraph/internal/jlog"
	"jgraph/internal/repository"
	"jgraph/internal/store"
)

var log = jlog.Get(jlog.ScopeRun)

/*
Options configures one analysis run. ProjectRoot is the only required
field.
*/
type Options struct {
	ProjectRoot string

	// DatabasePath overrides the default {ProjectRoot}/.analysis/graph.db.
	DatabasePath string

	// Inspectors restricts the run to the named inspectors; empty runs
	// the full core set. Unknown names are a configuration error.
	Inspectors []string

	// MaxPasses bounds each multi-pass phase; <= 0 uses the default.
	MaxPasses int

	// PackageFilters restricts collected classes to those whose package
	// equals, or lives under, one of the given prefixes. Empty keeps
	// everything.
	PackageFilters []string

	// ExcludePatterns are path globs (relative to ProjectRoot) removed
	// from file collection.
	ExcludePatterns []string

	// ErrorBudget fails the run once more than this many collection plus
	// inspection errors accumulate. 0 means unbounded.
	ErrorBudget int

	// ReportPath overrides the default {ProjectRoot}/.analysis/run-report.json.
	ReportPath string

	// SkipPersist leaves the store untouched; the run produces only the
	// in-memory snapshot and the report.
	SkipPersist bool

	// Pool overrides the inspector pool, for callers registering their
	// own inspectors. Nil uses inspectors.Default().
	Pool []inspect.Inspector
}

func (o *Options) databasePath() string {
	if o.DatabasePath != "" {
		return o.DatabasePath
	}
	return filepath.Join(o.ProjectRoot, ".analysis", "graph.db")
}

func (o *Options) reportPath() string {
	if o.ReportPath != "" {
		return o.ReportPath
	}
	return filepath.Join(o.ProjectRoot, ".analysis", "run-report.json")
}

/*
Result is what a completed run hands back: the stable snapshot the query
surface is built over, and the report.
*/
type Result struct {
	Snapshot *repository.Snapshot
	Repo     *repository.Repository
	Report   *Report
}

/*
Run executes one full analysis of opts.ProjectRoot. The report is written
to disk on every path, including fatal ones; the returned error is nil
exactly when the report says Success. A cancelled context surfaces as
graphutil.ErrCancelled with the in-memory state preserved in Result and
nothing persisted.
*/
func Run(ctx context.Context, opts Options) (*Result, error) {
	report := &Report{
		RunID:       uuid.NewString(),
		ProjectRoot: opts.ProjectRoot,
		StartedAt:   time.Now().UTC(),
	}
	repo := repository.New()
	result := &Result{Repo: repo, Report: report}

	err := analyze(ctx, opts, repo, report)

	report.FinishedAt = time.Now().UTC()
	snap := repo.Snapshot()
	result.Snapshot = snap
	report.NodeCount = len(snap.Nodes())
	report.EdgeCount = len(snap.Edges())

	switch {
	case errors.Is(err, graphutil.ErrCancelled):
		report.Cancelled = true
	case err != nil:
		report.FatalError = err.Error()
	case opts.ErrorBudget > 0 && report.errorCount() > opts.ErrorBudget:
		err = fmt.Errorf("error budget exceeded: %d errors, budget %d", report.errorCount(), opts.ErrorBudget)
		report.FatalError = err.Error()
	}
	report.Success = err == nil

	if err == nil && !opts.SkipPersist {
		if perr := persist(ctx, opts, snap); perr != nil {
			report.FatalError = perr.Error()
			report.Success = false
			err = perr
		}
	}

	if werr := report.Write(opts.reportPath()); werr != nil {
		log.Error("could not write run report: ", werr)
	}
	return result, err
}

// analyze runs collection and every scheduler phase against repo. It
// returns only fatal errors; per-input and per-node failures land on the
// report.
func analyze(ctx context.Context, opts Options, repo *repository.Repository, report *Report) error {
	if opts.ProjectRoot == "" {
		return graphutil.NewConfigurationError("project root is required", nil)
	}

	pool := opts.Pool
	if pool == nil {
		pool = inspectors.Default()
	}
	selected, err := selectInspectors(pool, opts.Inspectors)
	if err != nil {
		return err
	}

	sched, err := inspect.NewScheduler(opts.MaxPasses, selected...)
	if err != nil {
		return err
	}

	ictx := &inspect.Context{Std: ctx, Repo: repo}
	schedReport := &inspect.Report{}
	maxPasses := opts.MaxPasses
	if maxPasses <= 0 {
		maxPasses = inspect.DefaultMaxPasses
	}

	// collection of files, then phase 1: file-level detection
	collectFiles(opts, repo, report)
	if _, err := sched.RunPhase(ictx, repo, graphmodel.NodeTypeFile, maxPasses, "file detection", schedReport); err != nil {
		report.absorb(schedReport)
		return err
	}

	// phase 2: class and package collection from detected files
	collectClasses(opts, repo, report)

	// phases 3 and 3.5: files to fixpoint, then global file inspectors
	if _, err := sched.RunPhase(ictx, repo, graphmodel.NodeTypeFile, maxPasses, "files", schedReport); err != nil {
		report.absorb(schedReport)
		return err
	}
	if err := sched.RunGlobalPhase(ictx, repo, graphmodel.NodeTypeFile, schedReport); err != nil {
		report.absorb(schedReport)
		return err
	}

	// phases 4 and 5: classes to fixpoint, then global class inspectors
	if _, err := sched.RunPhase(ictx, repo, graphmodel.NodeTypeClass, maxPasses, "classes", schedReport); err != nil {
		report.absorb(schedReport)
		return err
	}
	if err := sched.RunGlobalPhase(ictx, repo, graphmodel.NodeTypeClass, schedReport); err != nil {
		report.absorb(schedReport)
		return err
	}

	report.absorb(schedReport)
	return nil
}

// selectInspectors validates requested names against the pool and filters
// it. An unknown name is a configuration error naming the known set.
func selectInspectors(pool []inspect.Inspector, names []string) ([]inspect.Inspector, error) {
	if len(names) == 0 {
		return pool, nil
	}
	known := make(map[string]bool, len(pool))
	knownNames := make([]string, 0, len(pool))
	for _, insp := range pool {
		known[insp.Descriptor().Name] = true
		knownNames = append(knownNames, insp.Descriptor().Name)
	}
	sort.Strings(knownNames)
	for _, name := range names {
		if !known[name] {
			return nil, graphutil.NewConfigurationError(fmt.Sprintf(
				"unknown inspector %q (known: %s)", name, strings.Join(knownNames, ", ")), nil)
		}
	}
	return inspectors.Select(pool, names), nil
}

func collectFiles(opts Options, repo *repository.Repository, report *Report) {
	c := collect.NewSourceFileCollector()
	c.ExcludeGlobs = opts.ExcludePatterns

	cctx := &collect.CollectionContext{Repo: repo, ProjectRoot: opts.ProjectRoot}
	files, result := c.Collect(cctx, opts.ProjectRoot)
	report.addCollectionErrors(result.Errors)

	for _, f := range files {
		if err := repo.AddNode(f); err != nil {
			report.CollectionErrors = append(report.CollectionErrors, err.Error())
		}
	}
	log.Info("collected ", len(files), " files from ", opts.ProjectRoot)
}

// collectClasses routes detected files to the class collectors and adds
// the resulting class nodes, package nodes and nothing else - edges are
// inspector work.
func collectClasses(opts Options, repo *repository.Repository, report *Report) {
	cctx := &collect.CollectionContext{Repo: repo, ProjectRoot: opts.ProjectRoot}

	source := collect.NewJavaSourceCollector()
	defer source.Close()
	binary := collect.NewBinaryClassCollector()

	var classes []*graphmodel.JavaClassNode
	for _, n := range repo.NodesOfType(graphmodel.NodeTypeFile) {
		f, ok := n.(*graphmodel.ProjectFile)
		if !ok {
			continue
		}
		if n.HasTag(inspectors.TagLanguageJava) && source.CanCollect(f) {
			found, result := source.Collect(cctx, f)
			report.addCollectionErrors(result.Errors)
			classes = append(classes, found...)
		}
		if (n.HasTag(inspectors.TagJavaBytecode) || n.HasTag(inspectors.TagJavaArchive)) && binary.CanCollect(f) {
			found, result := binary.Collect(cctx, f)
			report.addCollectionErrors(result.Errors)
			classes = append(classes, found...)
		}
	}

	pkgs := make(map[string]bool)
	added := 0
	for _, cls := range classes {
		if !packageMatches(cls.Package, opts.PackageFilters) {
			continue
		}
		if err := repo.AddNode(cls); err != nil {
			report.CollectionErrors = append(report.CollectionErrors, err.Error())
			continue
		}
		added++
		if cls.Package != "" && !pkgs[cls.Package] {
			pkgs[cls.Package] = true
			if _, exists := repo.GetNode(cls.Package); !exists {
				if err := repo.AddNode(graphmodel.NewPackageNode(cls.Package)); err != nil {
					report.CollectionErrors = append(report.CollectionErrors, err.Error())
				}
			}
		}
	}
	log.Info("collected ", added, " classes in ", len(pkgs), " packages")
}

// packageMatches applies the package filters: exact match or dotted
// prefix.
func packageMatches(pkg string, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, f := range filters {
		if pkg == f || strings.HasPrefix(pkg, f+".") {
			return true
		}
	}
	return false
}

func persist(ctx context.Context, opts Options, snap *repository.Snapshot) error {
	path := opts.databasePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return graphutil.NewStorageError(graphutil.StoragePersistFailed, "create analysis directory", err)
	}
	st, err := store.Open(ctx, path)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Persist(ctx, snap)
}
