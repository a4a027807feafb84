/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
jgraph analyzes a Java codebase - sources and compiled bytecode,
including archives - and produces a persistent, queryable property graph
of files, classes and packages, annotated with tags and metrics. The
graph lands in {project}/.analysis/graph.db; a run report lands next to
it.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/krotik/common/logutil"

	"jgraph/internal/config"
	"jgraph/internal/jlog"
	"jgraph/internal/run"
	"jgraph/internal/version"
)

func main() {
	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)

	project := flag.String("project", ".", "Root directory of the project to analyze")
	db := flag.String("db", "", "Path of the graph database file (default {project}/.analysis/graph.db)")
	inspectorList := flag.String("inspectors", "", "Comma-separated inspector names to run (default all)")
	maxPasses := flag.Int("max-passes", 0, "Maximum passes per multi-pass phase (default 5)")
	packages := flag.String("packages", "", "Comma-separated package prefixes to keep (default all)")
	errorBudget := flag.Int("error-budget", 0, "Fail after this many collection/inspection errors (default unbounded)")
	configFile := flag.String("config", "", "Configuration file (default none; flags only)")
	loglevel := flag.String("loglevel", "Info", "Log level (Debug, Info, Warning, Error)")
	noPersist := flag.Bool("no-persist", false, "Analyze only; do not write the graph database")
	showHelp := flag.Bool("help", false, "Show this help message")

	flag.Usage = func() {
		fmt.Println()
		fmt.Println(fmt.Sprintf("Usage of %s [options]", os.Args[0]))
		fmt.Println()
		flag.PrintDefaults()
		fmt.Println()
	}

	if err := flag.CommandLine.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}
	if *showHelp {
		flag.Usage()
		return
	}

	fmt.Println(fmt.Sprintf("jgraph %v.%v - Java architecture graph analyzer",
		version.VERSION, version.REV))

	jlog.InitConsole(logutil.StringToLoglevel(*loglevel))

	if *configFile != "" {
		if err := config.LoadConfigFile(*configFile); err != nil {
			fmt.Fprintln(os.Stderr, "Could not load configuration:", err)
			os.Exit(1)
		}
	} else {
		config.LoadDefaultConfig()
	}

	// flags override the file-backed configuration
	root, err := filepath.Abs(*project)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Could not resolve project root:", err)
		os.Exit(1)
	}
	config.Config[config.ProjectRoot] = root
	if *db != "" {
		config.Config[config.DatabasePath] = *db
	}
	if *maxPasses > 0 {
		config.Config[config.MaxPasses] = float64(*maxPasses)
	}
	if *inspectorList != "" {
		config.Config[config.Inspectors] = splitList(*inspectorList)
	}
	if *packages != "" {
		config.Config[config.PackageFilters] = splitList(*packages)
	}
	if *errorBudget > 0 {
		config.Config[config.ErrorBudget] = float64(*errorBudget)
	}

	opts := run.Options{
		ProjectRoot:     config.Str(config.ProjectRoot),
		DatabasePath:    config.Str(config.DatabasePath),
		Inspectors:      config.StringSlice(config.Inspectors),
		MaxPasses:       int(config.Int(config.MaxPasses)),
		PackageFilters:  config.StringSlice(config.PackageFilters),
		ExcludePatterns: config.StringSlice(config.ExcludePatterns),
		ErrorBudget:     int(config.Int(config.ErrorBudget)),
		ReportPath:      config.Str(config.ReportPath),
		SkipPersist:     *noPersist,
	}

	// second interrupt kills the process the hard way; the first one
	// lets the current inspector finish its node
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		stop() // restores default signal handling for the next interrupt
	}()

	result, err := run.Run(ctx, opts)

	if result != nil && result.Report != nil {
		printSummary(result.Report)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Analysis failed:", err)
		os.Exit(1)
	}
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func printSummary(r *run.Report) {
	fmt.Println()
	fmt.Println(fmt.Sprintf("Run %s", r.RunID))
	fmt.Println(fmt.Sprintf("    Nodes: %d  Edges: %d", r.NodeCount, r.EdgeCount))
	if n := len(r.CollectionErrors); n > 0 {
		fmt.Println(fmt.Sprintf("    Collection errors: %d", n))
	}
	if n := len(r.InspectionErrors); n > 0 {
		fmt.Println(fmt.Sprintf("    Inspection errors: %d", n))
	}
	if n := len(r.ContractViolations); n > 0 {
		fmt.Println(fmt.Sprintf("    Contract violations: %d", n))
	}
	for _, w := range r.MaxPassesWarnings {
		fmt.Println("    Warning:", w)
	}
}
