// readtrace: tracing reads through RNA-seq read mapping pipelines.
// Copyright (c) 2021 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/readtrace/blob/master/LICENSE.txt>.

package cmd

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/exascience/readtrace/project"
	"github.com/exascience/readtrace/trace"
)

// TraceHelp is the help string for this command.
const TraceHelp = "\ntrace parameters:\n" +
	"readtrace trace [/path/to/project]\n" +
	"[--libraries lib1,lib2,...]\n" +
	"[--config file]\n" +
	"[--nr-of-threads n]\n" +
	"[--exception-handling report|crash]\n" +
	"[--metrics-file file]\n" +
	"[--timed]\n" +
	"[--log-path path]\n"

// Trace implements the readtrace trace command.
func Trace() error {
	var (
		libraries, configFile, exceptionHandling string
		metricsFile, profile, logPath            string
		nrOfThreads                              int
		timed                                    bool
	)

	var flags flag.FlagSet

	flags.StringVar(&libraries, "libraries", "", "comma-separated read libraries to trace (default all libraries of the project)")
	flags.StringVar(&configFile, "config", "", "project configuration file (default "+project.ConfigFile+" in the project folder)")
	flags.IntVar(&nrOfThreads, "nr-of-threads", -1, "number of libraries to trace in parallel")
	flags.StringVar(&exceptionHandling, "exception-handling", "", "report or crash")
	flags.StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to the specified file")
	flags.BoolVar(&timed, "timed", false, "measure the runtime")
	flags.StringVar(&profile, "profile", "", "write a runtime profile to the specified file(s)")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")

	root, firstFlag := getProjectPath(TraceHelp)
	parseFlags(&flags, firstFlag, TraceHelp)

	setLogOutput(logPath)

	// sanity checks

	var sanityChecksFailed bool

	config, ok := loadConfig(root, configFile)
	if !ok {
		sanityChecksFailed = true
	}
	if nrOfThreads >= 0 {
		config.Threads = nrOfThreads
	} else if nrOfThreads != -1 {
		sanityChecksFailed = true
		log.Println("Error: Invalid nr-of-threads: ", nrOfThreads)
	}
	if exceptionHandling != "" {
		config.ExceptionHandling = exceptionHandling
	}
	if err := config.Validate(); err != nil {
		sanityChecksFailed = true
		log.Println("Error:", err)
	}

	layout := project.NewLayout(root, config)
	if !checkProject(layout) {
		sanityChecksFailed = true
	}
	libs, ok := getLibraries(layout, libraries)
	if !ok {
		sanityChecksFailed = true
	}
	for _, lib := range libs {
		if !checkExist("--libraries", layout.ReadsFile(lib)) {
			sanityChecksFailed = true
		}
	}
	if !checkCreate("", layout.SummaryFile()) {
		sanityChecksFailed = true
	}
	if metricsFile != "" && !checkCreate("--metrics-file", metricsFile) {
		sanityChecksFailed = true
	}
	if profile != "" && !checkCreate("--profile", profile) {
		sanityChecksFailed = true
	}

	if sanityChecksFailed {
		fmt.Fprint(os.Stderr, TraceHelp)
		os.Exit(1)
	}

	// executing command

	log.Println("Executing command:\n", "readtrace trace", root,
		"--nr-of-threads", config.NrOfThreads(), "--exception-handling", config.Policy())

	var metrics *trace.Metrics
	if metricsFile != "" {
		metrics = trace.NewMetrics()
	}

	builder := trace.NewBuilder(layout, log.Default())
	var results []trace.Result
	timedRun(timed, profile, "Tracing read libraries.", 1, func() {
		results = trace.TraceLibraries(builder, libs, config.NrOfThreads(), config.Policy(), metrics)
	})

	failures := trace.Failures(results)
	for _, result := range results {
		if result.Skipped {
			log.Printf("Library %v skipped after failure.\n", result.Library)
		}
	}

	if metrics != nil {
		if err := metrics.WriteFile(metricsFile); err != nil {
			return err
		}
	}

	if len(failures) > 0 && config.Policy() == trace.CrashOnFailure {
		return fmt.Errorf("library %v failed: %w", failures[0].Library, failures[0].Err)
	}

	var err error
	timedRun(timed, profile, "Writing read tracing summary.", 2, func() {
		err = trace.WriteSummaryFile(layout.SummaryFile(), trace.Summaries(results))
	})
	if err != nil {
		return err
	}
	log.Println("Summary written to", layout.SummaryFile())

	if len(failures) > 0 {
		reportFailures(failures)
		log.Printf("%v of %v libraries failed.\n", len(failures), len(libs))
		os.Exit(1)
	}
	return nil
}
