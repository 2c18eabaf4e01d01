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

// SummarizeHelp is the help string for this command.
const SummarizeHelp = "\nsummarize parameters:\n" +
	"readtrace summarize [/path/to/project]\n" +
	"[--libraries lib1,lib2,...]\n" +
	"[--output file]\n" +
	"[--config file]\n" +
	"[--log-path path]\n"

// Summarize implements the readtrace summarize command.
func Summarize() error {
	var libraries, output, configFile, logPath string

	var flags flag.FlagSet

	flags.StringVar(&libraries, "libraries", "", "comma-separated read libraries to summarize (default all libraries of the project)")
	flags.StringVar(&output, "output", "", "summary file (default "+project.ReportsFolder+"/"+project.TracingSummaryFile+" in the project folder)")
	flags.StringVar(&configFile, "config", "", "project configuration file (default "+project.ConfigFile+" in the project folder)")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")

	root, firstFlag := getProjectPath(SummarizeHelp)
	parseFlags(&flags, firstFlag, SummarizeHelp)

	setLogOutput(logPath)

	// sanity checks

	var sanityChecksFailed bool

	config, ok := loadConfig(root, configFile)
	if !ok {
		sanityChecksFailed = true
	}
	layout := project.NewLayout(root, config)
	if !checkProject(layout) {
		sanityChecksFailed = true
	}
	libs, ok := getLibraries(layout, libraries)
	if !ok {
		sanityChecksFailed = true
	}
	if output == "" {
		output = layout.SummaryFile()
	}
	if !checkCreate("--output", output) {
		sanityChecksFailed = true
	}

	if sanityChecksFailed {
		fmt.Fprint(os.Stderr, SummarizeHelp)
		os.Exit(1)
	}

	// executing command

	log.Println("Executing command:\n", "readtrace summarize", root, "--output", output)

	summaries, failures := trace.SummarizeLibraries(layout, libs)
	if err := trace.WriteSummaryFile(output, summaries); err != nil {
		return err
	}
	log.Println("Summary written to", output)

	if len(failures) > 0 {
		reportFailures(failures)
		os.Exit(1)
	}
	return nil
}
