// cigarco: coordinate transformation along CIGAR alignments.
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
// <https://github.com/ExaScience/cigarco/blob/master/LICENSE.txt>.

package cmd

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/exascience/cigarco/coords"
	"github.com/exascience/cigarco/mapping"
)

// TransformHelp is the help string for this command.
const TransformHelp = "transform parameters:\n" +
	"cigarco transform alignments-file queries-file output-file|-\n" +
	"[--error-mode I|R|F]\n" +
	"[--nr-of-threads nr]\n" +
	"[--timed]\n" +
	"[--profile file]\n" +
	"[--log-path path]\n" +
	"[--metrics-addr host:port]\n"

func loadAlignments(filename string, registry *mapping.Registry, mode coords.ErrorMode) (err error) {
	pathname, err := filepath.Abs(filename)
	if err != nil {
		return err
	}
	input, err := os.Open(pathname)
	if err != nil {
		return err
	}
	defer func() {
		nerr := input.Close()
		if err == nil {
			err = nerr
		}
	}()
	stats, err := coords.LoadAlignments(input, registry, mode)
	log.Printf("Registered %v alignment records for %v query sequences, %v records failed.\n", stats.Processed, registry.Len(), stats.Failed)
	return err
}

func transformQueries(queriesFile, outputFile string, registry *mapping.Registry, mode coords.ErrorMode) (err error) {
	pathname, err := filepath.Abs(queriesFile)
	if err != nil {
		return err
	}
	input, err := os.Open(pathname)
	if err != nil {
		return err
	}
	defer func() {
		nerr := input.Close()
		if err == nil {
			err = nerr
		}
	}()
	output := os.Stdout
	if outputFile != stdoutName {
		if pathname, err = filepath.Abs(outputFile); err != nil {
			return err
		}
		if output, err = os.Create(pathname); err != nil {
			return err
		}
		defer func() {
			nerr := output.Close()
			if err == nil {
				err = nerr
			}
		}()
	}
	stats, err := coords.TransformQueries(input, output, registry, mode)
	log.Printf("Transformed %v queries, %v queries failed.\n", stats.Processed, stats.Failed)
	return err
}

func logAbort(err error, input string) {
	var lerr *coords.LineError
	if errors.As(err, &lerr) {
		log.Printf("Exiting because of an error in the %v and error mode set to 'F'. To skip or report such errors, use --error-mode I or R.\n", input)
	}
}

// Transform implements the cigarco transform command.
func Transform() error {
	var (
		errorModeString string
		nrOfThreads     int
		timed           bool
		profile         string
		logPath         string
		metricsAddr     string
	)

	var flags flag.FlagSet

	flags.StringVar(&errorModeString, "error-mode", "R", "handling of invalid records and queries: I(gnore), R(eport), or F(ail)")
	flags.IntVar(&nrOfThreads, "nr-of-threads", 0, "number of worker threads")
	flags.BoolVar(&timed, "timed", false, "measure the runtime")
	flags.StringVar(&profile, "profile", "", "write a runtime profile to the specified file(s)")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics at the given address")

	files := parseCommandLine(&flags, 3, TransformHelp)
	alignmentsFile, queriesFile, outputFile := files[0], files[1], files[2]

	setLogOutput(logPath)

	// sanity checks

	var sanityChecksFailed bool

	if !checkInput("alignments file", alignmentsFile) {
		sanityChecksFailed = true
	}
	if !checkInput("queries file", queriesFile) {
		sanityChecksFailed = true
	}
	if !checkOutput("output file", outputFile) {
		sanityChecksFailed = true
	}
	if profile != "" && !checkOutput("profile file", profile+"1.prof") {
		sanityChecksFailed = true
	}

	errorMode, err := coords.ParseErrorMode(errorModeString)
	if err != nil {
		sanityChecksFailed = true
		log.Println("Error: Invalid error-mode: ", errorModeString)
	}

	if nrOfThreads < 0 {
		sanityChecksFailed = true
		log.Println("Error: Invalid nr-of-threads: ", nrOfThreads)
	}

	if sanityChecksFailed {
		usage(TransformHelp)
	}

	// building output command line

	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " transform ", alignmentsFile, " ", queriesFile, " ", outputFile)
	fmt.Fprint(&command, " --error-mode ", errorMode)

	if nrOfThreads > 0 {
		runtime.GOMAXPROCS(nrOfThreads)
		fmt.Fprint(&command, " --nr-of-threads ", nrOfThreads)
	}

	if timed {
		fmt.Fprint(&command, " --timed")
	}

	if profile != "" {
		fmt.Fprint(&command, " --profile ", profile)
	}

	if logPath != "" {
		fmt.Fprint(&command, " --log-path ", logPath)
	}

	if metricsAddr != "" {
		fmt.Fprint(&command, " --metrics-addr ", metricsAddr)
		serveMetrics(metricsAddr)
	}

	// executing command

	log.Println("Executing command:\n", command.String())

	registry := mapping.NewRegistry()

	err = timedRun(timed, profile, "Reading alignment records.", 1, func() error {
		return loadAlignments(alignmentsFile, registry, errorMode)
	})
	if err != nil {
		logAbort(err, "alignment records")
		return err
	}

	err = timedRun(timed, profile, "Building alignment indices.", 2, func() error {
		registry.Prepare()
		return nil
	})
	if err != nil {
		return err
	}

	err = timedRun(timed, profile, "Transforming coordinates.", 3, func() error {
		return transformQueries(queriesFile, outputFile, registry, errorMode)
	})
	if err != nil {
		logAbort(err, "transformation queries")
	}
	return err
}
