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
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sys/unix"

	"github.com/exascience/cigarco/internal"
	"github.com/exascience/cigarco/mapping"
	"github.com/exascience/cigarco/utils"
)

// ProgramMessage is the first line printed when the cigarco binary is
// called.
var ProgramMessage string

// RunID identifies this run in log files.
var RunID = uuid.New()

func init() {
	ProgramMessage = fmt.Sprint(
		"\n", utils.ProgramName, " version ", utils.ProgramVersion,
		" compiled with ", runtime.Version(), " - see ", utils.ProgramURL, " for more information.\n",
	)
}

// HelpMessage is printed to show the --help flag
const HelpMessage = "Print command details:\n" +
	"[--help]\n"

// stdoutName as output file name selects standard output.
const stdoutName = "-"

func usage(help string, v ...interface{}) {
	if len(v) > 0 {
		fmt.Fprintln(os.Stderr, v...)
	}
	fmt.Fprint(os.Stderr, help)
	os.Exit(1)
}

// parseCommandLine returns the file names that follow the command name
// in os.Args, and parses the flags after them.
func parseCommandLine(flags *flag.FlagSet, nrOfFiles int, help string) []string {
	args := os.Args[2:]
	for _, arg := range args {
		switch arg {
		case "-h", "-help", "--help":
			fmt.Fprint(os.Stderr, help)
			os.Exit(0)
		}
	}
	if len(args) < nrOfFiles {
		usage(help, "Expected", nrOfFiles, "file names, got", len(args))
	}
	files := args[:nrOfFiles]
	for _, file := range files {
		if file == "" || (file != stdoutName && file[0] == '-') {
			usage(help, "Missing file name before", file)
		}
	}
	flags.SetOutput(io.Discard)
	if err := flags.Parse(args[nrOfFiles:]); err != nil {
		usage(help, err)
	}
	if flags.NArg() > 0 {
		usage(help, "Cannot parse remaining parameters:", flags.Args())
	}
	return files
}

// checkInput reports whether filename can be read. The file is
// referred to as what in error messages.
func checkInput(what, filename string) bool {
	switch _, err := os.Stat(filename); {
	case err == nil:
		return true
	case os.IsNotExist(err):
		log.Printf("Error: %v %v does not exist.\n", what, filename)
	case os.IsPermission(err):
		log.Printf("Error: No permission to read %v %v.\n", what, filename)
	default:
		log.Printf("Error: Cannot access %v %v: %v.\n", what, filename, err)
	}
	return false
}

// checkOutput reports whether filename can be created, creating missing
// parent directories on the way.
func checkOutput(what, filename string) bool {
	if filename == stdoutName {
		return true
	}
	if _, err := os.Stat(filename); err == nil {
		// left over from an earlier run, overwritten
		return true
	}
	err := os.MkdirAll(filepath.Dir(filename), 0700)
	if err == nil {
		err = os.WriteFile(filename, nil, 0666)
	}
	if err != nil {
		if os.IsPermission(err) {
			log.Printf("Error: No permission to create %v %v.\n", what, filename)
		} else {
			log.Printf("Error: Cannot create %v %v: %v.\n", what, filename, err)
		}
		return false
	}
	_ = os.Remove(filename)
	return true
}

func createLogFilename() string {
	t := time.Now()
	zone, _ := t.Zone()
	return fmt.Sprintf("logs/cigarco/cigarco-%d-%02d-%02d-%02d-%02d-%02d-%v-%v.log", t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), zone, RunID)
}

func setLogOutput(path string) {
	if path == "" {
		log.Println("Run", RunID)
		return
	}
	fullPath := filepath.Join(path, createLogFilename())
	internal.MkdirAll(filepath.Dir(fullPath), 0700)
	f := internal.FileCreate(fullPath)
	fmt.Fprintln(f, ProgramMessage)

	orgStderr, err := unix.Dup(2)
	if err != nil {
		log.Panic(err)
	}
	ferr := os.NewFile(uintptr(orgStderr), "/dev/stderr")
	if err := unix.Dup2(int(f.Fd()), 2); err != nil {
		log.Panic(err)
	}

	multi := io.MultiWriter(f, ferr)

	log.SetOutput(multi)
	log.Println("Created log file at", fullPath)
	log.Println("Run", RunID)
	log.Println("Command line:", os.Args)
}

func serveMetrics(addr string) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(mapping.Collectors()...)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Println("Warning: metrics endpoint stopped:", err)
		}
	}()
	log.Println("Serving metrics at", addr+"/metrics")
}

func timedRun(timed bool, profile, msg string, phase int64, f func() error) error {
	if profile != "" {
		filename := profile + strconv.FormatInt(phase, 10) + ".prof"
		file := internal.FileCreate(filename)
		defer internal.Close(file)
		if err := pprof.StartCPUProfile(file); err != nil {
			log.Panic(err)
		}
		defer pprof.StopCPUProfile()
	}
	if timed {
		log.Println(msg)
		start := time.Now()
		defer func() {
			end := time.Now()
			log.Println("Elapsed time: ", end.Sub(start))
		}()
	}
	return f()
}
