package coords

import (
	"bufio"
	"io"
	"log"

	"github.com/exascience/pargo/pipeline"

	"github.com/exascience/cigarco/internal"
	"github.com/exascience/cigarco/mapping"
)

const (
	minBatchSize = 1024
	maxBatchSize = 65536
)

// Stats counts the lines a run processed successfully and the lines
// that failed.
type Stats struct {
	Processed, Failed int
}

// handleLineError returns nil if processing can continue with the
// next line.
func handleLineError(mode ErrorMode, err *LineError) error {
	switch mode {
	case Ignore:
		return nil
	case Report:
		log.Println("Error:", err)
		return nil
	default:
		return err
	}
}

type parsedAlignment struct {
	line      string
	alignment mapping.Alignment
	err       error
}

// LoadAlignments adds all alignment records from reader to the
// registry, in file order, so that a later record for the same query
// name replaces an earlier one. Lines are parsed and validated in
// parallel.
//
// Lines that cannot be parsed are handled according to mode. In Abort
// mode, LoadAlignments returns the *LineError of the first failing
// line; all records before it are registered.
func LoadAlignments(reader io.Reader, registry *mapping.Registry, mode ErrorMode) (stats Stats, err error) {
	log.Println("Adding alignment records to the mapping registry.")
	var (
		p          pipeline.Pipeline
		lineNumber int
		aborted    bool
	)
	p.Source(pipeline.NewScanner(reader))
	p.SetVariableBatchSize(minBatchSize, maxBatchSize)
	p.Add(
		pipeline.LimitedPar(0, pipeline.Receive(func(_ int, data interface{}) interface{} {
			lines := data.([]string)
			parsed := make([]parsedAlignment, len(lines))
			for i, line := range lines {
				parsed[i].line = line
				parsed[i].alignment, parsed[i].err = ParseAlignmentLine(line)
			}
			return parsed
		})),
		pipeline.Ord(pipeline.Receive(func(_ int, data interface{}) interface{} {
			if aborted {
				return data
			}
			for _, entry := range data.([]parsedAlignment) {
				lineNumber++
				if entry.err != nil {
					stats.Failed++
					if herr := handleLineError(mode, &LineError{"alignment", lineNumber, entry.line, entry.err}); herr != nil {
						aborted = true
						p.SetErr(herr)
						break
					}
					continue
				}
				registry.Add(entry.alignment)
				stats.Processed++
			}
			return data
		})),
	)
	p.Run()
	return stats, p.Err()
}

type transformation struct {
	line   string
	query  mapping.TransformationQuery
	result mapping.TransformedResult
	err    error
}

// TransformQueries transforms all queries from reader with the given
// registry, and writes one result line per successful query to
// writer. Queries are transformed in parallel, but results are written
// in input order.
//
// Queries that cannot be parsed, name an unknown query sequence, or
// have an out-of-range coordinate are handled according to mode. In
// Abort mode, TransformQueries returns the *LineError of the first
// failing query, and writes no results for queries after it.
func TransformQueries(reader io.Reader, writer io.Writer, registry *mapping.Registry, mode ErrorMode) (stats Stats, err error) {
	log.Println("Processing coordinate transformation queries.")
	var (
		p          pipeline.Pipeline
		lineNumber int
		aborted    bool
	)
	output := bufio.NewWriter(writer)
	p.Source(pipeline.NewScanner(reader))
	p.SetVariableBatchSize(minBatchSize, maxBatchSize)
	p.Add(
		pipeline.LimitedPar(0, pipeline.Receive(func(_ int, data interface{}) interface{} {
			lines := data.([]string)
			transformations := make([]transformation, len(lines))
			for i, line := range lines {
				t := &transformations[i]
				t.line = line
				if t.query, t.err = ParseQueryLine(line); t.err == nil {
					t.result, t.err = registry.TransformQuery(t.query)
				}
			}
			return transformations
		})),
		pipeline.Ord(pipeline.Receive(func(_ int, data interface{}) interface{} {
			if aborted {
				return data
			}
			buf := internal.ReserveByteBuffer()
			defer func() {
				internal.ReleaseByteBuffer(buf)
			}()
			for _, t := range data.([]transformation) {
				lineNumber++
				if t.err != nil {
					stats.Failed++
					if herr := handleLineError(mode, &LineError{"query", lineNumber, t.line, t.err}); herr != nil {
						aborted = true
						p.SetErr(herr)
						break
					}
					continue
				}
				buf = FormatResult(buf, t.query, t.result)
				stats.Processed++
			}
			if _, werr := output.Write(buf); werr != nil {
				p.SetErr(werr)
			}
			return data
		})),
	)
	p.Run()
	ferr := output.Flush()
	if err = p.Err(); err == nil {
		err = ferr
	}
	return stats, err
}
