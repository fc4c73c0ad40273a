package blame

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformedRecord is returned when a header line has the right shape but
// carries values git never emits.
var ErrMalformedRecord = errors.New("malformed blame record")

const (
	headerFields = 4

	// Summary lines carry full commit subjects.
	initialLineSize = 64 * 1024
	maxLineSize     = 1 << 20
)

type parserState int

const (
	stateAwaitingHeader parserState = iota
	stateAccumulating
	stateComplete
)

// Parser pulls Records off an incremental blame stream one at a time.
// It is not safe for concurrent use.
type Parser struct {
	scanner *bufio.Scanner
	state   parserState
	err     error
}

// NewParser creates a Parser reading from r.
func NewParser(r io.Reader) *Parser {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialLineSize), maxLineSize)

	return &Parser{scanner: scanner, state: stateAwaitingHeader}
}

// Next returns the next complete record. It returns io.EOF at the end of the
// stream, including when the stream stops in the middle of a record.
func (p *Parser) Next() (*Record, error) {
	if p.err != nil {
		return nil, p.err
	}

	var rec *Record

	for p.scanner.Scan() {
		line := p.scanner.Text()

		switch p.state {
		case stateAwaitingHeader:
			header, ok, err := parseHeader(line)
			if err != nil {
				return nil, p.finish(err)
			}

			if !ok {
				return nil, p.finish(io.EOF)
			}

			rec = header
			p.state = stateAccumulating
		case stateAccumulating:
			key, value := splitMeta(line)
			rec.Meta[key] = value

			if key == KeyFilename {
				p.state = stateComplete
			}
		}

		if p.state == stateComplete {
			p.state = stateAwaitingHeader

			return rec, nil
		}
	}

	scanErr := p.scanner.Err()
	if scanErr != nil {
		return nil, p.finish(fmt.Errorf("read blame stream: %w", scanErr))
	}

	return nil, p.finish(io.EOF)
}

func (p *Parser) finish(err error) error {
	p.err = err

	return err
}

// parseHeader decodes "<commit> <source-line> <result-line> <lines>".
// A line with fewer than four fields reports ok=false.
func parseHeader(line string) (*Record, bool, error) {
	fields := strings.Fields(line)
	if len(fields) < headerFields {
		return nil, false, nil
	}

	nums := [headerFields - 1]int{}

	for i := range nums {
		n, err := strconv.Atoi(fields[i+1])
		if err != nil {
			return nil, false, fmt.Errorf("%w: %q: %w", ErrMalformedRecord, line, err)
		}

		nums[i] = n
	}

	if nums[2] < 1 {
		return nil, false, fmt.Errorf("%w: %q: non-positive line count", ErrMalformedRecord, line)
	}

	return &Record{
		Commit:     fields[0],
		SourceLine: nums[0],
		ResultLine: nums[1],
		Lines:      nums[2],
		Meta:       make(map[string]string),
	}, true, nil
}

// splitMeta splits "key value" at the first run of whitespace.
func splitMeta(line string) (key, value string) {
	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return line, ""
	}

	return line[:idx], strings.TrimLeft(line[idx:], " \t")
}
