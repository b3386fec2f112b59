package mol2

import (
	"bufio"
	"io"
)

// LineSource yields input lines one at a time.  ok is false once the input is
// exhausted; a non-nil err aborts the parse.
type LineSource interface {
	Next() (line string, ok bool, err error)
}

// maxLineSize bounds a single MOL2 line.  Real files stay well under 1 KiB.
const maxLineSize = 1 << 20

type scannerSource struct {
	sc *bufio.Scanner
}

// NewScannerSource reads lines lazily from r.
func NewScannerSource(r io.Reader) LineSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &scannerSource{sc: sc}
}

func (s *scannerSource) Next() (string, bool, error) {
	if s.sc.Scan() {
		return s.sc.Text(), true, nil
	}
	if err := s.sc.Err(); err != nil {
		return "", false, err
	}
	return "", false, nil
}

type sliceSource struct {
	lines []string
	pos   int
}

// NewSliceSource serves already-buffered lines.
func NewSliceSource(lines []string) LineSource {
	return &sliceSource{lines: lines}
}

func (s *sliceSource) Next() (string, bool, error) {
	if s.pos >= len(s.lines) {
		return "", false, nil
	}
	line := s.lines[s.pos]
	s.pos++
	return line, true, nil
}
