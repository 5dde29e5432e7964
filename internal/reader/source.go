package reader

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// LineSource provides lines, without their terminators, from some underlying
// stream. ReadLine returns ("", io.EOF) once the source is exhausted and must
// keep doing so on further calls. A non-empty final line that lacks a
// terminator is returned with a nil error.
type LineSource interface {
	ReadLine() (string, error)
}

// Source is the bundled LineSource over an arbitrary io.Reader. It splits on
// '\n', strips a trailing "\r\n" or "\n" from each line, and keeps a running
// count of raw bytes consumed so callers can checkpoint and resume reads.
type Source struct {
	br     *bufio.Reader
	closer io.Closer
	offset int64
}

// NewSource wraps r in a Source starting at offset zero. When r is an
// io.Closer it is retained and released by Close.
func NewSource(r io.Reader) *Source {
	return NewSourceAt(r, 0)
}

// NewSourceAt wraps r in a Source whose offset accounting starts at offset.
// Use it when r has already been positioned, e.g. after seeking to a stored
// checkpoint, so that Offset stays absolute.
func NewSourceAt(r io.Reader, offset int64) *Source {
	s := &Source{br: bufio.NewReader(r), offset: offset}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// ReadLine returns the next line without its terminator, or ("", io.EOF) when
// the stream is exhausted. Read errors from the underlying reader are
// propagated as-is.
func (s *Source) ReadLine() (string, error) {
	raw, err := s.br.ReadString('\n')
	s.offset += int64(len(raw))
	if err != nil {
		if errors.Is(err, io.EOF) {
			if len(raw) > 0 {
				return trimTerminator(raw), nil
			}
			return "", io.EOF
		}
		return "", err
	}
	return trimTerminator(raw), nil
}

// Offset returns the number of raw bytes consumed from the underlying reader,
// including terminators and lines later discarded by filtering.
func (s *Source) Offset() int64 {
	return s.offset
}

// Close releases the underlying reader when it is an io.Closer; otherwise it
// is a no-op.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func trimTerminator(raw string) string {
	raw = strings.TrimSuffix(raw, "\n")
	return strings.TrimSuffix(raw, "\r")
}
