package reader

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"
)

// terminator appended to every filtered line on the character path. The
// line-oriented source strips terminators, so the character stream restores
// them; the final line of a source receives one as well, whether or not the
// source ended with one.
const terminator = "\r\n"

// Reader adapts a line-oriented source into a filtering reader: lines matched
// by its Config are discarded transparently, and the survivors are exposed
// either whole via ReadLine or as a character stream via ReadRune/PeekRune.
//
// A Reader is not safe for concurrent use. The line and character paths share
// one cursor: ReadLine first drains the unread remainder of a line partially
// consumed by ReadRune before fetching the next filtered line.
type Reader struct {
	src LineSource
	cfg *Config

	// current filtered line plus terminator, and the read cursor into it
	buf string
	pos int

	eof       bool
	closed    bool
	closeOnce sync.Once
	closeErr  error
}

// New returns a Reader over an already-open line source. The Reader assumes
// responsibility for releasing the source: if src implements io.Closer it is
// closed by Close. A nil cfg selects a fresh pass-through configuration;
// otherwise the Reader keeps the supplied pointer and consults it on every
// line, so the caller may adjust rules between reads.
func New(src LineSource, cfg *Config) (*Reader, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Reader{src: src, cfg: cfg}, nil
}

// Open opens the file at path and returns a Reader over it. The file is owned
// by the Reader and released by Close. Open fails with ErrBlankPath when path
// is empty or whitespace-only; errors from opening the file are returned
// untranslated.
func Open(path string, cfg *Config) (*Reader, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrBlankPath
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return New(NewSource(f), cfg)
}

// Config returns the live filter configuration consulted on every line fetch.
func (r *Reader) Config() *Config {
	return r.cfg
}

// ReadLine returns the next line that survives filtering, without its
// terminator, or ("", io.EOF) once the source is exhausted. If the character
// path left the current line partially consumed, ReadLine returns the unread
// remainder of that line instead of fetching a new one.
func (r *Reader) ReadLine() (string, error) {
	if r.closed {
		return "", ErrClosed
	}
	if r.pos < len(r.buf) {
		content := r.buf[:len(r.buf)-len(terminator)]
		rest := ""
		if r.pos < len(content) {
			rest = content[r.pos:]
		}
		r.buf, r.pos = "", 0
		return rest, nil
	}
	return r.nextLine()
}

// ReadRune returns and consumes the next character of the filtered stream.
// Each surviving line contributes its characters followed by "\r\n". At the
// end of the source it returns (0, 0, io.EOF). It implements io.RuneReader.
func (r *Reader) ReadRune() (rune, int, error) {
	if r.closed {
		return 0, 0, ErrClosed
	}
	if err := r.fill(); err != nil {
		return 0, 0, err
	}
	c, size := utf8.DecodeRuneInString(r.buf[r.pos:])
	r.pos += size
	return c, size, nil
}

// PeekRune returns the next character of the filtered stream without
// consuming it. Repeated calls without an intervening read return the same
// result.
func (r *Reader) PeekRune() (rune, int, error) {
	if r.closed {
		return 0, 0, ErrClosed
	}
	if err := r.fill(); err != nil {
		return 0, 0, err
	}
	c, size := utf8.DecodeRuneInString(r.buf[r.pos:])
	return c, size, nil
}

// Close releases the underlying source exactly once. Further calls are no-ops
// returning the first result; further reads fail with ErrClosed.
func (r *Reader) Close() error {
	r.closeOnce.Do(func() {
		r.closed = true
		if c, ok := r.src.(io.Closer); ok {
			r.closeErr = c.Close()
		}
	})
	return r.closeErr
}

// fill loads the next filtered line into the character buffer when the
// current one is spent.
func (r *Reader) fill() error {
	if r.pos < len(r.buf) {
		return nil
	}
	line, err := r.nextLine()
	if err != nil {
		return err
	}
	r.buf = line + terminator
	r.pos = 0
	return nil
}

// nextLine pulls raw lines from the source until one survives the skip rules.
// The loop terminates because the source itself is finite: exhaustion
// surfaces as io.EOF even when every remaining line is discarded.
func (r *Reader) nextLine() (string, error) {
	if r.eof {
		return "", io.EOF
	}
	for {
		line, err := r.src.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.eof = true
			}
			return "", err
		}
		if r.cfg.TrimLines {
			line = strings.TrimSpace(line)
		}
		if r.cfg.skip(line) {
			continue
		}
		return line, nil
	}
}
