// Package formats provides parsers for the Wavefront OBJ geometry format and
// its MTL material library companion.
//
// Both parsers are line oriented and forgiving: malformed lines are skipped
// and reported as Warning values on the result, and only failure to read the
// primary file is returned as an error.
package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/objview/pkg/encoding"
)

// Format errors.
var (
	ErrEmptyPath      = errors.New("empty path")
	ErrTooFewFields   = errors.New("too few fields")
	ErrZeroIndex      = errors.New("index 0 is not valid, indices start at 1")
	ErrFaceTooSmall   = errors.New("face needs at least 3 vertices")
	ErrNoOpenMaterial = errors.New("no newmtl before directive")
)

// maxLineSize bounds a single line; large faces can exceed bufio's default 64KB.
const maxLineSize = 4 << 20

// LoadOptions controls how files are opened.
type LoadOptions struct {
	// Encoding names the character set of the file ("" means UTF-8).
	Encoding string
}

// LoadError is returned when a file cannot be opened or read at all.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Warning describes a line that was skipped or only partially understood.
type Warning struct {
	Line int
	Msg  string
}

// String returns the warning as "line N: msg".
func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Msg)
}

// IsOBJPath reports whether path names an existing regular file with an .obj extension.
func IsOBJPath(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".obj") {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// openText opens path and wraps it in a decoder for opts.Encoding.
func openText(path string, opts LoadOptions) (io.Reader, func() error, error) {
	if path == "" {
		return nil, nil, &LoadError{Path: path, Err: ErrEmptyPath}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &LoadError{Path: path, Err: err}
	}
	r, err := encoding.NewReader(f, opts.Encoding)
	if err != nil {
		f.Close()
		return nil, nil, &LoadError{Path: path, Err: err}
	}
	return r, f.Close, nil
}

// scanDirectives calls fn for every non-blank, non-comment line with the
// directive keyword and the remainder of the line (trimmed).
func scanDirectives(r io.Reader, fn func(line int, keyword, rest string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if line == 1 {
			text = strings.TrimPrefix(text, "\uFEFF")
		}
		if text == "" || text[0] == '#' {
			continue
		}
		keyword, rest := text, ""
		if i := strings.IndexAny(text, " \t"); i >= 0 {
			keyword, rest = text[:i], strings.TrimSpace(text[i+1:])
		}
		fn(line, keyword, rest)
	}
	return scanner.Err()
}

// parseFloats parses between lo and hi leading fields as finite float32
// values. NaN and infinities are rejected.
// Fields beyond hi are ignored.
func parseFloats(fields []string, lo, hi int) ([]float32, error) {
	if len(fields) < lo {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrTooFewFields, len(fields), lo)
	}
	n := len(fields)
	if n > hi {
		n = hi
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("invalid number %q", fields[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
