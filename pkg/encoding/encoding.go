// Package encoding decodes model text files written in legacy character sets.
//
// Exporters on older systems often write material names and texture paths in
// the local code page (EUC-KR, Shift_JIS, Windows-1252, ...). Decoding them to
// UTF-8 before parsing keeps texture lookups working on the filesystem.
package encoding

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Lookup resolves an encoding by its WHATWG name or alias.
// An empty name or any UTF-8 alias returns nil, meaning no conversion.
func Lookup(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" || name == "utf-8" || name == "utf8" {
		return nil, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown text encoding %q: %w", name, err)
	}
	return enc, nil
}

// NewReader wraps r so that it yields UTF-8 decoded from the named encoding.
// r is returned unchanged when no conversion is needed.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return r, nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
