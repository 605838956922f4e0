package encoding

import (
	"io"
	"strings"
	"testing"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		wantNil bool
		wantErr bool
	}{
		{"", true, false},
		{"utf-8", true, false},
		{"UTF8", true, false},
		{"euc-kr", false, false},
		{"shift_jis", false, false},
		{"windows-1252", false, false},
		{"no-such-charset", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Lookup(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if (enc == nil) != tt.wantNil {
				t.Errorf("Lookup(%q) nil = %v, want %v", tt.name, enc == nil, tt.wantNil)
			}
		})
	}
}

func TestNewReaderEUCKR(t *testing.T) {
	original := "재질_나무"
	encoded, _, err := transform.String(korean.EUCKR.NewEncoder(), original)
	if err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	if encoded == original {
		t.Fatal("expected EUC-KR bytes to differ from UTF-8")
	}

	r, err := NewReader(strings.NewReader(encoded), "euc-kr")
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != original {
		t.Errorf("decoded = %q, want %q", data, original)
	}
}

func TestNewReaderWindows1252(t *testing.T) {
	// 0xE9 is 'é' in Windows-1252
	src := strings.NewReader("newmtl caf\xe9\n")
	r, err := NewReader(src, "windows-1252")
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "newmtl café\n" {
		t.Errorf("decoded = %q, want %q", data, "newmtl café\n")
	}
}

func TestNewReaderPassthrough(t *testing.T) {
	src := strings.NewReader("v 1 2 3\n")
	r, err := NewReader(src, "")
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if r != io.Reader(src) {
		t.Error("expected the original reader for UTF-8 input")
	}
}

func TestNewReaderUnknownEncoding(t *testing.T) {
	if _, err := NewReader(strings.NewReader("abc"), "bogus"); err == nil {
		t.Error("expected an error for an unknown encoding")
	}
}
