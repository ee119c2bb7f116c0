package transcode

import (
	"errors"
	"slices"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestRegistry_Builtins(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		want string
	}{
		{"utf-8", UTF8},
		{"UTF8", UTF8},
		{"cp65001", UTF8},
		{"ascii", ASCII},
		{"US-ASCII", ASCII},
		{"646", ASCII},
		{"latin-1", Latin1},
		{"Latin_1", Latin1},
		{"ISO-8859-1", Latin1},
		{"iso8859_1", Latin1},
		{" latin1 ", Latin1},
		{"L1", Latin1},
		{"UTF-16", UTF16},
		{"utf_16_le", UTF16LE},
		{"UTF-16BE", UTF16BE},
		{"u32", UTF32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, err := r.Lookup(tt.name)
			if err != nil {
				t.Fatalf("Lookup(%q) error: %v", tt.name, err)
			}
			if cs.Name() != tt.want {
				t.Errorf("Lookup(%q).Name() = %q, want %q", tt.name, cs.Name(), tt.want)
			}
		})
	}
}

func TestRegistry_IANAFallback(t *testing.T) {
	r := NewRegistry()

	cs, err := r.Lookup("Windows-1252")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if cs.Name() != "windows-1252" {
		t.Errorf("Name() = %q, want %q", cs.Name(), "windows-1252")
	}

	again, err := r.Lookup("windows_1252")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if again != cs {
		t.Error("second lookup should return the cached charset")
	}

	if !slices.Contains(r.Names(), "windows-1252") {
		t.Errorf("Names() = %v, want windows-1252 cached", r.Names())
	}
}

func TestRegistry_Unsupported(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"unknown", "no-such-charset"},
		{"multi-byte", "EUC-JP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Lookup(tt.input)
			if !errors.Is(err, ErrUnsupportedCodec) {
				t.Fatalf("Lookup(%q) error = %v, want ErrUnsupportedCodec", tt.input, err)
			}
			var le *LookupError
			if !errors.As(err, &le) {
				t.Fatalf("expected *LookupError, got %T", err)
			}
			if le.Name != tt.input {
				t.Errorf("Name = %q, want %q", le.Name, tt.input)
			}
		})
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	r.Register(FromCharmap("dos-us", charmap.CodePage437), "PC_8", "ibm-pc")

	for _, name := range []string{"dos-us", "pc-8", "IBM PC"} {
		cs, err := r.Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q) error: %v", name, err)
		}
		if cs.Name() != "dos-us" {
			t.Errorf("Lookup(%q).Name() = %q, want %q", name, cs.Name(), "dos-us")
		}
	}
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register(FromCharmap("latin-1", charmap.Windows1252))

	cs, err := r.Lookup("latin-1")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if _, ok := cs.(*charmapCharset); !ok || cs.(*charmapCharset).cm != charmap.Windows1252 {
		t.Error("Register() should replace the existing entry")
	}

	// Aliases keep pointing at the builtin.
	alias, _ := r.Lookup("iso-8859-1")
	if alias.(*charmapCharset).cm != charmap.ISO8859_1 {
		t.Error("alias should still resolve to the builtin charset")
	}
}

func TestRegistry_Names(t *testing.T) {
	got := NewRegistry().Names()
	want := []string{ASCII, Latin1, UTF16, UTF16BE, UTF16LE, UTF32, UTF32BE, UTF32LE, UTF8}
	if !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestDefaultRegistry_Reset(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register(FromCharmap("test-437", charmap.CodePage437))
	if _, err := Lookup("test-437"); err != nil {
		t.Fatalf("Lookup() after Register error: %v", err)
	}

	Reset()

	if _, err := Lookup("test-437"); !errors.Is(err, ErrUnsupportedCodec) {
		t.Errorf("Lookup() after Reset error = %v, want ErrUnsupportedCodec", err)
	}
}
