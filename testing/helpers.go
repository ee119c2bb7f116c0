// Package testing provides test utilities for transcode.
package testing

import (
	"testing"

	"github.com/zoobzio/transcode"
	"golang.org/x/text/encoding/charmap"
)

// Sample is a known-good pairing of text and its encoded form.
type Sample struct {
	Charset string
	Text    string
	Bytes   []byte
}

// Samples returns round-trip fixtures covering the builtin charsets and
// a few resolved through the IANA index.
func Samples() []Sample {
	return []Sample{
		{Charset: "utf-8", Text: "你好世界", Bytes: []byte("\xe4\xbd\xa0\xe5\xa5\xbd\xe4\xb8\x96\xe7\x95\x8c")},
		{Charset: "ascii", Text: "hello", Bytes: []byte("hello")},
		{Charset: "latin-1", Text: "Café", Bytes: []byte("Caf\xe9")},
		{Charset: "windows-1252", Text: "€5", Bytes: []byte("\x805")},
		{Charset: "koi8-r", Text: "мир", Bytes: []byte("\xcd\xc9\xd2")},
		{Charset: "test-437", Text: "╔═╗", Bytes: []byte("\xc9\xcd\xbb")},
	}
}

// TestConverter returns a converter backed by its own registry, holding the
// builtins plus "test-437" (IBM code page 437).
func TestConverter(tb testing.TB) *transcode.Converter {
	tb.Helper()
	reg := transcode.NewRegistry()
	reg.Register(transcode.FromCharmap("test-437", charmap.CodePage437), "dos")
	return transcode.NewConverter(transcode.WithRegistry(reg))
}

// SimpleRecord is a test type with no charset tags.
type SimpleRecord struct {
	ID   string `json:"id" xml:"id" yaml:"id"`
	Name string `json:"name" xml:"name" yaml:"name"`
}

// Clone implements Cloner[SimpleRecord].
func (r SimpleRecord) Clone() SimpleRecord { return r }

// LegacyRecord is a test type whose fields must fit legacy charsets.
type LegacyRecord struct {
	ID      string   `json:"id" xml:"id" yaml:"id"`
	Name    string   `json:"name" xml:"name" yaml:"name" charset:"latin-1,replace"`
	Code    string   `json:"code" xml:"code" yaml:"code" charset:"ascii"`
	Aliases []string `json:"aliases" xml:"alias" yaml:"aliases" charset:"ascii,xml-char-ref-replace"`
}

// Clone implements Cloner[LegacyRecord].
func (r LegacyRecord) Clone() LegacyRecord {
	out := r
	if r.Aliases != nil {
		out.Aliases = make([]string, len(r.Aliases))
		copy(out.Aliases, r.Aliases)
	}
	return out
}
