package integration

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zoobzio/transcode"
	"github.com/zoobzio/transcode/json"
	transcodetest "github.com/zoobzio/transcode/testing"
	"github.com/zoobzio/transcode/xml"
	"github.com/zoobzio/transcode/yaml"
)

func TestRestrictDocument_JSON(t *testing.T) {
	testRestrictDocument(t, json.New(), "latin-1")
}

func TestRestrictDocument_YAML(t *testing.T) {
	testRestrictDocument(t, yaml.New(), "windows-1252")
}

func TestRestrictDocument_XML(t *testing.T) {
	testRestrictDocument(t, xml.New(), "iso-8859-1")
}

func testRestrictDocument(t *testing.T, c transcode.Codec, charset string) {
	t.Helper()

	r, err := transcode.Use[transcodetest.LegacyRecord]()
	if err != nil {
		t.Fatalf("Use error: %v", err)
	}
	doc, err := transcode.NewDocument(c, charset)
	if err != nil {
		t.Fatalf("NewDocument error: %v", err)
	}

	original := &transcodetest.LegacyRecord{
		ID:      "123",
		Name:    "Zoë Łukasz",
		Code:    "ZX-1",
		Aliases: []string{"Łódź", "Lodz"},
	}

	// Restrict makes the record fit the document charset
	safe, err := r.Restrict(context.Background(), original)
	if err != nil {
		t.Fatalf("Restrict error: %v", err)
	}
	if safe.Name != "Zoë ?ukasz" {
		t.Errorf("Name = %q, want %q", safe.Name, "Zoë ?ukasz")
	}
	if safe.Aliases[0] != "&#321;&#243;d&#378;" {
		t.Errorf("Aliases[0] = %q, want %q", safe.Aliases[0], "&#321;&#243;d&#378;")
	}

	// The unrestricted record cannot be written strictly
	if _, err := doc.Marshal(original); !errors.Is(err, transcode.ErrEncode) {
		t.Errorf("Marshal(original) error = %v, want ErrEncode", err)
	}

	data, err := doc.Marshal(safe)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if !strings.Contains(string(data), "Zo\xeb ?ukasz") {
		t.Errorf("encoded document %q should hold the name as a single-byte charset", data)
	}

	var restored transcodetest.LegacyRecord
	if err := doc.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if restored.Name != safe.Name || restored.Code != safe.Code {
		t.Errorf("restored = %+v, want %+v", restored, *safe)
	}
	if len(restored.Aliases) != 2 || restored.Aliases[0] != safe.Aliases[0] {
		t.Errorf("Aliases = %v, want %v", restored.Aliases, safe.Aliases)
	}
}

func TestRestrictor_Check(t *testing.T) {
	r, err := transcode.Use[transcodetest.LegacyRecord]()
	if err != nil {
		t.Fatalf("Use error: %v", err)
	}

	err = r.Check(context.Background(), &transcodetest.LegacyRecord{Code: "Ωmega"})
	if !errors.Is(err, transcode.ErrEncode) {
		t.Fatalf("Check error = %v, want ErrEncode", err)
	}
	var ce *transcode.ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConversionError, got %T", err)
	}
	if ce.Codec != "ascii" || ce.Position != 0 {
		t.Errorf("got codec %q position %d, want ascii 0", ce.Codec, ce.Position)
	}
}

func TestDocument_ASCIIJSON(t *testing.T) {
	doc, err := transcode.NewDocument(json.NewASCII(), "ascii")
	if err != nil {
		t.Fatalf("NewDocument error: %v", err)
	}

	original := &transcodetest.SimpleRecord{ID: "1", Name: "你好"}
	data, err := doc.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if want := `{"id":"1","name":"\u4f60\u597d"}`; string(data) != want {
		t.Errorf("Marshal = %q, want %q", data, want)
	}

	var restored transcodetest.SimpleRecord
	if err := doc.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if restored != *original {
		t.Errorf("restored = %+v, want %+v", restored, *original)
	}
}

func TestSamples_AllCodecs(t *testing.T) {
	conv := transcodetest.TestConverter(t)
	codecs := map[string]transcode.Codec{
		"json": json.New(),
		"xml":  xml.New(),
		"yaml": yaml.New(),
	}

	for name, c := range codecs {
		for _, s := range transcodetest.Samples() {
			t.Run(name+"/"+s.Charset, func(t *testing.T) {
				doc, err := transcode.NewDocument(c, s.Charset, transcode.WithConverter(conv))
				if err != nil {
					t.Fatalf("NewDocument error: %v", err)
				}

				original := transcodetest.SimpleRecord{ID: "1", Name: s.Text}
				data, err := doc.Marshal(original)
				if err != nil {
					t.Fatalf("Marshal error: %v", err)
				}
				if !strings.Contains(string(data), string(s.Bytes)) {
					t.Errorf("Marshal = %q, want it to contain %q", data, s.Bytes)
				}

				var restored transcodetest.SimpleRecord
				if err := doc.Unmarshal(data, &restored); err != nil {
					t.Fatalf("Unmarshal error: %v", err)
				}
				if restored != original {
					t.Errorf("restored = %+v, want %+v", restored, original)
				}
			})
		}
	}
}
