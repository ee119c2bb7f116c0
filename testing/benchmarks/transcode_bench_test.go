package benchmarks

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/zoobzio/transcode"
	"github.com/zoobzio/transcode/json"
	transcodetest "github.com/zoobzio/transcode/testing"
)

var (
	asciiText = strings.Repeat("the quick brown fox ", 50)
	mixedText = strings.Repeat("Zoë Łukasz € ", 50)

	// Every unit is an error for ascii.
	denseText  = strings.Repeat("你", 10000)
	denseBytes = bytes.Repeat([]byte{0xff}, 10000)
)

func BenchmarkEncode_UTF8(b *testing.B) {
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = transcode.Encode(ctx, mixedText, transcode.UTF8, transcode.PolicyStrict)
	}
}

func BenchmarkEncode_Latin1_Strict(b *testing.B) {
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = transcode.Encode(ctx, asciiText, transcode.Latin1, transcode.PolicyStrict)
	}
}

func BenchmarkEncode_ASCII_Replace(b *testing.B) {
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = transcode.Encode(ctx, mixedText, transcode.ASCII, transcode.PolicyReplace)
	}
}

func BenchmarkEncode_ASCII_XMLCharRef(b *testing.B) {
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = transcode.Encode(ctx, mixedText, transcode.ASCII, transcode.PolicyXMLCharRefReplace)
	}
}

func BenchmarkDecode_Latin1(b *testing.B) {
	ctx := context.Background()
	data, _ := transcode.Encode(ctx, mixedText, transcode.Latin1, transcode.PolicyReplace)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = transcode.Decode(ctx, data, transcode.Latin1, transcode.PolicyStrict)
	}
}

func BenchmarkDecode_UTF8_Replace(b *testing.B) {
	ctx := context.Background()
	data := []byte(strings.Repeat("ok\xff", 300))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = transcode.Decode(ctx, data, transcode.UTF8, transcode.PolicyReplace)
	}
}

func BenchmarkEncode_ASCII_Ignore_DenseErrors(b *testing.B) {
	ctx := context.Background()
	b.SetBytes(int64(len(denseText)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = transcode.Encode(ctx, denseText, transcode.ASCII, transcode.PolicyIgnore)
	}
}

func BenchmarkDecode_ASCII_Replace_DenseErrors(b *testing.B) {
	ctx := context.Background()
	b.SetBytes(int64(len(denseBytes)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = transcode.Decode(ctx, denseBytes, transcode.ASCII, transcode.PolicyReplace)
	}
}

func BenchmarkEncode_UTF16(b *testing.B) {
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = transcode.Encode(ctx, mixedText, transcode.UTF16, transcode.PolicyStrict)
	}
}

func BenchmarkLookup_IANA(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = transcode.Lookup("windows-1252")
	}
}

func BenchmarkDocument_Marshal(b *testing.B) {
	doc, _ := transcode.NewDocument(json.New(), transcode.Latin1)
	record := &transcodetest.SimpleRecord{ID: "123", Name: "Zoë"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = doc.Marshal(record)
	}
}

func BenchmarkRestrictor_Restrict(b *testing.B) {
	r, _ := transcode.Use[transcodetest.LegacyRecord]()
	record := &transcodetest.LegacyRecord{
		ID:      "123",
		Name:    "Zoë Łukasz",
		Code:    "ZX-1",
		Aliases: []string{"Łódź", "Lodz"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.Restrict(context.Background(), record)
	}
}
