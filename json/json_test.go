package json

import (
	"testing"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	for _, c := range []interface{ ContentType() string }{New(), NewASCII()} {
		if c.ContentType() != "application/json" {
			t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/json")
		}
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	c := New()

	type TestStruct struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}

	original := TestStruct{Name: "Café", Value: 42}

	data, err := c.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(data) != `{"name":"Café","value":42}` {
		t.Errorf("Marshal() = %s", data)
	}

	var restored TestStruct
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if restored != original {
		t.Errorf("round-trip failed: got %+v, want %+v", restored, original)
	}
}

func TestNewASCII_Escapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii", "plain", `"plain"`},
		{"latin1", "Café", `"Caf\u00e9"`},
		{"cjk", "你好", `"\u4f60\u597d"`},
		{"astral", "😀", `"\ud83d\ude00"`},
	}

	c := NewASCII()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := c.Marshal(tt.in)
			if err != nil {
				t.Fatalf("Marshal() error: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal(%q) = %s, want %s", tt.in, data, tt.want)
			}

			var restored string
			if err := c.Unmarshal(data, &restored); err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if restored != tt.in {
				t.Errorf("round-trip = %q, want %q", restored, tt.in)
			}
		})
	}
}

func TestMarshalNil(t *testing.T) {
	c := New()

	data, err := c.Marshal(nil)
	if err != nil {
		t.Fatalf("Marshal(nil) error: %v", err)
	}

	if string(data) != "null" {
		t.Errorf("Marshal(nil) = %q, want %q", data, "null")
	}
}

func TestMarshalError(t *testing.T) {
	if _, err := NewASCII().Marshal(make(chan int)); err == nil {
		t.Error("Marshal(chan) should return error")
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v struct{}
	err := c.Unmarshal([]byte("invalid json"), &v)
	if err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}
