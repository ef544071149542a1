package models

import (
	"encoding/json"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want JSONKind
	}{
		{"absent", "", KindUndefined},
		{"null", "null", KindNull},
		{"true", "true", KindBoolean},
		{"false", "false", KindBoolean},
		{"integer", "42", KindNumber},
		{"float", "23.5", KindNumber},
		{"negative", "-1.5e3", KindNumber},
		{"string", `"hello"`, KindString},
		{"array", "[1,2]", KindArray},
		{"object", `{"x":1}`, KindObject},
		{"leading whitespace", `  {"x":1}`, KindObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(json.RawMessage(tt.raw)); got != tt.want {
				t.Errorf("KindOf(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
