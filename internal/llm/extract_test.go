package llm

import (
	"errors"
	"testing"
)

func TestExtractFirstJSONBlob(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare array", `[{"name":"Football"}]`, `[{"name":"Football"}]`},
		{"prose around array", "Here is the schedule:\n[{\"name\":\"Football\"}]\nLet me know!", `[{"name":"Football"}]`},
		{"array wins over earlier object", `{"note":"intro"} [1, 2]`, `[1, 2]`},
		{"object when no array", `text {"name":"Football"} more`, `{"name":"Football"}`},
		{"nested brackets", `[{"days":["Monday","Friday"]}]`, `[{"days":["Monday","Friday"]}]`},
		{"brackets inside strings", `[{"note":"a ] tricky } string"}]`, `[{"note":"a ] tricky } string"}]`},
		{"escaped quote in string", `[{"note":"she said \"hi\""}]`, `[{"note":"she said \"hi\""}]`},
		{"markdown fence", "```json\n[{\"name\":\"x\"}]\n```", `[{"name":"x"}]`},
	}
	for _, tc := range cases {
		got, err := ExtractFirstJSONBlob(tc.in)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestExtractFirstJSONBlobNoJSON(t *testing.T) {
	for _, in := range []string{"", "no json here", "unbalanced [ only", "mismatched [}"} {
		if _, err := ExtractFirstJSONBlob(in); !errors.Is(err, ErrNoJSON) {
			t.Fatalf("ExtractFirstJSONBlob(%q): expected ErrNoJSON, got %v", in, err)
		}
	}
}

func TestParseActivityArray(t *testing.T) {
	items, err := ParseActivityArray("Sure!\n[{\"name\":\"Football\"},{\"name\":\"Piano\"}]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	if _, err := ParseActivityArray(`{"name":"not an array"}`); !errors.Is(err, ErrBadResponse) {
		t.Fatalf("expected ErrBadResponse for a non-array blob, got %v", err)
	}
	if _, err := ParseActivityArray("nothing"); !errors.Is(err, ErrNoJSON) {
		t.Fatalf("expected ErrNoJSON, got %v", err)
	}
}
