package wire

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		line string
		want Event
	}{
		{
			name: "session reset",
			line: "NEW_SESSION",
			want: Event{Kind: KindSessionReset, Raw: "NEW_SESSION"},
		},
		{
			name: "arrive current prefix",
			line: "LOGIN:7,Bob",
			want: Event{Kind: KindArrive, SecondaryID: "7", Identity: "Bob", Raw: "LOGIN:7,Bob"},
		},
		{
			name: "arrive legacy prefix",
			line: "LOG:42,Alice",
			want: Event{Kind: KindArrive, SecondaryID: "42", Identity: "Alice", Raw: "LOG:42,Alice"},
		},
		{
			name: "arrive fields trimmed",
			line: "LOGIN:7, Bob ",
			want: Event{Kind: KindArrive, SecondaryID: "7", Identity: "Bob", Raw: "LOGIN:7, Bob "},
		},
		{
			name: "depart",
			line: "LOGOUT:7,Bob",
			want: Event{Kind: KindDepart, SecondaryID: "7", Identity: "Bob", Raw: "LOGOUT:7,Bob"},
		},
		{
			name: "split on first comma only",
			line: "LOGIN:9,Smith, Jr",
			want: Event{Kind: KindArrive, SecondaryID: "9", Identity: "Smith, Jr", Raw: "LOGIN:9,Smith, Jr"},
		},
		{
			name: "missing comma is unrecognized",
			line: "LOG:oneFieldOnly",
			want: Event{Kind: KindUnrecognized, Raw: "LOG:oneFieldOnly"},
		},
		{
			name: "empty identity is unrecognized",
			line: "LOGIN:7,   ",
			want: Event{Kind: KindUnrecognized, Raw: "LOGIN:7,   "},
		},
		{
			name: "empty secondary id is unrecognized",
			line: "LOGOUT:,Bob",
			want: Event{Kind: KindUnrecognized, Raw: "LOGOUT:,Bob"},
		},
		{
			name: "reset signal must match exactly",
			line: "NEW_SESSION_EXTRA",
			want: Event{Kind: KindUnrecognized, Raw: "NEW_SESSION_EXTRA"},
		},
		{
			name: "unknown shape",
			line: "booting v2.3",
			want: Event{Kind: KindUnrecognized, Raw: "booting v2.3"},
		},
		{
			name: "bare prefix",
			line: "LOGIN:",
			want: Event{Kind: KindUnrecognized, Raw: "LOGIN:"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.line)
			if got != tc.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tc.line, got, tc.want)
			}
		})
	}
}

// LOGIN: lines also start with the legacy LOG: prefix; the classifier
// must consume the full current prefix, not stop at the legacy one.
func TestClassify_PrefixPriority(t *testing.T) {
	got := Classify("LOGIN:7,Bob")
	if got.SecondaryID != "7" {
		t.Fatalf("secondary id = %q, want %q (legacy prefix matched first?)", got.SecondaryID, "7")
	}
}
