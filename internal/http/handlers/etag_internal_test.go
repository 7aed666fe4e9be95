package handlers

import "testing"

func TestMatchesIfNoneMatch(t *testing.T) {
	tag := etagFor([]byte(`{"id":1}`))

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{"empty", "", false},
		{"wildcard", "*", true},
		{"exact", tag, true},
		{"weak", "W/" + tag, true},
		{"in_list", `"stale", ` + tag, true},
		{"other", `"stale"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesIfNoneMatch(tt.header, tag); got != tt.want {
				t.Fatalf("matchesIfNoneMatch(%q) = %v, want %v", tt.header, got, tt.want)
			}
		})
	}
}

func TestEtagFor_ChangesWithBody(t *testing.T) {
	a := etagFor([]byte(`{"price":50}`))
	b := etagFor([]byte(`{"price":60}`))

	if a == b {
		t.Fatal("different bodies should not share an ETag")
	}
	if a != etagFor([]byte(`{"price":50}`)) {
		t.Fatal("ETag must be stable for identical bodies")
	}
}
