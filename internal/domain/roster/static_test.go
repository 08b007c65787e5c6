package roster

import "testing"

func testDirectory(t *testing.T) *Static {
	t.Helper()

	dir, err := NewStatic(
		[]Team{{ID: "lal", Name: "Los Angeles Lakers", ProviderID: 3427}},
		[]Player{
			{Name: "LeBron James", TeamID: "lal", ProviderID: 817050},
			{Name: "Austin Reaves", TeamID: "lal", ProviderID: 1102236},
		},
	)
	if err != nil {
		t.Fatalf("new static directory: %v", err)
	}
	return dir
}

func TestStatic_Canonical(t *testing.T) {
	t.Parallel()

	dir := testDirectory(t)
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "exact", input: "LeBron James", want: "LeBron James", wantOK: true},
		{name: "case and spacing", input: "  lebron   JAMES ", want: "LeBron James", wantOK: true},
		{name: "unknown", input: "Michael Jordan", wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := dir.Canonical(tc.input)
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("unexpected canonical: got=(%q,%v) want=(%q,%v)", got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestStatic_TeamLookup(t *testing.T) {
	t.Parallel()

	dir := testDirectory(t)
	team, ok := dir.TeamOf("Austin Reaves")
	if !ok || team != "lal" {
		t.Fatalf("unexpected team: got=(%q,%v)", team, ok)
	}
	if got := len(dir.Players("lal")); got != 2 {
		t.Fatalf("unexpected player count: got=%d want=2", got)
	}
	if _, ok := dir.TeamOf("Nobody"); ok {
		t.Fatalf("expected unknown player lookup to fail")
	}
}

func TestNewStatic_RejectsUnknownTeam(t *testing.T) {
	t.Parallel()

	_, err := NewStatic(nil, []Player{{Name: "A", TeamID: "bos"}})
	if err == nil {
		t.Fatalf("expected error for player on unknown team")
	}
}
