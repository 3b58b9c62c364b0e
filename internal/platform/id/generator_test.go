package id

import "testing"

func TestSequentialAssigner_AssignID(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{name: "empty store starts at one", existing: nil, want: "1"},
		{name: "max plus one", existing: []string{"1", "2", "3"}, want: "4"},
		{name: "gaps are not reused", existing: []string{"9", "2"}, want: "10"},
	}

	a := NewSequentialAssigner()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := a.AssignID(tc.existing)
			if err != nil {
				t.Fatalf("assign id: %v", err)
			}
			if got != tc.want {
				t.Fatalf("unexpected id: got=%s want=%s", got, tc.want)
			}
		})
	}
}

func TestSequentialAssigner_RejectsNonNumericIDs(t *testing.T) {
	_, err := NewSequentialAssigner().AssignID([]string{"1", "6570c0ffee"})
	if err == nil {
		t.Fatalf("expected error for mixed id strategies")
	}
}

func TestStoreAssigner_DefersToStore(t *testing.T) {
	got, err := NewStoreAssigner().AssignID([]string{"a", "b"})
	if err != nil {
		t.Fatalf("assign id: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
}
