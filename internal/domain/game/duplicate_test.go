package game

import "testing"

func TestFindDuplicate(t *testing.T) {
	existing := []Game{
		{ID: "1", Title: "USC vs Clemson", Date: "2025-11-29", Time: "19:00"},
		{ID: "2", Title: "Lakers vs Celtics", Date: "2025-12-14", Time: "20:00", Venue: "Crypto.com Arena"},
	}

	tests := []struct {
		name    string
		payload Payload
		wantID  string
	}{
		{
			name:    "same title and date with different time and venue",
			payload: Payload{Title: "Lakers vs Celtics", Date: "2025-12-14", Time: "18:00", Venue: "TD Garden"},
			wantID:  "2",
		},
		{
			name:    "title compared case-insensitively",
			payload: Payload{Title: "LAKERS VS CELTICS", Date: "2025-12-14"},
			wantID:  "2",
		},
		{
			name:    "surrounding whitespace ignored",
			payload: Payload{Title: "  usc vs clemson ", Date: "2025-11-29"},
			wantID:  "1",
		},
		{
			name:    "fold-only rune is a different title",
			payload: Payload{Title: "Uſc vs Clemson", Date: "2025-11-29"},
		},
		{
			name:    "different date",
			payload: Payload{Title: "Lakers vs Celtics", Date: "2025-12-15"},
		},
		{
			name:    "different title",
			payload: Payload{Title: "Lakers vs Clippers", Date: "2025-12-14"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, found := FindDuplicate(tc.payload, existing)
			if tc.wantID == "" {
				if found {
					t.Fatalf("expected no duplicate, got %+v", got)
				}
				return
			}
			if !found || got.ID != tc.wantID {
				t.Fatalf("expected duplicate %s, got found=%v item=%+v", tc.wantID, found, got)
			}
		})
	}
}

func TestFindDuplicate_EmptyStore(t *testing.T) {
	if _, found := FindDuplicate(Payload{Title: "Saints vs Falcons", Date: "2025-12-21"}, nil); found {
		t.Fatalf("expected no duplicate in empty store")
	}
}

func TestTitleKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Lakers vs Celtics", want: "lakers vs celtics"},
		{in: "  ÉCLAIR Cup ", want: "éclair cup"},
		{in: "Uſc", want: "uſc"},
	}

	for _, tc := range tests {
		if got := TitleKey(tc.in); got != tc.want {
			t.Fatalf("TitleKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
