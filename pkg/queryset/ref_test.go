package queryset

import "testing"

func TestRef_States(t *testing.T) {
	tests := []struct {
		name           string
		ref            Ref
		wantAbsent     bool
		wantUnresolved bool
		wantResolved   bool
		wantURL        string
		wantName       string
		wantString     string
	}{
		{
			name:       "zero value",
			ref:        Ref{},
			wantAbsent: true,
		},
		{
			name:       "empty url",
			ref:        NewRef(""),
			wantAbsent: true,
		},
		{
			name:           "unresolved",
			ref:            NewRef("https://swapi.dev/api/species/1/"),
			wantUnresolved: true,
			wantURL:        "https://swapi.dev/api/species/1/",
			wantString:     "https://swapi.dev/api/species/1/",
		},
		{
			name:         "resolved",
			ref:          ResolvedRef("Human"),
			wantResolved: true,
			wantName:     "Human",
			wantString:   "Human",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.IsAbsent(); got != tt.wantAbsent {
				t.Errorf("IsAbsent() = %v, want %v", got, tt.wantAbsent)
			}
			if got := tt.ref.IsUnresolved(); got != tt.wantUnresolved {
				t.Errorf("IsUnresolved() = %v, want %v", got, tt.wantUnresolved)
			}
			if got := tt.ref.IsResolved(); got != tt.wantResolved {
				t.Errorf("IsResolved() = %v, want %v", got, tt.wantResolved)
			}
			if got := tt.ref.URL(); got != tt.wantURL {
				t.Errorf("URL() = %q, want %q", got, tt.wantURL)
			}
			if got := tt.ref.Name(); got != tt.wantName {
				t.Errorf("Name() = %q, want %q", got, tt.wantName)
			}
			if got := tt.ref.String(); got != tt.wantString {
				t.Errorf("String() = %q, want %q", got, tt.wantString)
			}
		})
	}
}

func TestRef_ResolveIsTerminal(t *testing.T) {
	unresolved := NewRef("https://swapi.dev/api/species/1/")

	resolved := unresolved.Resolve("Human")
	if !resolved.IsResolved() || resolved.Name() != "Human" {
		t.Fatalf("Resolve() = %+v, want resolved Human", resolved)
	}
	if !unresolved.IsUnresolved() {
		t.Error("Resolve() modified the original ref")
	}

	if again := resolved.Resolve("Droid"); again.Name() != "Human" {
		t.Errorf("re-resolving changed name to %q", again.Name())
	}
	if absent := (Ref{}).Resolve("Human"); !absent.IsAbsent() {
		t.Error("resolving an absent ref should keep it absent")
	}
}
