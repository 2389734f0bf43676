package cache

import "testing"

func TestEntry_Size(t *testing.T) {
	tests := []struct {
		name  string
		entry *Entry
		want  int
	}{
		{
			name:  "nil entry",
			entry: nil,
			want:  0,
		},
		{
			name:  "empty body",
			entry: &Entry{},
			want:  0,
		},
		{
			name:  "json object",
			entry: &Entry{Data: []byte(`{"name": "Human"}`)},
			want:  17,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.Size(); got != tt.want {
				t.Errorf("Size() = %v, want %v", got, tt.want)
			}
		})
	}
}
