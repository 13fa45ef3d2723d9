package cache

import (
	"net/http"
	"testing"
	"time"
)

func TestEntry_Age(t *testing.T) {
	entry := &Entry{StoredAt: time.Now().Add(-90 * time.Second)}

	age := entry.Age()
	if age < 89*time.Second || age > 91*time.Second {
		t.Errorf("Age() = %v, want about 90s", age)
	}
}

func TestEntry_Usable(t *testing.T) {
	tests := []struct {
		name  string
		entry *Entry
		want  bool
	}{
		{
			name:  "nil entry",
			entry: nil,
			want:  false,
		},
		{
			name:  "ok response with body",
			entry: &Entry{StatusCode: http.StatusOK, Data: []byte(`{"items":[]}`)},
			want:  true,
		},
		{
			name:  "empty body",
			entry: &Entry{StatusCode: http.StatusOK},
			want:  false,
		},
		{
			name:  "error response",
			entry: &Entry{StatusCode: http.StatusForbidden, Data: []byte(`{"error":{}}`)},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.Usable(); got != tt.want {
				t.Errorf("Usable() = %v, want %v", got, tt.want)
			}
		})
	}
}
