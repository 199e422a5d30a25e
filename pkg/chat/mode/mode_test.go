package mode

import (
	"testing"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		selector string
		want     Mode
	}{
		{
			name:     "empty selector",
			selector: "",
			want:     Streaming,
		},
		{
			name:     "single space",
			selector: " ",
			want:     Streaming,
		},
		{
			name:     "tabs and newlines",
			selector: "\t\n  ",
			want:     Streaming,
		},
		{
			name:     "named store",
			selector: "docs-store-1",
			want:     Grounded,
		},
		{
			name:     "store with surrounding whitespace",
			selector: "  docs-store-1  ",
			want:     Grounded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Select(tt.selector); got != tt.want {
				t.Errorf("Select(%q) = %v, want %v", tt.selector, got, tt.want)
			}
			wantValid := tt.want == Grounded
			if got := ValidSelector(tt.selector); got != wantValid {
				t.Errorf("ValidSelector(%q) = %v, want %v", tt.selector, got, wantValid)
			}
		})
	}
}
