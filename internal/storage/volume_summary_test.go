package storage

import "testing"

// TestTruncInterval verifies the bucket-to-date_trunc mapping.
func TestTruncInterval(t *testing.T) {
	tests := []struct {
		bucket string
		want   string
	}{
		{"1 week", "week"},
		{"week", "week"},
		{"1 month", "month"},
		{" Month ", "month"},
		{"", "week"},
		{"anything else", "week"},
	}

	for _, tt := range tests {
		got := truncInterval(tt.bucket)
		if got != tt.want {
			t.Errorf("truncInterval(%q) = %q, want %q", tt.bucket, got, tt.want)
		}
	}
}
