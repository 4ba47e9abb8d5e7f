package leave

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTerminal(t *testing.T) {
	assert.False(t, Pending.Terminal())
	for _, s := range []Status{Approved, Rejected, Cancelled} {
		assert.True(t, s.Terminal(), s.String())
	}
	assert.Equal(t, "Unknown", Status(9).String())
}

func TestRequestDay(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2025-10-09", "2025-10-09", true},
		{"2025-10-09T00:00:00", "2025-10-09", true},
		{"2025-10-09T23:30:00+05:30", "2025-10-09", true},
		{"", "", false},
		{"09/10/2025", "", false},
	}
	for _, tt := range tests {
		d, ok := Request{Date: tt.in}.Day()
		assert.Equal(t, tt.ok, ok, tt.in)
		if ok {
			assert.Equal(t, tt.want, d.String())
		}
	}
}
