package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodesRoundTrip(t *testing.T) {
	for code := 0; code <= 4; code++ {
		assert.Equal(t, code, StatusToCode(CodeToStatus(code)))
	}
	for _, s := range Statuses() {
		assert.Equal(t, s, CodeToStatus(StatusToCode(s)))
	}
}

func TestStatusFallbacks(t *testing.T) {
	assert.Equal(t, 4, StatusToCode("Vacation"))
	assert.Equal(t, 4, StatusToCode(NoStatus))
	assert.Equal(t, Unexcused, CodeToStatus(9))
	assert.Equal(t, Unexcused, CodeToStatus(-1))
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"present", Present, true},
		{"Half Day", HalfDay, true},
		{" HALFDAY ", HalfDay, true},
		{"excused", Excused, true},
		{"", NoStatus, false},
		{"sick", NoStatus, false},
	}
	for _, tt := range tests {
		got, ok := ParseStatus(tt.in)
		require.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Half Day", HalfDay.Label())
	assert.Equal(t, "No Status", NoStatus.Label())
	assert.Equal(t, "Late", Late.Label())
	assert.False(t, NoStatus.Valid())
	assert.False(t, Status("present").Valid())
	assert.True(t, Unexcused.Valid())
}
