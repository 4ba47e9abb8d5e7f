package profiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func str(s string) *string { return &s }

func TestClassify(t *testing.T) {
	gpa := 3.4
	tests := []struct {
		name string
		p    *Profile
		want Kind
	}{
		{"missing", nil, None},
		{"blank", &Profile{UserID: 1}, Basic},
		{"personal only", &Profile{UserID: 1, Phone: str("555"), GuardianName: str("Ravi")}, Basic},
		{"empty academic string", &Profile{UserID: 1, Course: str("")}, Basic},
		{"course", &Profile{UserID: 1, Course: str("CS")}, Academic},
		{"gpa", &Profile{UserID: 1, GPA: &gpa}, Academic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.p))
		})
	}
	assert.Equal(t, "No Profile", None.String())
	assert.Equal(t, "Academic Profile", Academic.String())
}
