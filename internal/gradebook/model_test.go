package gradebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeFor(t *testing.T) {
	tests := []struct {
		percentage float64
		want       string
	}{
		{100, "A1"},
		{91, "A1"},
		{90.9, "A2"},
		{81, "A2"},
		{75, "B1"},
		{65, "B2"},
		{55, "C1"},
		{45, "C2"},
		{33, "D"},
		{32.9, "E"},
		{25, "E"},
		{21, "E"},
		{20.9, "F"},
		{0, "F"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeFor(tt.percentage), "percentage %v", tt.percentage)
	}
}
