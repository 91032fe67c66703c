package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadiness(t *testing.T) {
	// 80*0.25 + 50*0.30 + 70*0.25 + 60*0.20 = 64.5
	assert.Equal(t, 64.5, Readiness(80, 50, 70, 60))
}

func TestReadiness_Bounds(t *testing.T) {
	assert.Equal(t, 0.0, Readiness(0, 0, 0, 0))
	assert.Equal(t, 100.0, Readiness(100, 100, 100, 100))
}

func TestReadiness_RoundsToOneDecimal(t *testing.T) {
	// 33*0.25 + 33*0.30 + 33*0.25 + 33*0.20 = 33.0; use inputs that produce
	// a long fraction instead.
	got := Readiness(33.33, 66.67, 50, 25)
	assert.Equal(t, 45.8, got)
}
