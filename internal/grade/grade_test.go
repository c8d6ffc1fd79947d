package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "87.50", formatScore(87.5))
	assert.Equal(t, "0.85", formatScore(0.85))
	assert.Equal(t, "0.00", formatScore(0))
	assert.Equal(t, "0.67", formatScore(2.0/3.0))
}
