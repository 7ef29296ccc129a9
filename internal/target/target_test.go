package target_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/target-drill/internal/target"
)

func TestSensorIndex(t *testing.T) {
	tests := []struct {
		id       target.ID
		expected int
	}{
		{target.L1, 0},
		{target.R1, 1},
		{target.L2, 2},
		{target.R2, 3},
		{target.Center, -1},
		{target.None, -1},
	}

	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.id.SensorIndex())
		})
	}
}

func TestParse(t *testing.T) {
	id, err := target.Parse(" r2 ")
	require.NoError(t, err)
	assert.Equal(t, target.R2, id)

	id, err = target.Parse("center")
	require.NoError(t, err)
	assert.Equal(t, target.Center, id)

	_, err = target.Parse("X9")
	assert.Error(t, err)
}

func TestCountsTotalIgnoresNegativesAndUnknown(t *testing.T) {
	c := target.Counts{target.L1: 2, target.R1: -4, target.R2: 3, target.Center: 7}
	assert.Equal(t, 5, c.Total())
	assert.Equal(t, 0, c.Of(target.R1))
	assert.Equal(t, 0, c.Of(target.L2))
}

func TestCountsCloneIsIndependent(t *testing.T) {
	c := target.Counts{target.L1: 1}
	clone := c.Clone()
	c[target.L1] = 9

	assert.Equal(t, 1, clone.Of(target.L1))
	assert.Len(t, clone, 4)
}

func TestCountsString(t *testing.T) {
	c := target.Counts{target.L1: 2, target.R2: 1}
	assert.Equal(t, "L1=2 R1=0 L2=0 R2=1", c.String())
}
