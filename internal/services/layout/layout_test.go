package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpacing(t *testing.T) {
	assert.Equal(t, "space-y-6", Spacing("relaxed"))
	assert.Equal(t, "space-y-2", Spacing("tight"))
	assert.Equal(t, "space-y-4", Spacing("cosy"))
}

func TestGrid(t *testing.T) {
	assert.Equal(t, "grid grid-cols-1 md:grid-cols-3 gap-6", Grid(3, "relaxed"))
	assert.Equal(t, "grid grid-cols-1 gap-4", Grid(0, ""))
	assert.Equal(t, "grid grid-cols-1 md:grid-cols-6 gap-4", Grid(12, "normal"))
}

func TestCardAndJoin(t *testing.T) {
	assert.Contains(t, Card("metric"), "metric")
	assert.Equal(t, Card("default"), Card("unknown"))
	assert.Equal(t, "a b c", Join("a", " ", "b ", "", "c"))
}
