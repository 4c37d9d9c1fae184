package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunnerOrdersTablesBeforeIndexes(t *testing.T) {
	r := NewRunner()
	assert.Equal(t, "1.0.0", r.Version())
	assert.Equal(t, []string{"uploads table", "charts table", "insights table", "indexes"}, r.Steps())
}
