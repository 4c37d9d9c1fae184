package container

import (
	"testing"

	"sheetlens/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestInitWithDatabaseRejectsNil(t *testing.T) {
	c, err := New(&config.Config{Storage: config.StorageConfig{UploadDir: t.TempDir()}})
	require.NoError(t, err)

	assert.Error(t, c.InitWithDatabase(nil))
	assert.NotNil(t, c.Metrics)
	assert.NotNil(t, c.Parser)
	assert.NotNil(t, c.Storage)
}
