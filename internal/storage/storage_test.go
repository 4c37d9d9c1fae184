package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreReadDelete(t *testing.T) {
	ctx := context.Background()
	s := NewLocalFileStorage(t.TempDir())
	s.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC) }

	ref, err := s.Store(ctx, "Q1 sales.XLSX", []byte("payload"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "Q1_sales_20240301_123000_"), ref)
	assert.True(t, strings.HasSuffix(ref, ".xlsx"), ref)

	exists, err := s.Exists(ctx, ref)
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := s.Read(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	require.NoError(t, s.Delete(ctx, ref))
	exists, err = s.Exists(ctx, ref)
	require.NoError(t, err)
	assert.False(t, exists)

	// deleting twice is fine
	assert.NoError(t, s.Delete(ctx, ref))
}

func TestStoreGeneratesDistinctNames(t *testing.T) {
	ctx := context.Background()
	s := NewLocalFileStorage(t.TempDir())

	a, err := s.Store(ctx, "report.xlsx", []byte("a"))
	require.NoError(t, err)
	b, err := s.Store(ctx, "report.xlsx", []byte("b"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestRejectsTraversal(t *testing.T) {
	s := NewLocalFileStorage(t.TempDir())

	for _, ref := range []string{"", "..", "../etc/passwd", "a/b.xlsx"} {
		_, err := s.Read(context.Background(), ref)
		assert.Error(t, err, ref)
	}
}

func TestStoreStripsDirectories(t *testing.T) {
	s := NewLocalFileStorage(t.TempDir())

	ref, err := s.Store(context.Background(), "../../evil.xlsx", []byte("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "evil_"), ref)
}
