package insight

import (
	"testing"

	"sheetlens/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppliesDefaultConfidence(t *testing.T) {
	owner, upload := core.NewID(), core.NewID()

	in, err := New(owner, upload, Record{
		Kind:    KindTrend,
		Title:   "Trend Analysis: Sales",
		Content: "up",
		Data:    map[string]int{"increases": 4},
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultConfidence, in.Confidence)
	assert.Equal(t, StatusCompleted, in.Status)
	assert.False(t, in.IsRead)
	assert.Equal(t, owner, in.OwnerID)
	assert.Equal(t, upload, in.UploadID)
	assert.JSONEq(t, `{"increases":4}`, string(in.Data))
}

func TestNewClampsConfidence(t *testing.T) {
	in, err := New(core.NewID(), core.NewID(), Record{Kind: KindSummary, ConfidenceScore: 140})
	require.NoError(t, err)
	assert.Equal(t, 100, in.Confidence)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("anomaly")
	require.NoError(t, err)
	assert.Equal(t, KindAnomaly, k)

	_, err = ParseKind("forecast")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}
