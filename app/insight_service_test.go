package app

import (
	"context"
	"testing"

	"sheetlens/domain/core"
	"sheetlens/domain/insight"
	"sheetlens/domain/upload"
	"sheetlens/domain/workbook"
	"sheetlens/internal/errors"
	"sheetlens/internal/metrics"
	"sheetlens/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newInsightFixture(confidence int) (*mockUploadRepository, *mockInsightRepository, *InsightService) {
	uploads := new(mockUploadRepository)
	insights := new(mockInsightRepository)
	svc := NewInsightService(uploads, insights, metrics.New(), InsightServiceConfig{Confidence: confidence})
	return uploads, insights, svc
}

var revenue = []float64{10, 12, 11, 13, 12, 11, 10, 12, 11, 60}

func TestGenerateStoresEveryInsight(t *testing.T) {
	ctx := context.Background()
	uploads, insights, svc := newInsightFixture(0)
	u := completedUpload(ownerID, salesWorkbook(revenue...))
	uploads.On("GetByID", ctx, u.ID).Return(u, nil)
	insights.On("CreateBatch", ctx, mock.Anything).Return(nil)

	out, err := svc.Generate(ctx, owner, u.ID)
	require.NoError(t, err)

	kinds := make([]insight.Kind, 0, len(out))
	for _, in := range out {
		kinds = append(kinds, in.Kind)
		assert.Equal(t, 85, in.Confidence)
		assert.Equal(t, insight.StatusCompleted, in.Status)
		assert.Equal(t, ownerID, in.OwnerID)
		assert.Equal(t, u.ID, in.UploadID)
		assert.False(t, in.IsRead)
	}
	assert.Equal(t, []insight.Kind{
		insight.KindSummary, insight.KindTrend, insight.KindAnomaly, insight.KindRecommendation,
	}, kinds)
	insights.AssertExpectations(t)
}

func TestGenerateAppliesConfiguredConfidence(t *testing.T) {
	ctx := context.Background()
	uploads, insights, svc := newInsightFixture(70)
	u := completedUpload(ownerID, salesWorkbook(revenue...))
	uploads.On("GetByID", ctx, u.ID).Return(u, nil)
	insights.On("Create", ctx, mock.Anything).Return(nil)

	in, err := svc.GenerateSpecific(ctx, owner, u.ID, insight.KindTrend, "")
	require.NoError(t, err)
	assert.Equal(t, 70, in.Confidence)
	assert.Equal(t, "Trend Analysis: Revenue", in.Title)
}

func TestGenerateRequiresCompletedUpload(t *testing.T) {
	ctx := context.Background()
	uploads, insights, svc := newInsightFixture(0)
	u := completedUpload(ownerID, workbook.Failed(core.NewUnreadableFileError(nil)))
	require.Equal(t, upload.StatusFailed, u.Status)
	uploads.On("GetByID", ctx, u.ID).Return(u, nil)

	_, err := svc.Generate(ctx, owner, u.ID)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	insights.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestGenerateSpecificSurfacesInsufficientData(t *testing.T) {
	ctx := context.Background()
	uploads, _, svc := newInsightFixture(0)
	u := completedUpload(ownerID, salesWorkbook(1, 2))
	uploads.On("GetByID", ctx, u.ID).Return(u, nil)

	_, err := svc.GenerateSpecific(ctx, owner, u.ID, insight.KindTrend, "Revenue")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInsufficientData, errors.GetCode(err))

	_, err = svc.GenerateSpecific(ctx, owner, u.ID, insight.KindAnomaly, "Missing")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = svc.GenerateSpecific(ctx, owner, u.ID, insight.KindPrediction, "")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestGenerateForbiddenForOtherUser(t *testing.T) {
	ctx := context.Background()
	uploads, _, svc := newInsightFixture(0)
	u := completedUpload(ownerID, salesWorkbook(revenue...))
	uploads.On("GetByID", ctx, u.ID).Return(u, nil)

	_, err := svc.Generate(ctx, other, u.ID)
	assert.Equal(t, errors.CodeForbidden, errors.GetCode(err))
}

func TestGetMarksRead(t *testing.T) {
	ctx := context.Background()
	_, insights, svc := newInsightFixture(0)
	in, err := insight.New(ownerID, core.NewID(), insight.Record{Kind: insight.KindSummary, Title: "Data Summary"})
	require.NoError(t, err)
	insights.On("GetByID", ctx, in.ID).Return(in, nil)
	insights.On("MarkRead", ctx, in.ID).Return(nil).Once()

	got, err := svc.Get(ctx, owner, in.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)

	// already read: no second write
	_, err = svc.Get(ctx, owner, in.ID)
	require.NoError(t, err)
	insights.AssertNumberOfCalls(t, "MarkRead", 1)

	_, err = svc.Get(ctx, other, in.ID)
	assert.Equal(t, errors.CodeForbidden, errors.GetCode(err))
}

func TestInsightListFilters(t *testing.T) {
	ctx := context.Background()
	_, insights, svc := newInsightFixture(0)
	unread := false
	filter := ports.InsightFilter{OwnerID: ownerID, Kind: insight.KindTrend, IsRead: &unread}
	insights.On("List", ctx, filter, ports.Page{Number: 1, Limit: 20}).Return([]*insight.Insight{}, 0, nil)

	_, info, err := svc.List(ctx, owner, InsightQuery{Kind: insight.KindTrend, IsRead: &unread})
	require.NoError(t, err)
	assert.Equal(t, 20, info.Limit)
	insights.AssertExpectations(t)
}

func TestInsightDeleteMissing(t *testing.T) {
	ctx := context.Background()
	_, insights, svc := newInsightFixture(0)
	id := core.NewID()
	insights.On("GetByID", ctx, id).Return(nil, core.ErrInsightNotFound)

	err := svc.Delete(ctx, owner, id)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}
