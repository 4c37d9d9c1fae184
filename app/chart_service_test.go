package app

import (
	"context"
	"testing"

	"sheetlens/domain/chart"
	"sheetlens/domain/core"
	"sheetlens/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newChartFixture() (*mockChartRepository, *mockUploadRepository, *ChartService) {
	charts := new(mockChartRepository)
	uploads := new(mockUploadRepository)
	return charts, uploads, NewChartService(charts, uploads, 10)
}

func barInput(uploadID core.ID) ChartInput {
	return ChartInput{
		UploadID:      uploadID,
		Title:         "  Revenue by month ",
		ChartType:     chart.TypeBar,
		Dimension:     chart.Dimension2D,
		Configuration: chart.Configuration{XAxis: "Month", YAxis: "Revenue"},
	}
}

func TestCreateChartIncrementsUploadCount(t *testing.T) {
	ctx := context.Background()
	charts, uploads, svc := newChartFixture()
	u := completedUpload(ownerID, salesWorkbook(1, 2, 3))
	uploads.On("GetByID", ctx, u.ID).Return(u, nil)
	charts.On("Create", ctx, mock.AnythingOfType("*chart.Chart")).Return(nil)
	uploads.On("AdjustChartCount", ctx, u.ID, 1).Return(nil)

	c, err := svc.Create(ctx, owner, barInput(u.ID))
	require.NoError(t, err)
	assert.Equal(t, "Revenue by month", c.Title)
	assert.Equal(t, ownerID, c.OwnerID)
	assert.Equal(t, []string{}, c.Tags)
	uploads.AssertExpectations(t)
}

func TestCreateChartValidation(t *testing.T) {
	ctx := context.Background()
	_, uploads, svc := newChartFixture()

	in := barInput(core.NewID())
	in.ChartType = "histogram"
	_, err := svc.Create(ctx, owner, in)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	in = barInput(core.NewID())
	in.Configuration.YAxis = ""
	_, err = svc.Create(ctx, owner, in)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	uploads.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCreateChartOnForeignUpload(t *testing.T) {
	ctx := context.Background()
	charts, uploads, svc := newChartFixture()
	u := completedUpload(ownerID, salesWorkbook(1, 2, 3))
	uploads.On("GetByID", ctx, u.ID).Return(u, nil)

	_, err := svc.Create(ctx, other, barInput(u.ID))
	assert.Equal(t, errors.CodeForbidden, errors.GetCode(err))
	charts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func savedChart(public bool) *chart.Chart {
	return &chart.Chart{
		ID:            core.NewID(),
		OwnerID:       ownerID,
		UploadID:      core.NewID(),
		Title:         "Revenue",
		ChartType:     chart.TypeLine,
		Dimension:     chart.Dimension2D,
		Configuration: chart.Configuration{XAxis: "Month", YAxis: "Revenue"},
		IsPublic:      public,
		Tags:          []string{},
	}
}

func TestGetChartVisibility(t *testing.T) {
	ctx := context.Background()
	charts, _, svc := newChartFixture()
	private := savedChart(false)
	public := savedChart(true)
	charts.On("GetByID", ctx, private.ID).Return(private, nil)
	charts.On("GetByID", ctx, public.ID).Return(public, nil)
	charts.On("IncrementViews", ctx, public.ID).Return(nil)

	_, err := svc.Get(ctx, other, private.ID)
	assert.Equal(t, errors.CodeForbidden, errors.GetCode(err))

	got, err := svc.Get(ctx, other, public.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ViewCount)
	charts.AssertNotCalled(t, "IncrementViews", ctx, private.ID)
}

func TestUpdateChartOnlyByOwner(t *testing.T) {
	ctx := context.Background()
	charts, _, svc := newChartFixture()
	c := savedChart(true)
	charts.On("GetByID", ctx, c.ID).Return(c, nil)
	charts.On("Update", ctx, c).Return(nil)

	title := "Quarterly revenue"
	_, err := svc.Update(ctx, other, c.ID, chart.Update{Title: &title})
	assert.Equal(t, errors.CodeForbidden, errors.GetCode(err))

	got, err := svc.Update(ctx, owner, c.ID, chart.Update{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Quarterly revenue", got.Title)

	empty := " "
	_, err = svc.Update(ctx, owner, c.ID, chart.Update{Title: &empty})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestDeleteChartDecrementsUploadCount(t *testing.T) {
	ctx := context.Background()
	charts, uploads, svc := newChartFixture()
	c := savedChart(false)
	charts.On("GetByID", ctx, c.ID).Return(c, nil)
	charts.On("Delete", ctx, c.ID).Return(nil)
	uploads.On("AdjustChartCount", ctx, c.UploadID, -1).Return(nil)

	require.NoError(t, svc.Delete(ctx, admin, c.ID))
	charts.AssertExpectations(t)
	uploads.AssertExpectations(t)
}

func TestIncrementDownload(t *testing.T) {
	ctx := context.Background()
	charts, _, svc := newChartFixture()
	c := savedChart(false)
	charts.On("GetByID", ctx, c.ID).Return(c, nil)
	charts.On("IncrementDownloads", ctx, c.ID).Return(4, nil)

	n, err := svc.IncrementDownload(ctx, owner, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
