package api

import (
	"net/http"

	"sheetlens/app"
	"sheetlens/domain/chart"
	"sheetlens/domain/core"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleCreateChart(c *gin.Context) {
	var req createChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	ch, err := s.services.Charts.Create(c.Request.Context(), identityFrom(c), app.ChartInput{
		UploadID:      core.ID(req.UploadID),
		Title:         req.Title,
		Description:   req.Description,
		ChartType:     chart.Type(req.ChartType),
		Dimension:     chart.Dimension(req.ChartDimension),
		Configuration: req.Configuration.toDomain(),
		ChartData:     req.ChartData,
		IsPublic:      req.IsPublic,
		Tags:          req.Tags,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Chart created successfully", "chart": ch})
}

func (s *Server) handleListCharts(c *gin.Context) {
	var q chartListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindingError(c, err)
		return
	}
	charts, page, err := s.services.Charts.List(c.Request.Context(), identityFrom(c), app.ChartQuery{
		UploadID:  core.ID(q.UploadID),
		ChartType: chart.Type(q.ChartType),
		Dimension: chart.Dimension(q.ChartDimension),
		Page:      q.Page,
		Limit:     q.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"charts": charts, "pagination": page})
}

func (s *Server) handleListUploadCharts(c *gin.Context) {
	uploadID, ok := paramID(c, "uploadId")
	if !ok {
		return
	}
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindingError(c, err)
		return
	}
	charts, page, err := s.services.Charts.ListByUpload(c.Request.Context(), identityFrom(c), uploadID, q.Page, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"charts": charts, "pagination": page})
}

func (s *Server) handleChartStats(c *gin.Context) {
	stats, err := s.services.Charts.Stats(c.Request.Context(), identityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (s *Server) handleGetChart(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ch, err := s.services.Charts.Get(c.Request.Context(), identityFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chart": ch})
}

func (s *Server) handleUpdateChart(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updateChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	ch, err := s.services.Charts.Update(c.Request.Context(), identityFrom(c), id, req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Chart updated successfully", "chart": ch})
}

func (s *Server) handleDeleteChart(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.services.Charts.Delete(c.Request.Context(), identityFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Chart deleted successfully"})
}

func (s *Server) handleDownloadChart(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	count, err := s.services.Charts.IncrementDownload(c.Request.Context(), identityFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"download_count": count})
}

func (s *Server) handleOverview(c *gin.Context) {
	overview, err := s.services.Overview.Get(c.Request.Context(), identityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"overview": overview})
}
