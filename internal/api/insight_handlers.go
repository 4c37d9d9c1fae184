package api

import (
	"net/http"

	"sheetlens/app"
	"sheetlens/domain/core"
	"sheetlens/domain/insight"

	"github.com/gin-gonic/gin"
)

// insightView adds the rendered narrative to an insight
type insightView struct {
	*insight.Insight
	ContentHTML string `json:"content_html"`
}

func (s *Server) handleGenerateInsights(c *gin.Context) {
	uploadID, ok := paramID(c, "uploadId")
	if !ok {
		return
	}
	insights, err := s.services.Insights.Generate(c.Request.Context(), identityFrom(c), uploadID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Insights generated successfully",
		"insights": insights,
		"count":    len(insights),
	})
}

func (s *Server) handleGenerateInsight(c *gin.Context) {
	uploadID, ok := paramID(c, "uploadId")
	if !ok {
		return
	}
	kind, err := insight.ParseKind(c.Param("type"))
	if err != nil {
		respondError(c, err)
		return
	}
	var req generateInsightRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindingError(c, err)
			return
		}
	}
	if req.Column == "" {
		req.Column = c.Query("column")
	}

	in, err := s.services.Insights.GenerateSpecific(c.Request.Context(), identityFrom(c), uploadID, kind, req.Column)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"insight": in})
}

func (s *Server) handleListInsights(c *gin.Context) {
	var q insightListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindingError(c, err)
		return
	}
	insights, page, err := s.services.Insights.List(c.Request.Context(), identityFrom(c), app.InsightQuery{
		Kind:     insight.Kind(q.Type),
		UploadID: core.ID(q.UploadID),
		IsRead:   q.IsRead,
		Page:     q.Page,
		Limit:    q.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": insights, "pagination": page})
}

func (s *Server) handleListUploadInsights(c *gin.Context) {
	uploadID, ok := paramID(c, "uploadId")
	if !ok {
		return
	}
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindingError(c, err)
		return
	}
	insights, page, err := s.services.Insights.ListByUpload(c.Request.Context(), identityFrom(c), uploadID, q.Page, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": insights, "pagination": page})
}

func (s *Server) handleInsightStats(c *gin.Context) {
	stats, err := s.services.Insights.Stats(c.Request.Context(), identityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (s *Server) handleGetInsight(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	in, err := s.services.Insights.Get(c.Request.Context(), identityFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insight": insightView{Insight: in, ContentHTML: renderMarkdown(in.Content)}})
}

func (s *Server) handleMarkInsightRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.services.Insights.MarkRead(c.Request.Context(), identityFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Insight marked as read"})
}

func (s *Server) handleDeleteInsight(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.services.Insights.Delete(c.Request.Context(), identityFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Insight deleted successfully"})
}
