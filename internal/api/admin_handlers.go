package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleAdminDashboard(c *gin.Context) {
	dashboard, err := s.services.Admin.Dashboard(c.Request.Context(), identityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dashboard": dashboard})
}

func (s *Server) handleAdminStats(c *gin.Context) {
	stats, err := s.services.Admin.SystemStats(c.Request.Context(), identityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (s *Server) handleAdminActivity(c *gin.Context) {
	var q activityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindingError(c, err)
		return
	}
	activities, err := s.services.Admin.Activity(c.Request.Context(), identityFrom(c), q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": activities})
}
