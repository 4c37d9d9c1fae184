package api

import (
	"encoding/json"

	"sheetlens/domain/chart"
)

type pageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

type activityQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

type uploadListQuery struct {
	pageQuery
	Status string `form:"status" binding:"omitempty,oneof=processing completed failed"`
}

type insightListQuery struct {
	pageQuery
	Type     string `form:"type" binding:"omitempty,oneof=summary trend anomaly prediction recommendation"`
	UploadID string `form:"uploadId" binding:"omitempty,uuid"`
	IsRead   *bool  `form:"isRead"`
}

type generateInsightRequest struct {
	Column string `json:"column" form:"column"`
}

type chartListQuery struct {
	pageQuery
	ChartType      string `form:"chartType"`
	ChartDimension string `form:"chartDimension" binding:"omitempty,oneof=2D 3D"`
	UploadID       string `form:"uploadId" binding:"omitempty,uuid"`
}

type configurationRequest struct {
	XAxis    string                 `json:"xAxis" binding:"required"`
	YAxis    string                 `json:"yAxis" binding:"required"`
	ZAxis    string                 `json:"zAxis"`
	Labels   []string               `json:"labels"`
	Datasets []chart.Dataset        `json:"datasets"`
	Options  map[string]interface{} `json:"options"`
}

func (r configurationRequest) toDomain() chart.Configuration {
	return chart.Configuration{
		XAxis:    r.XAxis,
		YAxis:    r.YAxis,
		ZAxis:    r.ZAxis,
		Labels:   r.Labels,
		Datasets: r.Datasets,
		Options:  r.Options,
	}
}

type createChartRequest struct {
	UploadID       string               `json:"upload_id" binding:"required,uuid"`
	Title          string               `json:"title" binding:"required,max=200"`
	Description    string               `json:"description" binding:"max=1000"`
	ChartType      string               `json:"chart_type" binding:"required"`
	ChartDimension string               `json:"chart_dimension" binding:"omitempty,oneof=2D 3D"`
	Configuration  configurationRequest `json:"configuration" binding:"required"`
	ChartData      json.RawMessage      `json:"chart_data"`
	IsPublic       bool                 `json:"is_public"`
	Tags           []string             `json:"tags" binding:"omitempty,max=20,dive,max=50"`
}

type updateChartRequest struct {
	Title         *string               `json:"title" binding:"omitempty,max=200"`
	Description   *string               `json:"description" binding:"omitempty,max=1000"`
	Configuration *configurationRequest `json:"configuration"`
	ChartData     json.RawMessage       `json:"chart_data"`
	IsPublic      *bool                 `json:"is_public"`
	Tags          []string              `json:"tags" binding:"omitempty,max=20,dive,max=50"`
}

func (r updateChartRequest) toDomain() chart.Update {
	upd := chart.Update{
		Title:       r.Title,
		Description: r.Description,
		ChartData:   r.ChartData,
		IsPublic:    r.IsPublic,
		Tags:        r.Tags,
	}
	if r.Configuration != nil {
		cfg := r.Configuration.toDomain()
		upd.Configuration = &cfg
	}
	return upd
}
