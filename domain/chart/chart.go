package chart

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"sheetlens/domain/core"
)

// Type is the visualization kind of a chart
type Type string

const (
	TypeBar       Type = "bar"
	TypeLine      Type = "line"
	TypePie       Type = "pie"
	TypeDoughnut  Type = "doughnut"
	TypeScatter   Type = "scatter"
	TypeArea      Type = "area"
	TypeRadar     Type = "radar"
	TypePolarArea Type = "polarArea"
	TypeBubble    Type = "bubble"
	Type3DBar     Type = "3d-bar"
	Type3DScatter Type = "3d-scatter"
	Type3DSurface Type = "3d-surface"
	Type3DLine    Type = "3d-line"
)

var knownTypes = map[Type]bool{
	TypeBar: true, TypeLine: true, TypePie: true, TypeDoughnut: true, TypeScatter: true,
	TypeArea: true, TypeRadar: true, TypePolarArea: true, TypeBubble: true,
	Type3DBar: true, Type3DScatter: true, Type3DSurface: true, Type3DLine: true,
}

// Dimension of a chart
type Dimension string

const (
	Dimension2D Dimension = "2D"
	Dimension3D Dimension = "3D"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

// Dataset is one series of a chart
type Dataset struct {
	Label           string        `json:"label"`
	Data            []interface{} `json:"data"`
	BackgroundColor interface{}   `json:"backgroundColor,omitempty"`
	BorderColor     interface{}   `json:"borderColor,omitempty"`
	BorderWidth     float64       `json:"borderWidth,omitempty"`
}

// Configuration references table headers by name.
type Configuration struct {
	XAxis    string                 `json:"xAxis"`
	YAxis    string                 `json:"yAxis"`
	ZAxis    string                 `json:"zAxis,omitempty"`
	Labels   []string               `json:"labels,omitempty"`
	Datasets []Dataset              `json:"datasets,omitempty"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

// Chart is a stored chart definition with its materialized payload.
type Chart struct {
	ID            core.ID         `json:"id"`
	OwnerID       core.ID         `json:"owner_id"`
	UploadID      core.ID         `json:"upload_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	ChartType     Type            `json:"chart_type"`
	Dimension     Dimension       `json:"chart_dimension"`
	Configuration Configuration   `json:"configuration"`
	ChartData     json.RawMessage `json:"chart_data"`
	ImageURL      string          `json:"image_url,omitempty"`
	ViewCount     int             `json:"view_count"`
	DownloadCount int             `json:"download_count"`
	IsPublic      bool            `json:"is_public"`
	Tags          []string        `json:"tags"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Validate checks the fields a caller controls.
func (c *Chart) Validate() error {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return core.NewValidationError("title", "is required")
	}
	if len([]rune(title)) > MaxTitleLength {
		return core.NewValidationError("title", fmt.Sprintf("cannot be more than %d characters", MaxTitleLength))
	}
	if len([]rune(c.Description)) > MaxDescriptionLength {
		return core.NewValidationError("description", fmt.Sprintf("cannot be more than %d characters", MaxDescriptionLength))
	}
	if !knownTypes[c.ChartType] {
		return core.NewValidationError("chart_type", fmt.Sprintf("%q is not supported", c.ChartType))
	}
	if c.Dimension != Dimension2D && c.Dimension != Dimension3D {
		return core.NewValidationError("chart_dimension", "must be 2D or 3D")
	}
	if strings.TrimSpace(c.Configuration.XAxis) == "" || strings.TrimSpace(c.Configuration.YAxis) == "" {
		return core.NewValidationError("configuration", "xAxis and yAxis are required")
	}
	if len(c.ChartData) > 0 && !json.Valid(c.ChartData) {
		return core.NewValidationError("chart_data", "must be valid JSON")
	}
	c.Title = title
	return nil
}

// Update carries the fields a chart owner may change. Nil fields are left
// untouched.
type Update struct {
	Title         *string         `json:"title"`
	Description   *string         `json:"description"`
	Configuration *Configuration  `json:"configuration"`
	ChartData     json.RawMessage `json:"chart_data"`
	IsPublic      *bool           `json:"is_public"`
	Tags          []string        `json:"tags"`
}

// Apply copies the allowed fields onto c and revalidates it.
func (u Update) Apply(c *Chart) error {
	if u.Title != nil {
		c.Title = *u.Title
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
	if u.Configuration != nil {
		c.Configuration = *u.Configuration
	}
	if len(u.ChartData) > 0 {
		c.ChartData = u.ChartData
	}
	if u.IsPublic != nil {
		c.IsPublic = *u.IsPublic
	}
	if u.Tags != nil {
		c.Tags = u.Tags
	}
	c.UpdatedAt = time.Now().UTC()
	return c.Validate()
}

// CanView reports whether the caller may read the chart.
func (c *Chart) CanView(id core.Identity) bool {
	return c.IsPublic || id.CanAccess(c.OwnerID)
}

// Stats summarizes a user's charts.
type Stats struct {
	TotalCharts    int          `json:"total_charts"`
	TotalViews     int          `json:"total_views"`
	TotalDownloads int          `json:"total_downloads"`
	ByType         map[Type]int `json:"by_type"`
}

// TypeUsage aggregates every chart of one type.
type TypeUsage struct {
	Type      Type `json:"chart_type"`
	Count     int  `json:"count"`
	Views     int  `json:"total_views"`
	Downloads int  `json:"total_downloads"`
}

// SystemStats summarizes charts across every owner. ByType is ordered by
// count, largest first.
type SystemStats struct {
	TotalCharts int               `json:"total_charts"`
	ByDimension map[Dimension]int `json:"by_dimension"`
	ByType      []TypeUsage       `json:"by_type"`
}

// SortTypeUsage orders usage by count descending, then by type name.
func SortTypeUsage(usage []TypeUsage) {
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].Count != usage[j].Count {
			return usage[i].Count > usage[j].Count
		}
		return usage[i].Type < usage[j].Type
	})
}
