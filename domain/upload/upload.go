package upload

import (
	"path/filepath"
	"strings"
	"time"

	"sheetlens/domain/core"
	"sheetlens/domain/table"
	"sheetlens/domain/workbook"
)

// Status represents the processing state of an upload
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Accepted spreadsheet MIME types
const (
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeXLS  = "application/vnd.ms-excel"
)

// MaxFileSize is the default intake limit.
const MaxFileSize = 10 * 1024 * 1024

var allowedExtensions = map[string]bool{".xls": true, ".xlsx": true}

// Upload is a stored spreadsheet and its parsed content.
type Upload struct {
	ID               core.ID                      `json:"id"`
	OwnerID          core.ID                      `json:"owner_id"`
	OriginalFileName string                       `json:"original_file_name"`
	StoredFileRef    string                       `json:"stored_file_ref"`
	FileSizeBytes    int64                        `json:"file_size_bytes"`
	MimeType         string                       `json:"mime_type"`
	ContentHash      core.Hash                    `json:"content_hash"`
	SheetCount       int                          `json:"sheet_count"`
	RowCount         int                          `json:"row_count"`
	ColumnCount      int                          `json:"column_count"`
	SheetNames       []string                     `json:"sheet_names"`
	ParsedData       map[string]*table.SheetTable `json:"parsed_data,omitempty"`
	Status           Status                       `json:"status"`
	ErrorMessage     string                       `json:"error_message,omitempty"`
	ChartCount       int                          `json:"chart_count"`
	DownloadCount    int                          `json:"download_count"`
	IsDeleted        bool                         `json:"-"`
	CreatedAt        time.Time                    `json:"created_at"`
	UpdatedAt        time.Time                    `json:"updated_at"`
}

// New creates an upload record in the processing state.
func New(owner core.ID, originalName, storedRef, mimeType string, content []byte) *Upload {
	now := time.Now().UTC()
	return &Upload{
		ID:               core.NewID(),
		OwnerID:          owner,
		OriginalFileName: originalName,
		StoredFileRef:    storedRef,
		FileSizeBytes:    int64(len(content)),
		MimeType:         mimeType,
		ContentHash:      core.NewHash(content),
		SheetNames:       []string{},
		Status:           StatusProcessing,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// ApplyResult moves the upload to completed or failed according to the parse
// outcome.
func (u *Upload) ApplyResult(res workbook.Result) {
	u.UpdatedAt = time.Now().UTC()
	if !res.Success {
		u.Status = StatusFailed
		u.ErrorMessage = res.ErrorMessage
		u.ParsedData = nil
		return
	}
	u.Status = StatusCompleted
	u.ErrorMessage = ""
	u.SheetCount = res.Workbook.SheetCount
	u.RowCount = res.Workbook.TotalRows
	u.ColumnCount = res.Workbook.TotalColumns
	u.SheetNames = res.Workbook.SheetNames
	u.ParsedData = res.Sheets
}

// Workbook rebuilds the parse result from the stored record.
func (u *Upload) Workbook() *workbook.Result {
	if u.Status != StatusCompleted {
		return &workbook.Result{Success: false, ErrorMessage: u.ErrorMessage}
	}
	return &workbook.Result{
		Success: true,
		Workbook: workbook.Metadata{
			SheetNames:   u.SheetNames,
			SheetCount:   u.SheetCount,
			TotalRows:    u.RowCount,
			TotalColumns: u.ColumnCount,
		},
		Sheets: u.ParsedData,
	}
}

// ValidateFile checks the file name, declared MIME type and size against the
// intake rules.
func ValidateFile(name, mimeType string, size int64, limit int64) error {
	if limit <= 0 {
		limit = MaxFileSize
	}
	if size <= 0 {
		return core.NewValidationError("file", "is empty")
	}
	if size > limit {
		return core.NewValidationError("file", "exceeds the upload size limit")
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return core.NewValidationError("file", "must be an Excel spreadsheet (.xls or .xlsx)")
	}
	if !IsSpreadsheetMime(mimeType) {
		return core.NewValidationError("file", "has an unsupported content type "+mimeType)
	}
	return nil
}

// IsSpreadsheetMime reports whether the declared type is one of the two
// accepted spreadsheet formats. Parameters such as charset are ignored.
func IsSpreadsheetMime(mimeType string) bool {
	base := strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
	return base == MimeXLSX || base == MimeXLS
}

// Stats summarizes a user's uploads.
type Stats struct {
	TotalUploads int            `json:"total_uploads"`
	TotalSize    int64          `json:"total_size"`
	TotalRows    int            `json:"total_rows"`
	TotalCharts  int            `json:"total_charts"`
	ByStatus     map[Status]int `json:"by_status"`
}

// SystemStats summarizes uploads across every owner.
type SystemStats struct {
	TotalUploads int     `json:"total_uploads"`
	TotalSize    int64   `json:"total_size"`
	TotalSheets  int     `json:"total_sheets"`
	TotalRows    int     `json:"total_rows"`
	AvgFileSize  float64 `json:"avg_file_size"`
	MaxFileSize  int64   `json:"max_file_size"`
}

// DailyCount is the number of uploads created on one UTC day (YYYY-MM-DD).
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
