package app

import (
	"context"
	"time"

	"sheetlens/domain/core"
	"sheetlens/domain/table"
	"sheetlens/domain/upload"
	"sheetlens/internal"
	"sheetlens/internal/analysis"
	"sheetlens/internal/errors"
	"sheetlens/internal/metrics"
	"sheetlens/ports"
)

// UploadService handles spreadsheet intake and the upload lifecycle
type UploadService struct {
	uploads      ports.UploadRepository
	storage      ports.FileStorage
	parser       ports.WorkbookParser
	metrics      *metrics.Metrics
	logger       *internal.Logger
	maxBytes     int64
	defaultLimit int
}

// UploadServiceConfig holds intake limits
type UploadServiceConfig struct {
	MaxUploadBytes   int64
	DefaultPageLimit int
}

// UploadRequest is one file received from a client
type UploadRequest struct {
	FileName string
	MimeType string
	Content  []byte
}

// SheetData is the parsed content returned by GetData
type SheetData struct {
	UploadID   core.ID                      `json:"upload_id"`
	SheetNames []string                     `json:"sheet_names"`
	Sheets     map[string]*table.SheetTable `json:"sheets"`
}

// SheetProfile describes every column of one parsed sheet
type SheetProfile struct {
	UploadID core.ID                  `json:"upload_id"`
	Sheet    string                   `json:"sheet"`
	RowCount int                      `json:"row_count"`
	Columns  []analysis.ColumnProfile `json:"columns"`
}

// NewUploadService creates an upload service
func NewUploadService(uploads ports.UploadRepository, storage ports.FileStorage, parser ports.WorkbookParser, m *metrics.Metrics, cfg UploadServiceConfig) *UploadService {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = upload.MaxFileSize
	}
	if cfg.DefaultPageLimit <= 0 {
		cfg.DefaultPageLimit = 10
	}
	return &UploadService{
		uploads:      uploads,
		storage:      storage,
		parser:       parser,
		metrics:      m,
		logger:       internal.DefaultLogger.WithPrefix("UploadService"),
		maxBytes:     cfg.MaxUploadBytes,
		defaultLimit: cfg.DefaultPageLimit,
	}
}

// Upload validates, stores and parses a spreadsheet. A file that cannot be
// parsed is still recorded with status failed; the returned error then
// carries the parse failure alongside the record.
func (s *UploadService) Upload(ctx context.Context, id core.Identity, req UploadRequest) (*upload.Upload, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if err := upload.ValidateFile(req.FileName, req.MimeType, int64(len(req.Content)), s.maxBytes); err != nil {
		return nil, err
	}

	ref, err := s.storage.Store(ctx, req.FileName, req.Content)
	if err != nil {
		return nil, errors.Wrap(err, "failed to store uploaded file")
	}

	u := upload.New(id.UserID, req.FileName, ref, req.MimeType, req.Content)
	if err := s.uploads.Create(ctx, u); err != nil {
		s.removeFile(ctx, ref)
		return nil, resolve(err, "Upload")
	}

	start := time.Now()
	res := s.parser.Parse(req.Content)
	s.metrics.ObserveParse(time.Since(start), res.Success)

	u.ApplyResult(res)
	if !res.Success {
		s.logger.Warn("parse failed for %s (%s): %s", u.ID, req.FileName, res.ErrorMessage)
		s.removeFile(ctx, ref)
		u.StoredFileRef = ""
	}

	if err := s.uploads.Update(ctx, u); err != nil {
		return nil, resolve(err, "Upload")
	}
	s.metrics.UploadProcessed(string(u.Status))
	s.logger.Info("upload %s stored: %d sheets, %d rows, status %s", u.ID, u.SheetCount, u.RowCount, u.Status)

	if !res.Success {
		parseErr := res.Err
		if parseErr == nil {
			parseErr = core.NewUnreadableFileError(nil)
		}
		return u, errors.Wrap(parseErr, "Error processing Excel file")
	}
	return u, nil
}

// List returns the caller's uploads, newest first
func (s *UploadService) List(ctx context.Context, id core.Identity, status upload.Status, pageNumber, limit int) ([]*upload.Upload, ports.PageInfo, error) {
	if err := requireIdentity(id); err != nil {
		return nil, ports.PageInfo{}, err
	}
	return s.list(ctx, ports.UploadFilter{OwnerID: id.UserID, Status: status}, pageNumber, limit)
}

// ListAll returns every user's uploads. Admin only.
func (s *UploadService) ListAll(ctx context.Context, id core.Identity, status upload.Status, pageNumber, limit int) ([]*upload.Upload, ports.PageInfo, error) {
	if err := requireAdmin(id); err != nil {
		return nil, ports.PageInfo{}, err
	}
	return s.list(ctx, ports.UploadFilter{Status: status}, pageNumber, limit)
}

func (s *UploadService) list(ctx context.Context, filter ports.UploadFilter, pageNumber, limit int) ([]*upload.Upload, ports.PageInfo, error) {
	page := ports.NewPage(pageNumber, limit, s.defaultLimit)
	uploads, total, err := s.uploads.List(ctx, filter, page)
	if err != nil {
		return nil, ports.PageInfo{}, resolve(err, "Upload")
	}
	return uploads, page.Info(total), nil
}

// Get returns one upload, including parsed data
func (s *UploadService) Get(ctx context.Context, id core.Identity, uploadID core.ID) (*upload.Upload, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	u, err := s.uploads.GetByID(ctx, uploadID)
	if err != nil {
		return nil, resolve(err, "Upload")
	}
	if !id.CanAccess(u.OwnerID) {
		return nil, errors.Forbidden("upload")
	}
	return u, nil
}

// GetData returns the parsed sheets of an upload, or only the named one
func (s *UploadService) GetData(ctx context.Context, id core.Identity, uploadID core.ID, sheet string) (*SheetData, error) {
	u, err := s.Get(ctx, id, uploadID)
	if err != nil {
		return nil, err
	}
	if u.Status != upload.StatusCompleted {
		return nil, errors.InvalidInput("Upload has not been processed successfully")
	}

	data := &SheetData{UploadID: u.ID, SheetNames: u.SheetNames, Sheets: u.ParsedData}
	if sheet == "" {
		return data, nil
	}
	t, ok := u.ParsedData[sheet]
	if !ok {
		return nil, errors.NotFound("Sheet")
	}
	data.SheetNames = []string{sheet}
	data.Sheets = map[string]*table.SheetTable{sheet: t}
	return data, nil
}

// Columns classifies each column of a sheet and computes its statistics.
// An empty sheet name selects the first sheet.
func (s *UploadService) Columns(ctx context.Context, id core.Identity, uploadID core.ID, sheet string) (*SheetProfile, error) {
	u, err := s.Get(ctx, id, uploadID)
	if err != nil {
		return nil, err
	}
	if u.Status != upload.StatusCompleted {
		return nil, errors.InvalidInput("Upload has not been processed successfully")
	}
	if sheet == "" {
		if len(u.SheetNames) == 0 {
			return nil, errors.NotFound("Sheet")
		}
		sheet = u.SheetNames[0]
	}
	t, ok := u.ParsedData[sheet]
	if !ok || t == nil {
		return nil, errors.NotFound("Sheet")
	}
	return &SheetProfile{
		UploadID: u.ID,
		Sheet:    sheet,
		RowCount: t.RowCount,
		Columns:  analysis.ProfileColumns(t),
	}, nil
}

// Delete soft-deletes an upload and removes its stored file
func (s *UploadService) Delete(ctx context.Context, id core.Identity, uploadID core.ID) error {
	u, err := s.Get(ctx, id, uploadID)
	if err != nil {
		return err
	}
	if err := s.uploads.SoftDelete(ctx, u.ID); err != nil {
		return resolve(err, "Upload")
	}
	if u.StoredFileRef != "" {
		s.removeFile(ctx, u.StoredFileRef)
	}
	s.logger.Info("upload %s deleted by %s", u.ID, id.UserID)
	return nil
}

// Stats summarizes the caller's uploads
func (s *UploadService) Stats(ctx context.Context, id core.Identity) (*upload.Stats, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	stats, err := s.uploads.Stats(ctx, id.UserID)
	if err != nil {
		return nil, resolve(err, "Upload")
	}
	return stats, nil
}

func (s *UploadService) removeFile(ctx context.Context, ref string) {
	if err := s.storage.Delete(ctx, ref); err != nil {
		s.logger.Warn("failed to remove stored file %s: %v", ref, err)
	}
}
