package api

import (
	stderrors "errors"
	"io"
	"net/http"

	"sheetlens/app"
	"sheetlens/domain/upload"
	"sheetlens/internal/errors"

	"github.com/gin-gonic/gin"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 1 << 20

func (s *Server) maxUploadBytes() int64 {
	if s.opts.MaxUploadBytes > 0 {
		return s.opts.MaxUploadBytes
	}
	return upload.MaxFileSize
}

func (s *Server) handleUpload(c *gin.Context) {
	limit := s.maxUploadBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			respondError(c, errors.FileTooLarge(limit))
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded", "code": errors.CodeInvalidInput})
		return
	}
	if header.Size > limit {
		respondError(c, errors.FileTooLarge(limit))
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, errors.Wrap(err, "failed to open uploaded file"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(c, errors.Wrap(err, "failed to read uploaded file"))
		return
	}

	u, err := s.services.Uploads.Upload(c.Request.Context(), identityFrom(c), app.UploadRequest{
		FileName: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Content:  content,
	})
	if err != nil {
		body := errorBody(c, err)
		if u != nil {
			body["upload"] = u
		}
		c.JSON(errorStatus(err), body)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded and processed successfully",
		"upload":  u,
	})
}

func (s *Server) handleListUploads(c *gin.Context) {
	var q uploadListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindingError(c, err)
		return
	}
	uploads, page, err := s.services.Uploads.List(c.Request.Context(), identityFrom(c), upload.Status(q.Status), q.Page, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploads": uploads, "pagination": page})
}

func (s *Server) handleListAllUploads(c *gin.Context) {
	var q uploadListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindingError(c, err)
		return
	}
	uploads, page, err := s.services.Uploads.ListAll(c.Request.Context(), identityFrom(c), upload.Status(q.Status), q.Page, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploads": uploads, "pagination": page})
}

func (s *Server) handleUploadStats(c *gin.Context) {
	stats, err := s.services.Uploads.Stats(c.Request.Context(), identityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (s *Server) handleGetUpload(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	u, err := s.services.Uploads.Get(c.Request.Context(), identityFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"upload": u})
}

func (s *Server) handleGetUploadData(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	data, err := s.services.Uploads.GetData(c.Request.Context(), identityFrom(c), id, c.Query("sheet"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func (s *Server) handleGetUploadColumns(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	profile, err := s.services.Uploads.Columns(c.Request.Context(), identityFrom(c), id, c.Query("sheet"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (s *Server) handleDeleteUpload(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.services.Uploads.Delete(c.Request.Context(), identityFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Upload deleted successfully"})
}
