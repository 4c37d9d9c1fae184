package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"sheetlens/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestGetCodeFromDomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"not found", core.ErrUploadNotFound, CodeNotFound, http.StatusNotFound},
		{"ownership", Forbidden("upload"), CodeForbidden, http.StatusForbidden},
		{"insufficient", core.NewInsufficientDataError("too short"), CodeInsufficientData, http.StatusUnprocessableEntity},
		{"unreadable", core.NewUnreadableFileError(stderrors.New("zip")), CodeUnreadableFile, http.StatusUnprocessableEntity},
		{"invalid", core.NewValidationError("title", "is required"), CodeInvalidInput, http.StatusBadRequest},
		{"wrapped domain", Wrap(fmt.Errorf("load: %w", core.ErrChartNotFound), "failed to load chart"), CodeNotFound, http.StatusNotFound},
		{"plain", stderrors.New("boom"), CodeInternalError, http.StatusInternalServerError},
		{"too large", FileTooLarge(10 << 20), CodeFileTooLarge, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, GetCode(tt.err))
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestWrapKeepsChain(t *testing.T) {
	err := Wrapf(core.ErrOwnership, "upload %s", "abc")
	assert.True(t, stderrors.Is(err, core.ErrOwnership))
	assert.Equal(t, CodeForbidden, GetCode(err))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeDatabaseError, stderrors.New("conn refused"))
	assert.Equal(t, CodeDatabaseError, GetCode(err))
	assert.Contains(t, err.Error(), "conn refused")
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Upload not found", NotFound("Upload").Message)
	assert.Equal(t, "Not authorized to access this upload", Forbidden("upload").Message)
	assert.Equal(t, "File size exceeds the 10MB limit", FileTooLarge(10<<20).Message)
}
