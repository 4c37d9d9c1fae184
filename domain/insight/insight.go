package insight

import (
	"encoding/json"
	"fmt"
	"time"

	"sheetlens/domain/core"
)

// Kind classifies an insight record
type Kind string

const (
	KindSummary        Kind = "summary"
	KindTrend          Kind = "trend"
	KindAnomaly        Kind = "anomaly"
	KindPrediction     Kind = "prediction"
	KindRecommendation Kind = "recommendation"
)

// ParseKind validates a kind supplied by a caller.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindSummary, KindTrend, KindAnomaly, KindPrediction, KindRecommendation:
		return k, nil
	}
	return "", core.NewValidationError("type", fmt.Sprintf("unknown insight type %q", s))
}

// Status of a stored insight
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// DefaultConfidence is applied to every generated insight when it is stored.
const DefaultConfidence = 85

// Severity of an advisory note inside an insight payload
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Note is a short advisory message attached to an insight payload.
type Note struct {
	Type     string   `json:"type"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity,omitempty"`
}

// Record is an insight as produced by analysis, before it is owned by anyone.
// Data holds the kind-specific payload.
type Record struct {
	Kind            Kind        `json:"type"`
	Title           string      `json:"title"`
	Content         string      `json:"content"`
	Data            interface{} `json:"data"`
	ConfidenceScore int         `json:"confidence"`
}

// Insight is a persisted insight record scoped to an owner and an upload.
type Insight struct {
	ID         core.ID         `json:"id" db:"id"`
	OwnerID    core.ID         `json:"owner_id" db:"owner_id"`
	UploadID   core.ID         `json:"upload_id" db:"upload_id"`
	Kind       Kind            `json:"type" db:"kind"`
	Title      string          `json:"title" db:"title"`
	Content    string          `json:"content" db:"content"`
	Data       json.RawMessage `json:"data" db:"data"`
	Confidence int             `json:"confidence" db:"confidence"`
	Status     Status          `json:"status" db:"status"`
	IsRead     bool            `json:"is_read" db:"is_read"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// New binds a generated record to its owner and upload. A zero confidence on
// the record means "use the default policy".
func New(owner, upload core.ID, rec Record) (*Insight, error) {
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s insight data: %w", rec.Kind, err)
	}

	confidence := rec.ConfidenceScore
	if confidence <= 0 {
		confidence = DefaultConfidence
	}
	if confidence > 100 {
		confidence = 100
	}

	now := time.Now().UTC()
	return &Insight{
		ID:         core.NewID(),
		OwnerID:    owner,
		UploadID:   upload,
		Kind:       rec.Kind,
		Title:      rec.Title,
		Content:    rec.Content,
		Data:       data,
		Confidence: confidence,
		Status:     StatusCompleted,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Stats summarizes a user's insights.
type Stats struct {
	Total  int          `json:"total"`
	Unread int          `json:"unread"`
	ByKind map[Kind]int `json:"by_type"`
}
