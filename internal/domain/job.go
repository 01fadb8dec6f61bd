package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmaxwell/rasterfx/internal/raster"
)

const (
	JobStatusCreated    = "created"
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusSucceeded  = "succeeded"
	JobStatusFailed     = "failed"

	SourceTypeLocalFile   = "local_file"
	SourceTypeS3Presigned = "s3_presigned"
	SourceTypeInline      = "inline"
)

// EffectJob is one unit of work crossing the dispatch boundary: a correlation
// id, an effect tag, its parameters and the input raster. The id is
// caller-generated and must be unique among in-flight jobs.
type EffectJob struct {
	ID     string         `json:"id"`
	Effect string         `json:"effect"`
	Params map[string]any `json:"params,omitempty"`
	Input  *raster.Buffer `json:"image"`
}

// EffectOutcome is the reply correlated to exactly one EffectJob. On failure
// Err is set and Output echoes the original input unchanged, so a failed
// effect composites back as a visual no-op.
type EffectOutcome struct {
	ID     string         `json:"id"`
	Output *raster.Buffer `json:"image"`
	Err    string         `json:"error,omitempty"`
}

// Failed reports whether the outcome carries the pass-through error variant.
func (o EffectOutcome) Failed() bool {
	return o.Err != ""
}

// CreateJobRequest is the API-facing shape for asynchronous effect jobs.
type CreateJobRequest struct {
	SourceType string         `json:"source_type"`
	WebhookURL string         `json:"webhook_url,omitempty"`
	ObjectKey  string         `json:"object_key,omitempty"`
	Effect     string         `json:"effect"`
	Params     map[string]any `json:"params,omitempty"`
	Image      *raster.Buffer `json:"image,omitempty"`
}

type Job struct {
	ID         string
	UserID     string
	Status     string
	SourceType string
	WebhookURL string
	Effect     string
	Params     map[string]any
	ObjectKey  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r CreateJobRequest) Validate() error {
	sourceType := strings.ToLower(strings.TrimSpace(r.SourceType))
	if sourceType == "" {
		return errors.New("source_type is required")
	}
	switch sourceType {
	case SourceTypeLocalFile, SourceTypeS3Presigned, SourceTypeInline:
	default:
		return fmt.Errorf("unsupported source_type: %s", r.SourceType)
	}
	if sourceType == SourceTypeLocalFile && strings.TrimSpace(r.ObjectKey) == "" {
		return errors.New("object_key is required for source_type=local_file")
	}
	if sourceType == SourceTypeInline {
		if r.Image == nil {
			return errors.New("image is required for source_type=inline")
		}
		if err := r.Image.Validate(); err != nil {
			return fmt.Errorf("invalid inline image: %w", err)
		}
	}
	if strings.TrimSpace(r.Effect) == "" {
		return errors.New("effect is required")
	}
	return nil
}
