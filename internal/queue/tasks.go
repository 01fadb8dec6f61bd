package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmaxwell/rasterfx/internal/raster"
	"github.com/hibiken/asynq"
)

const TypeApplyEffect = "effect:apply"

// ApplyEffectPayload is the queue-side wire shape of one effect job. Inline
// pixels travel base64-encoded inside the JSON body; object-store and
// local-file sources carry only a key.
type ApplyEffectPayload struct {
	JobID       string         `json:"job_id"`
	SourceType  string         `json:"source_type"`
	WebhookURL  string         `json:"webhook_url,omitempty"`
	ObjectKey   string         `json:"object_key,omitempty"`
	Effect      string         `json:"effect"`
	Params      map[string]any `json:"params,omitempty"`
	Image       *raster.Buffer `json:"image,omitempty"`
	RequestedAt time.Time      `json:"requested_at"`
}

func NewApplyEffectTask(payload ApplyEffectPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal effect payload: %w", err)
	}
	return asynq.NewTask(TypeApplyEffect, body), nil
}

func ParseApplyEffectPayload(task *asynq.Task) (ApplyEffectPayload, error) {
	var payload ApplyEffectPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ApplyEffectPayload{}, fmt.Errorf("unmarshal effect payload: %w", err)
	}
	return payload, nil
}
