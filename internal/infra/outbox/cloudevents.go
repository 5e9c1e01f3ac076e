package outbox

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	appoutbox "stayhub/internal/app/outbox"
)

const defaultSource = "app://stayhub"

type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Envelope turns event records into CloudEvents 1.0 JSON messages.
type Envelope struct {
	TopicPrefix string
	Source      string
}

// Topic maps "property.created" to "<prefix>property.events.v1".
func (e Envelope) Topic(name string) string {
	base := name
	if idx := strings.IndexRune(name, '.'); idx > 0 {
		base = name[:idx]
	}
	return e.TopicPrefix + base + ".events.v1"
}

func (e Envelope) Format(rec appoutbox.EventRecord) ([]byte, map[string]string, error) {
	data := map[string]any{}
	if len(rec.Payload) > 0 {
		if err := json.Unmarshal(rec.Payload, &data); err != nil {
			return nil, nil, err
		}
	}
	evt := map[string]any{
		"specversion":     "1.0",
		"id":              rec.ID,
		"type":            rec.Name + ".v1",
		"source":          e.source(),
		"subject":         rec.Aggregate,
		"time":            rec.OccurredAt,
		"datacontenttype": "application/json",
		"data":            data,
	}
	if evt["id"] == "" {
		evt["id"] = uuid.NewString()
	}
	if trace, ok := rec.Headers["traceparent"]; ok {
		evt["traceparent"] = trace
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, nil, err
	}
	headers := map[string]string{"content-type": "application/cloudevents+json"}
	for k, v := range rec.Headers {
		headers[k] = v
	}
	return payload, headers, nil
}

func (e Envelope) source() string {
	if e.Source != "" {
		return e.Source
	}
	return defaultSource
}

// RecordPublisher sends one record straight to a producer. The memory
// outbox uses it on flush.
type RecordPublisher struct {
	Producer Producer
	Envelope Envelope
}

func (p RecordPublisher) Publish(ctx context.Context, rec appoutbox.EventRecord) error {
	payload, headers, err := p.Envelope.Format(rec)
	if err != nil {
		return err
	}
	return p.Producer.Publish(ctx, p.Envelope.Topic(rec.Name), rec.Aggregate, payload, headers)
}
