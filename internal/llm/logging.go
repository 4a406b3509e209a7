package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/edumind/edumind/internal/store"
)

// maxLogRecords bounds the rolling request log.
const maxLogRecords = 200

// CallRecord is one logged LLM request.
type CallRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	Model        string    `json:"model"`
	Purpose      string    `json:"purpose"`
	LatencyMs    int64     `json:"latencyMs"`
	Success      bool      `json:"success"`
	InputTokens  int       `json:"inputTokens"`
	OutputTokens int       `json:"outputTokens"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	RequestBody  string    `json:"requestBody,omitempty"`
	ResponseBody string    `json:"responseBody,omitempty"`
}

// Log is a bounded, newest-first request log stored under one key.
type Log struct {
	kv *store.Store
}

// NewLog creates a request log over kv.
func NewLog(kv *store.Store) *Log {
	return &Log{kv: kv}
}

// Append inserts rec at the head and trims the log to its bound.
func (l *Log) Append(rec CallRecord) error {
	records, err := l.Records()
	if err != nil {
		return err
	}
	records = append([]CallRecord{rec}, records...)
	if len(records) > maxLogRecords {
		records = records[:maxLogRecords]
	}
	return l.kv.PutJSON(store.KeyLLMLog, records)
}

// Records returns the logged requests, newest first. An absent or
// unparseable log reads as empty.
func (l *Log) Records() ([]CallRecord, error) {
	var records []CallRecord
	if err := l.kv.GetJSON(store.KeyLLMLog, &records); err != nil {
		return nil, nil
	}
	return records, nil
}

// LoggingProvider is a decorator that records every LLM request.
type LoggingProvider struct {
	inner Provider
	log   *Log
}

// WithLogging wraps a Provider with request logging.
func WithLogging(p Provider, log *Log) Provider {
	return &LoggingProvider{inner: p, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	rec := CallRecord{
		Timestamp:   start,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		rec.InputTokens = resp.Usage.InputTokens
		rec.OutputTokens = resp.Usage.OutputTokens
		rec.Model = resp.Model
		rec.ResponseBody = string(resp.Content)
	}

	if err != nil {
		rec.ErrorMessage = err.Error()
	}

	// Log the record but don't fail the request if logging fails.
	if logErr := l.log.Append(rec); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log LLM request: %v\n", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		if m.Attachment != nil {
			b.WriteString(fmt.Sprintf("\n[attachment: %s, %d bytes]", m.Attachment.MIME, len(m.Attachment.Data)))
		}
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			b.WriteString(fmt.Sprintf("[schema: %s]\n", req.Schema.Name))
			b.WriteString(string(schemaDef))
			b.WriteString("\n")
		}
	}

	return b.String()
}
