package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrInvalidShape = errors.New("analysis: response content is not a JSON object")

const (
	FieldMetadata       = "analysis_metadata"
	FieldMetrics        = "qualitative_metrics"
	FieldPatterns       = "pattern_analysis"
	FieldSummary        = "executive_summary"
	FieldTokenUsage     = "token_usage"
	FieldStatus         = "status"
	fieldHandleAnalyzed = "handle_analyzed"
)

var (
	RequiredTopLevelFields = []string{FieldMetadata, FieldMetrics, FieldPatterns, FieldSummary, FieldTokenUsage, FieldStatus}
	RequiredMetadataFields = []string{"handle_analyzed", "date_range_start", "date_range_end", "total_posts_analyzed", "analysis_timestamp"}
	RequiredMetrics        = []string{"tone_consistency", "content_coherence", "engagement_quality", "authenticity_signal", "topical_focus"}
	RequiredPatternFields  = []string{"dominant_themes", "posting_frequency", "communication_style", "engagement_pattern"}
	RequiredSummaryFields  = []string{"overview", "key_insights"}
)

type Metadata struct {
	HandleAnalyzed     string  `json:"handle_analyzed"`
	DateRangeStart     string  `json:"date_range_start"`
	DateRangeEnd       string  `json:"date_range_end"`
	TotalPostsAnalyzed float64 `json:"total_posts_analyzed"`
	AnalysisTimestamp  string  `json:"analysis_timestamp"`
}

type Metric struct {
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
}

type Patterns struct {
	DominantThemes     []string        `json:"dominant_themes"`
	PostingFrequency   json.RawMessage `json:"posting_frequency"`
	CommunicationStyle json.RawMessage `json:"communication_style"`
	EngagementPattern  json.RawMessage `json:"engagement_pattern"`
}

type Summary struct {
	Overview    string   `json:"overview"`
	KeyInsights []string `json:"key_insights"`
}

type Status struct {
	Success  bool     `json:"success"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors,omitempty"`
}

// Result is the model's analysis document. Fields are kept as raw JSON in the model's key
// order so anything the model adds passes through to the caller untouched; typed views
// decode on demand.
type Result struct {
	fields map[string]json.RawMessage
	order  []string
}

// ParseResult parses the provider's message content. The content must be a single JSON
// object; anything else is ErrInvalidShape.
func ParseResult(content string) (Result, error) {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") {
		return Result{}, ErrInvalidShape
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	if fields == nil {
		return Result{}, ErrInvalidShape
	}
	order, err := topLevelKeys([]byte(trimmed))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	return Result{fields: fields, order: order}, nil
}

// topLevelKeys returns the object's keys in document order. A repeated key keeps its
// first position.
func topLevelKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		if !slices.Contains(keys, key) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (r Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(r.fields[name])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Result) UnmarshalJSON(data []byte) error {
	parsed, err := ParseResult(string(data))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Has reports whether field is present and not null.
func (r Result) Has(field string) bool {
	raw, ok := r.fields[field]
	return ok && !isNull(raw)
}

// Fields returns the top-level field names in document order.
func (r Result) Fields() []string {
	return slices.Clone(r.order)
}

// Object returns the raw sub-fields of an object-valued top-level field.
func (r Result) Object(field string) (map[string]json.RawMessage, error) {
	var out map[string]json.RawMessage
	if err := r.decode(field, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r Result) Metadata() (Metadata, error) {
	var m Metadata
	return m, r.decode(FieldMetadata, &m)
}

func (r Result) Metrics() (map[string]Metric, error) {
	var m map[string]Metric
	return m, r.decode(FieldMetrics, &m)
}

func (r Result) Patterns() (Patterns, error) {
	var p Patterns
	return p, r.decode(FieldPatterns, &p)
}

func (r Result) Summary() (Summary, error) {
	var s Summary
	return s, r.decode(FieldSummary, &s)
}

func (r Result) Status() (Status, error) {
	var s Status
	return s, r.decode(FieldStatus, &s)
}

func (r Result) TokenUsage() (TokenUsage, error) {
	var u TokenUsage
	return u, r.decode(FieldTokenUsage, &u)
}

// SetTokenUsage appends (or replaces) the token_usage block.
func (r *Result) SetTokenUsage(u TokenUsage) error {
	return r.set(FieldTokenUsage, u)
}

// SetHandleAnalyzed rewrites analysis_metadata.handle_analyzed, keeping every other
// metadata field as the model produced it. No-op when metadata is absent.
func (r *Result) SetHandleAnalyzed(handle string) error {
	if !r.Has(FieldMetadata) {
		return nil
	}
	meta, err := ParseResult(string(r.fields[FieldMetadata]))
	if err != nil {
		return fmt.Errorf("analysis: %s: %w", FieldMetadata, err)
	}
	if err := meta.set(fieldHandleAnalyzed, handle); err != nil {
		return err
	}
	return r.set(FieldMetadata, meta)
}

func (r Result) decode(field string, dst any) error {
	raw, ok := r.fields[field]
	if !ok || isNull(raw) {
		return fmt.Errorf("analysis: missing field %q", field)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("analysis: decode %q: %w", field, err)
	}
	return nil
}

func (r *Result) set(field string, v any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("analysis: encode %q: %w", field, err)
	}
	if r.fields == nil {
		r.fields = map[string]json.RawMessage{}
	}
	if _, ok := r.fields[field]; !ok {
		r.order = append(r.order, field)
	}
	r.fields[field] = encoded
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
