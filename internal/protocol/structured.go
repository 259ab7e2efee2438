package protocol

import (
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Artifact is a named attachment embedded in a structured message. It is
// owned exclusively by the declaring message.
type Artifact struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Body string `json:"body"`
}

// StructuredMessage is the metadata-rich message form: full identifiers,
// thread linkage, artifacts, and status tracking. Use it for debugging and
// traceability; use CompactMessage when token count matters.
type StructuredMessage struct {
	MsgID      string         `json:"msg_id"`
	ThreadID   string         `json:"thread_id"`
	ReplyTo    string         `json:"reply_to,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	Priority   Priority       `json:"priority"`
	To         string         `json:"to"`
	From       string         `json:"from"`
	Type       StructuredType `json:"type"`
	Intent     string         `json:"intent"`
	Content    string         `json:"content"`
	Artifacts  []Artifact     `json:"artifacts,omitempty"`
	Status     Status         `json:"status"`
	NextAction string         `json:"next_action,omitempty"`
}

// Format implements Message.
func (s *StructuredMessage) Format() Format { return FormatStructured }

// StructuredConfig carries the inputs for NewStructured. Zero-valued
// optional fields get defaults: MsgID and ThreadID are generated, Timestamp
// becomes the current UTC time, Priority MED, Status PENDING.
type StructuredConfig struct {
	To         string
	From       string
	Type       StructuredType
	Intent     string
	Content    string
	MsgID      string
	ThreadID   string
	ReplyTo    string
	Timestamp  time.Time
	Priority   Priority
	Status     Status
	NextAction string
	Artifacts  []Artifact
}

// NewStructured builds a validated StructuredMessage.
func NewStructured(cfg StructuredConfig) (*StructuredMessage, error) {
	if !validAgentID(cfg.To) {
		return nil, fmt.Errorf("%w: to=%q", ErrInvalidAgentID, cfg.To)
	}
	if !validAgentID(cfg.From) {
		return nil, fmt.Errorf("%w: from=%q", ErrInvalidAgentID, cfg.From)
	}
	if !cfg.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, cfg.Type)
	}
	if cfg.Priority == "" {
		cfg.Priority = DefaultPriority
	}
	if !cfg.Priority.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPriority, cfg.Priority)
	}
	if cfg.Status == "" {
		cfg.Status = StatusPending
	}
	if !cfg.Status.Known() {
		return nil, fmt.Errorf("unknown status %q", cfg.Status)
	}
	if cfg.MsgID == "" {
		cfg.MsgID = NewMsgID()
	}
	if cfg.ThreadID == "" {
		cfg.ThreadID = NewThreadID()
	}
	if cfg.Timestamp.IsZero() {
		cfg.Timestamp = time.Now().UTC()
	}
	return &StructuredMessage{
		MsgID:      cfg.MsgID,
		ThreadID:   cfg.ThreadID,
		ReplyTo:    cfg.ReplyTo,
		Timestamp:  cfg.Timestamp,
		Priority:   cfg.Priority,
		To:         cfg.To,
		From:       cfg.From,
		Type:       cfg.Type,
		Intent:     cfg.Intent,
		Content:    cfg.Content,
		Artifacts:  cfg.Artifacts,
		Status:     cfg.Status,
		NextAction: cfg.NextAction,
	}, nil
}

// NewMsgID generates a message identifier (MSG- prefix, 8 hex chars).
func NewMsgID() string { return newID("MSG-") }

// NewThreadID generates a thread identifier shared by a conversation.
func NewThreadID() string { return newID("THREAD-") }

func newID(prefix string) string {
	u := uuid.New()
	return prefix + strings.ToUpper(hex.EncodeToString(u[:4]))
}

// AddArtifact appends an artifact, assigning a sequential ART-NNN id, and
// returns its id. Artifacts keep insertion order through encode/decode.
func (s *StructuredMessage) AddArtifact(kind, body string) string {
	id := fmt.Sprintf("ART-%03d", len(s.Artifacts)+1)
	s.Artifacts = append(s.Artifacts, Artifact{ID: id, Kind: kind, Body: body})
	return id
}

// Wire representation. Element order within meta/envelope is not
// semantically significant on decode; unknown child elements are skipped
// and never round-tripped.
type xmlArtifact struct {
	Kind string `xml:"type,attr"`
	ID   string `xml:"id,attr"`
	Body string `xml:",chardata"`
}

type xmlMeta struct {
	MsgID     string `xml:"msg_id"`
	ThreadID  string `xml:"thread_id"`
	ReplyTo   string `xml:"reply_to,omitempty"`
	Timestamp string `xml:"timestamp,omitempty"`
	Priority  string `xml:"priority"`
}

type xmlEnvelope struct {
	To     string `xml:"to"`
	From   string `xml:"from"`
	Type   string `xml:"type"`
	Intent string `xml:"intent"`
}

type xmlArtifacts struct {
	Items []xmlArtifact `xml:"artifact"`
}

type xmlMessage struct {
	XMLName    xml.Name     `xml:"message"`
	Meta       xmlMeta      `xml:"meta"`
	Envelope   xmlEnvelope  `xml:"envelope"`
	Content    string       `xml:"content"`
	Artifacts  xmlArtifacts `xml:"artifacts"`
	Status     string       `xml:"status"`
	NextAction string       `xml:"next_action,omitempty"`
}

// Encode serializes the message to its XML wire form. Only the fixed schema
// is emitted. Encode over a constructed message does not fail in practice;
// the error return covers marshaller failure only.
func (s *StructuredMessage) Encode() (string, error) {
	doc := xmlMessage{
		Meta: xmlMeta{
			MsgID:    s.MsgID,
			ThreadID: s.ThreadID,
			ReplyTo:  s.ReplyTo,
			Priority: string(s.Priority),
		},
		Envelope: xmlEnvelope{
			To:     s.To,
			From:   s.From,
			Type:   string(s.Type),
			Intent: s.Intent,
		},
		Content:    s.Content,
		Status:     string(s.Status),
		NextAction: s.NextAction,
	}
	if !s.Timestamp.IsZero() {
		// RFC3339Nano keeps sub-second precision so decode(encode(s))
		// restores the timestamp exactly.
		doc.Meta.Timestamp = s.Timestamp.UTC().Format(time.RFC3339Nano)
	}
	for _, a := range s.Artifacts {
		doc.Artifacts.Items = append(doc.Artifacts.Items, xmlArtifact{
			Kind: a.Kind,
			ID:   a.ID,
			Body: a.Body,
		})
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// timestampLayouts covers RFC 3339 plus the zone-less ISO-8601 variants
// other implementations emit.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// DecodeStructured parses the XML wire form. It favors partial
// recoverability: an unparsable timestamp is zeroed with a warning rather
// than failing the whole message, and an unknown status is kept verbatim
// with a warning. Missing required leaves are hard errors.
func DecodeStructured(raw string) (*StructuredMessage, []string, error) {
	var doc xmlMessage
	if err := xml.Unmarshal([]byte(strings.TrimSpace(raw)), &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	required := []struct{ field, value string }{
		{"msg_id", doc.Meta.MsgID},
		{"to", doc.Envelope.To},
		{"from", doc.Envelope.From},
		{"type", doc.Envelope.Type},
		{"content", doc.Content},
		{"status", doc.Status},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, nil, &MissingFieldError{Field: r.field}
		}
	}

	typ := StructuredType(doc.Envelope.Type)
	if !typ.Valid() {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidType, doc.Envelope.Type)
	}

	pri := DefaultPriority
	if doc.Meta.Priority != "" {
		pri = Priority(doc.Meta.Priority)
		if !pri.Valid() {
			return nil, nil, fmt.Errorf("%w: %q", ErrInvalidPriority, doc.Meta.Priority)
		}
	}

	var warnings []string

	status := Status(doc.Status)
	if !status.Known() {
		warnings = append(warnings, fmt.Sprintf("unknown status %q", doc.Status))
	}

	var ts time.Time
	if tsRaw := strings.TrimSpace(doc.Meta.Timestamp); tsRaw != "" {
		parsed, err := parseTimestamp(tsRaw)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("invalid timestamp %q", tsRaw))
		} else {
			ts = parsed
		}
	}

	replyTo := doc.Meta.ReplyTo
	if replyTo == "NULL" {
		replyTo = ""
	}

	msg := &StructuredMessage{
		MsgID:      doc.Meta.MsgID,
		ThreadID:   doc.Meta.ThreadID,
		ReplyTo:    replyTo,
		Timestamp:  ts,
		Priority:   pri,
		To:         doc.Envelope.To,
		From:       doc.Envelope.From,
		Type:       typ,
		Intent:     doc.Envelope.Intent,
		Content:    doc.Content,
		Status:     status,
		NextAction: doc.NextAction,
	}
	for _, a := range doc.Artifacts.Items {
		msg.Artifacts = append(msg.Artifacts, Artifact{ID: a.ID, Kind: a.Kind, Body: a.Body})
	}
	return msg, warnings, nil
}

func parseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
