package protocol

import (
	"fmt"
	"strings"
)

// DetectFormat classifies raw input by its first non-whitespace byte:
// '<' means structured, '@' means compact. It never parses the input and
// runs in constant time relative to message size.
func DetectFormat(raw string) (Format, error) {
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case ' ', '\t', '\n', '\r':
			continue
		case '<':
			return FormatStructured, nil
		case '@':
			return FormatCompact, nil
		default:
			return 0, fmt.Errorf("%w: input starts with %q", ErrUnrecognizedFormat, raw[i])
		}
	}
	return 0, fmt.Errorf("%w: empty input", ErrUnrecognizedFormat)
}

// Decode is the top-level parse entry point: detect the format once, then
// dispatch to the matching codec. A codec failure is surfaced as-is; there
// is no fallback to the other codec. Warnings from the structured codec are
// discarded here — call DecodeStructured directly when they matter.
func Decode(raw string, opts DecodeOptions) (Message, error) {
	format, err := DetectFormat(raw)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatStructured:
		msg, _, err := DecodeStructured(raw)
		if err != nil {
			return nil, err
		}
		return msg, nil
	default:
		return DecodeCompact(raw, opts)
	}
}

// Type translation tables between the two formats. Every compact type has a
// structured image; the reverse direction collapses the larger enum.
var compactToStructuredType = map[CompactType]StructuredType{
	CompactRequest:  StructuredRequest,
	CompactResponse: StructuredResponse,
	CompactError:    StructuredEscalate,
	CompactFinalize: StructuredFinalize,
}

var structuredToCompactType = map[StructuredType]CompactType{
	StructuredRequest:  CompactRequest,
	StructuredResponse: CompactResponse,
	StructuredCritique: CompactResponse,
	StructuredDelegate: CompactRequest,
	StructuredAck:      CompactResponse,
	StructuredEscalate: CompactError,
	StructuredFinalize: CompactFinalize,
}

// ConvertOptions carries caller-supplied metadata for CompactToStructured.
// All fields are optional: Intent defaults to a summary of the actions,
// ThreadID is generated, Status defaults to PENDING.
type ConvertOptions struct {
	Intent     string
	ThreadID   string
	ReplyTo    string
	Status     Status
	NextAction string
}

// ctxMarker formats the content marker that carries a context reference
// through the structured form. ctxRefFromContent recovers it.
func ctxMarker(ref string) string { return "[ctx:" + ref + "]" }

func ctxRefFromContent(content string) string {
	i := strings.Index(content, "[ctx:")
	if i < 0 {
		return ""
	}
	rest := content[i+len("[ctx:"):]
	end := strings.IndexByte(rest, ']')
	if end < 0 {
		return ""
	}
	return rest[:end]
}

// CompactToStructured enriches a compact message into the structured form.
// The direction is lossy-safe: nothing is dropped. The action and param
// lists are re-serialized into the content text, and a context ref travels
// as a [ctx:REF] marker line. A fresh msg_id is always generated.
func CompactToStructured(m *CompactMessage, opts ConvertOptions) (*StructuredMessage, error) {
	lines := []string{"Actions: " + strings.Join(m.Actions, ", ")}
	if len(m.Params) > 0 {
		lines = append(lines, "Parameters: "+strings.Join(m.Params, ", "))
	}
	if m.CtxRef != "" {
		lines = append(lines, "Context: "+ctxMarker(m.CtxRef))
	}

	intent := opts.Intent
	if intent == "" {
		intent = "Execute actions: " + strings.Join(m.Actions, ", ")
	}

	return NewStructured(StructuredConfig{
		To:         m.To,
		From:       m.From,
		Type:       compactToStructuredType[m.Type],
		Intent:     intent,
		Content:    strings.Join(lines, "\n"),
		ThreadID:   opts.ThreadID,
		ReplyTo:    opts.ReplyTo,
		Priority:   m.Priority,
		Status:     opts.Status,
		NextAction: opts.NextAction,
	})
}

// StructuredToCompact reduces a structured message to the compact form.
// The caller must supply the actions (and params) explicitly: free-text
// content and artifacts cannot be mechanically mapped back to the compact
// grammar, and the converter refuses to guess. A [ctx:REF] marker in the
// content is carried through as the context ref.
func StructuredToCompact(s *StructuredMessage, actions, params []string) (*CompactMessage, error) {
	if len(actions) == 0 {
		return nil, fmt.Errorf("%w: actions are required", ErrMissingConversionInput)
	}
	return NewCompact(s.To, s.From, structuredToCompactType[s.Type], s.Priority,
		actions, params, ctxRefFromContent(s.Content))
}
