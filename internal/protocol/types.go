// Package protocol implements the DRIXL wire protocol: the compact two-line
// format, the structured XML format, format detection, and conversion
// between the two. All operations are pure — decode/encode/detect/convert
// take a value and return a value or an error, with no shared state.
package protocol

import "strings"

// Format identifies which wire encoding a raw message uses.
type Format int

const (
	FormatCompact Format = iota
	FormatStructured
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatCompact:
		return "compact"
	case FormatStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// Message is the tagged union over the two message variants. Only
// CompactMessage and StructuredMessage implement it.
type Message interface {
	Format() Format
}

// Priority is the message priority, shared by both formats.
type Priority string

const (
	PriorityHigh Priority = "HIGH"
	PriorityMed  Priority = "MED"
	PriorityLow  Priority = "LOW"

	// DefaultPriority is assumed when the wire form omits @p.
	DefaultPriority = PriorityMed
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMed, PriorityLow:
		return true
	}
	return false
}

// CompactType is the message type enum of the compact format.
type CompactType string

const (
	CompactRequest  CompactType = "REQ"
	CompactResponse CompactType = "RES"
	CompactError    CompactType = "ERR"
	CompactFinalize CompactType = "FIN"
)

// Valid reports whether t is a known compact message type.
func (t CompactType) Valid() bool {
	switch t {
	case CompactRequest, CompactResponse, CompactError, CompactFinalize:
		return true
	}
	return false
}

// StructuredType is the message type enum of the structured format.
// It is a superset of the compact enum.
type StructuredType string

const (
	StructuredRequest  StructuredType = "REQUEST"
	StructuredResponse StructuredType = "RESPONSE"
	StructuredCritique StructuredType = "CRITIQUE"
	StructuredDelegate StructuredType = "DELEGATE"
	StructuredAck      StructuredType = "ACK"
	StructuredEscalate StructuredType = "ESCALATE"
	StructuredFinalize StructuredType = "FINALIZE"
)

// Valid reports whether t is a known structured message type.
func (t StructuredType) Valid() bool {
	switch t {
	case StructuredRequest, StructuredResponse, StructuredCritique,
		StructuredDelegate, StructuredAck, StructuredEscalate, StructuredFinalize:
		return true
	}
	return false
}

// Status tracks the handling state of a structured message. The set is open
// on decode: unknown statuses are accepted verbatim for forward
// compatibility, but construction validates against the known set.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
	StatusFailed     Status = "FAILED"
	StatusBlocked    Status = "BLOCKED"
	StatusEscalated  Status = "ESCALATED"
)

// Known reports whether s is one of the predefined statuses.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone, StatusFailed,
		StatusBlocked, StatusEscalated:
		return true
	}
	return false
}

// validAgentID reports whether id can appear in an envelope: non-empty,
// no whitespace, and none of the protocol delimiters.
func validAgentID(id string) bool {
	if id == "" {
		return false
	}
	return !strings.ContainsAny(id, "@:[] \t\n\r")
}
