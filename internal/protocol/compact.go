package protocol

import (
	"fmt"
	"strings"
)

// CompactMessage is the parsed form of the two-line compact format.
// Values are built once and never mutated by the codec.
type CompactMessage struct {
	To       string      `json:"to"`
	From     string      `json:"from"`
	Type     CompactType `json:"type"`
	Priority Priority    `json:"priority"`
	Actions  []string    `json:"actions"`
	Params   []string    `json:"params,omitempty"`
	CtxRef   string      `json:"ctx_ref,omitempty"`
}

// Format implements Message.
func (m *CompactMessage) Format() Format { return FormatCompact }

// NewCompact builds a validated CompactMessage. Priority defaults to MED
// when empty. Invariants are enforced here so Encode is total.
func NewCompact(to, from string, typ CompactType, pri Priority, actions, params []string, ctxRef string) (*CompactMessage, error) {
	if !validAgentID(to) {
		return nil, fmt.Errorf("%w: to=%q", ErrInvalidAgentID, to)
	}
	if !validAgentID(from) {
		return nil, fmt.Errorf("%w: from=%q", ErrInvalidAgentID, from)
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, typ)
	}
	if pri == "" {
		pri = DefaultPriority
	}
	if !pri.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPriority, pri)
	}
	if len(actions) == 0 {
		return nil, ErrEmptyActionList
	}
	// Decode yields nil for an absent param list; normalize so the
	// round-trip equality holds for an empty slice too.
	if len(params) == 0 {
		params = nil
	}
	return &CompactMessage{
		To:       to,
		From:     from,
		Type:     typ,
		Priority: pri,
		Actions:  actions,
		Params:   params,
		CtxRef:   ctxRef,
	}, nil
}

// Encode serializes the message to the compact wire form. Field order is
// deterministic (to, fr, t, p), the context ref is always the last bracket
// token. Encode over a constructed message cannot fail.
func (m *CompactMessage) Encode() string {
	var b strings.Builder
	fmt.Fprintf(&b, "@to:%s @fr:%s @t:%s @p:%s\n", m.To, m.From, m.Type, m.Priority)
	b.WriteString(strings.Join(m.Actions, " "))
	for _, p := range m.Params {
		b.WriteString(" [")
		b.WriteString(p)
		b.WriteString("]")
	}
	if m.CtxRef != "" {
		b.WriteString(" [ctx:")
		b.WriteString(m.CtxRef)
		b.WriteString("]")
	}
	return b.String()
}

// Reply builds a response to m: to/from swapped, type RES, same priority,
// context ref carried over.
func (m *CompactMessage) Reply(actions, params []string) (*CompactMessage, error) {
	return NewCompact(m.From, m.To, CompactResponse, m.Priority, actions, params, m.CtxRef)
}

// NewErrorMessage builds the conventional ERR signal: high priority, an
// ESCL action, and code/detail params.
func NewErrorMessage(to, from, code, detail string) (*CompactMessage, error) {
	params := []string{"code:" + code}
	if detail != "" {
		params = append(params, "detail:"+detail)
	}
	return NewCompact(to, from, CompactError, PriorityHigh, []string{"ESCL"}, params, "")
}

// DecodeOptions configures compact decoding. Strict mode rejects unknown
// envelope keys; lenient mode skips them. Required fields and type/priority
// enums are checked in both modes.
type DecodeOptions struct {
	Strict bool
}

// DecodeCompact parses the two-line compact wire form. Envelope fields may
// appear in any order. A trailing [ctx:REF] param is extracted into CtxRef.
func DecodeCompact(raw string, opts DecodeOptions) (*CompactMessage, error) {
	var lines []string
	for _, ln := range strings.Split(strings.TrimSpace(raw), "\n") {
		if strings.TrimSpace(ln) != "" {
			lines = append(lines, strings.TrimSpace(ln))
		}
	}
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: need envelope and body lines", ErrMalformedEnvelope)
	}

	env, err := decodeEnvelopeLine(lines[0], opts.Strict)
	if err != nil {
		return nil, err
	}

	body := strings.Join(lines[1:], " ")
	actions, params := decodeBodyLine(body)
	if len(actions) == 0 {
		return nil, ErrEmptyActionList
	}

	ctxRef := ""
	if n := len(params); n > 0 && strings.HasPrefix(params[n-1], "ctx:") {
		ctxRef = strings.TrimPrefix(params[n-1], "ctx:")
		params = params[:n-1]
		if len(params) == 0 {
			params = nil
		}
	}

	env.Actions = actions
	env.Params = params
	env.CtxRef = ctxRef
	return env, nil
}

// decodeEnvelopeLine parses "@key:value" tokens in any order.
func decodeEnvelopeLine(line string, strict bool) (*CompactMessage, error) {
	fields := map[string]string{}
	for _, tok := range strings.Fields(line) {
		if !strings.HasPrefix(tok, "@") {
			return nil, fmt.Errorf("%w: token %q", ErrMalformedEnvelope, tok)
		}
		key, val, ok := strings.Cut(tok[1:], ":")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: token %q", ErrMalformedEnvelope, tok)
		}
		switch key {
		case "to", "fr", "t", "p":
			fields[key] = val
		default:
			if strict {
				return nil, &UnknownKeyError{Key: key}
			}
		}
	}

	for _, key := range []string{"to", "fr", "t"} {
		if fields[key] == "" {
			return nil, &MissingFieldError{Field: key}
		}
	}
	if !validAgentID(fields["to"]) {
		return nil, fmt.Errorf("%w: to=%q", ErrInvalidAgentID, fields["to"])
	}
	if !validAgentID(fields["fr"]) {
		return nil, fmt.Errorf("%w: from=%q", ErrInvalidAgentID, fields["fr"])
	}

	typ := CompactType(fields["t"])
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, fields["t"])
	}

	pri := DefaultPriority
	if v, ok := fields["p"]; ok {
		pri = Priority(v)
		if !pri.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPriority, v)
		}
	}

	return &CompactMessage{
		To:       fields["to"],
		From:     fields["fr"],
		Type:     typ,
		Priority: pri,
	}, nil
}

// decodeBodyLine splits the body into a leading action run and the bracket
// params that follow. Param content is taken verbatim: the first ']' after
// the opening '[' always closes the token. There is no escape convention —
// a value containing ']' truncates early, an inherited wire-format
// ambiguity kept for compatibility.
func decodeBodyLine(body string) (actions, params []string) {
	head := body
	if i := strings.IndexByte(body, '['); i >= 0 {
		head = body[:i]
		rest := body[i:]
		for {
			open := strings.IndexByte(rest, '[')
			if open < 0 {
				break
			}
			rest = rest[open+1:]
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				break
			}
			params = append(params, rest[:end])
			rest = rest[end+1:]
		}
	}
	actions = strings.Fields(head)
	return actions, params
}
