package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCompact_ExampleScenario(t *testing.T) {
	raw := "@to:AGT3 @fr:AGT2 @t:RES @p:MED\nVALD [suspicious_ips:14] [src:threat_db] [out:json] [ctx:ref#1]"

	msg, err := DecodeCompact(raw, DecodeOptions{Strict: true})
	require.NoError(t, err)

	assert.Equal(t, "AGT3", msg.To)
	assert.Equal(t, "AGT2", msg.From)
	assert.Equal(t, CompactResponse, msg.Type)
	assert.Equal(t, PriorityMed, msg.Priority)
	assert.Equal(t, []string{"VALD"}, msg.Actions)
	assert.Equal(t, []string{"suspicious_ips:14", "src:threat_db", "out:json"}, msg.Params)
	assert.Equal(t, "ref#1", msg.CtxRef)
}

func TestCompact_RoundTrip(t *testing.T) {
	original, err := NewCompact("AGT2", "AGT1", CompactRequest, PriorityHigh,
		[]string{"ANLY", "XTRCT"},
		[]string{"firewall.log", "denied_ips", "out:json"},
		"ref#1")
	require.NoError(t, err)

	decoded, err := DecodeCompact(original.Encode(), DecodeOptions{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestCompact_RoundTrip_NoParamsNoCtx(t *testing.T) {
	original, err := NewCompact("AGT2", "AGT1", CompactFinalize, PriorityLow,
		[]string{"HALT"}, nil, "")
	require.NoError(t, err)

	assert.Equal(t, "@to:AGT2 @fr:AGT1 @t:FIN @p:LOW\nHALT", original.Encode())

	decoded, err := DecodeCompact(original.Encode(), DecodeOptions{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestCompact_RoundTrip_EmptyParamSlice(t *testing.T) {
	original, err := NewCompact("AGT2", "AGT1", CompactRequest, PriorityMed,
		[]string{"EXEC"}, []string{}, "")
	require.NoError(t, err)
	assert.Nil(t, original.Params)

	decoded, err := DecodeCompact(original.Encode(), DecodeOptions{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeCompact_FieldOrderIndependence(t *testing.T) {
	canonical, err := DecodeCompact("@to:A @fr:B @t:REQ @p:HIGH\nEXEC [y]", DecodeOptions{})
	require.NoError(t, err)

	shuffled, err := DecodeCompact("@t:REQ @to:A @fr:B @p:HIGH\nEXEC [y]", DecodeOptions{})
	require.NoError(t, err)

	assert.Equal(t, canonical, shuffled)
}

func TestDecodeCompact_PriorityDefaultsToMed(t *testing.T) {
	msg, err := DecodeCompact("@to:A @fr:B @t:REQ\nEXEC", DecodeOptions{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, PriorityMed, msg.Priority)
}

func TestDecodeCompact_StrictRejectsUnknownKeys(t *testing.T) {
	raw := "@to:A @fr:B @bogus:1 @t:REQ\nEXEC [y]"

	_, err := DecodeCompact(raw, DecodeOptions{Strict: true})
	require.Error(t, err)
	var unknownKey *UnknownKeyError
	assert.True(t, errors.As(err, &unknownKey))
	assert.Equal(t, "bogus", unknownKey.Key)

	msg, err := DecodeCompact(raw, DecodeOptions{Strict: false})
	require.NoError(t, err)
	assert.Equal(t, "A", msg.To)
	assert.Equal(t, []string{"y"}, msg.Params)
}

func TestDecodeCompact_MissingBodyLine(t *testing.T) {
	_, err := DecodeCompact("@to:A @fr:B @t:REQ @p:MED", DecodeOptions{})
	assert.ErrorIs(t, err, ErrMalformedEnvelope)
}

func TestDecodeCompact_MissingRequiredField(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{"no to", "@fr:B @t:REQ\nEXEC", "to"},
		{"no fr", "@to:A @t:REQ\nEXEC", "fr"},
		{"no t", "@to:A @fr:B\nEXEC", "t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCompact(tt.raw, DecodeOptions{Strict: true})
			var missing *MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.field, missing.Field)
		})
	}
}

func TestDecodeCompact_InvalidType(t *testing.T) {
	_, err := DecodeCompact("@to:A @fr:B @t:NOPE\nEXEC", DecodeOptions{})
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestDecodeCompact_InvalidPriority(t *testing.T) {
	_, err := DecodeCompact("@to:A @fr:B @t:REQ @p:URGENT\nEXEC", DecodeOptions{})
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestDecodeCompact_EmptyActionList(t *testing.T) {
	_, err := DecodeCompact("@to:A @fr:B @t:REQ @p:MED\n[only:params]", DecodeOptions{})
	assert.ErrorIs(t, err, ErrEmptyActionList)
}

func TestDecodeCompact_UnknownVerbStillParses(t *testing.T) {
	msg, err := DecodeCompact("@to:A @fr:B @t:REQ @p:MED\nZZZZ [x]", DecodeOptions{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"ZZZZ"}, msg.Actions)
}

func TestDecodeCompact_ParamWithSpaces(t *testing.T) {
	raw := "@to:ORCH @fr:AGT2 @t:ERR @p:HIGH\nESCL [code:TIMEOUT] [detail:firewall.json not found]"
	msg, err := DecodeCompact(raw, DecodeOptions{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"code:TIMEOUT", "detail:firewall.json not found"}, msg.Params)
}

func TestDecodeCompact_BracketTruncation(t *testing.T) {
	// No escape convention: the first ']' closes the param.
	msg, err := DecodeCompact("@to:A @fr:B @t:REQ\nEXEC [val:a]b]", DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"val:a"}, msg.Params)
}

func TestDecodeCompact_CtxOnlyExtractedFromLastParam(t *testing.T) {
	msg, err := DecodeCompact("@to:A @fr:B @t:REQ\nEXEC [ctx:early] [out:json]", DecodeOptions{})
	require.NoError(t, err)
	assert.Empty(t, msg.CtxRef)
	assert.Equal(t, []string{"ctx:early", "out:json"}, msg.Params)
}

func TestNewCompact_Validation(t *testing.T) {
	_, err := NewCompact("", "AGT1", CompactRequest, PriorityMed, []string{"EXEC"}, nil, "")
	assert.ErrorIs(t, err, ErrInvalidAgentID)

	_, err = NewCompact("AGT2", "AG T1", CompactRequest, PriorityMed, []string{"EXEC"}, nil, "")
	assert.ErrorIs(t, err, ErrInvalidAgentID)

	_, err = NewCompact("AGT2", "AGT1", "NOPE", PriorityMed, []string{"EXEC"}, nil, "")
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = NewCompact("AGT2", "AGT1", CompactRequest, PriorityMed, nil, nil, "")
	assert.ErrorIs(t, err, ErrEmptyActionList)
}

func TestCompact_Reply(t *testing.T) {
	original, err := NewCompact("AGT2", "AGT1", CompactRequest, PriorityHigh,
		[]string{"ANLY"}, []string{"input.json"}, "ref#1")
	require.NoError(t, err)

	reply, err := original.Reply([]string{"VALD"}, []string{"result:ok"})
	require.NoError(t, err)

	assert.Equal(t, "AGT1", reply.To)
	assert.Equal(t, "AGT2", reply.From)
	assert.Equal(t, CompactResponse, reply.Type)
	assert.Equal(t, "ref#1", reply.CtxRef)
}

func TestNewErrorMessage(t *testing.T) {
	msg, err := NewErrorMessage("ORCH", "AGT2", "TIMEOUT", "firewall.json not found")
	require.NoError(t, err)

	encoded := msg.Encode()
	assert.Contains(t, encoded, "@t:ERR")
	assert.Contains(t, encoded, "ESCL")
	assert.Contains(t, encoded, "[code:TIMEOUT]")
	assert.Contains(t, encoded, "[detail:firewall.json not found]")
}

func TestCompact_JSON_RoundTrip(t *testing.T) {
	original, err := NewCompact("AGT3", "AGT2", CompactResponse, PriorityMed,
		[]string{"VALD", "STOR"}, []string{"result:pass"}, "ref#2")
	require.NoError(t, err)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var restored CompactMessage
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, *original, restored)
}
