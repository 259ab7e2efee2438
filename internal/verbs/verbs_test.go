package verbs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_StandardVocabulary(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 15, r.Len())

	meaning, ok := r.Lookup("ANLY")
	assert.True(t, ok)
	assert.Equal(t, "Analyze input data or content", meaning)

	_, ok = r.Lookup("ZZZZ")
	assert.False(t, ok)
}

func TestRegistry_CaseSensitiveCodes(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Lookup("anly")
	assert.False(t, ok)
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("DEPLY", "Deploy a service to an environment"))

	meaning, ok := r.Lookup("DEPLY")
	assert.True(t, ok)
	assert.Equal(t, "Deploy a service to an environment", meaning)

	// Overwrite is allowed.
	require.NoError(t, r.Register("DEPLY", "Deploy"))
	meaning, _ = r.Lookup("DEPLY")
	assert.Equal(t, "Deploy", meaning)
}

func TestRegistry_RegisterRejectsBadLength(t *testing.T) {
	r := NewEmptyRegistry()
	assert.Error(t, r.Register("X", "too short"))
	assert.Error(t, r.Register("TOOLONGX", "too long"))
	assert.NoError(t, r.Register("OK", "minimum length"))
}

func TestRegistry_Search(t *testing.T) {
	r := NewRegistry()

	hits := r.Search("analyze")
	require.Len(t, hits, 1)
	assert.Equal(t, "ANLY", hits[0].Code)

	// Matches code substrings too, case-insensitively.
	hits = r.Search("tr")
	codes := make([]string, 0, len(hits))
	for _, h := range hits {
		codes = append(codes, h.Code)
	}
	assert.Contains(t, codes, "XTRCT")
	assert.Contains(t, codes, "TRNSF")

	assert.Empty(t, r.Search("no-such-verb"))
}

func TestRegistry_Unknown(t *testing.T) {
	r := NewRegistry()
	unknown := r.Unknown([]string{"ANLY", "ZZZZ", "VALD", "QQQQ"})
	assert.Equal(t, []string{"ZZZZ", "QQQQ"}, unknown)

	assert.Empty(t, r.Unknown([]string{"ANLY", "VALD"}))
}

func TestRegistry_IsolatedInstances(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()
	require.NoError(t, a.Register("DEPLY", "Deploy"))

	_, ok := b.Lookup("DEPLY")
	assert.False(t, ok)
}

func TestRegistry_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verbs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("DEPLY: Deploy a service\nROLLB: Roll back a deployment\n"), 0o644))

	r := NewRegistry()
	require.NoError(t, r.LoadFile(path))
	assert.Equal(t, 17, r.Len())

	meaning, ok := r.Lookup("ROLLB")
	assert.True(t, ok)
	assert.Equal(t, "Roll back a deployment", meaning)
}

func TestRegistry_LoadFileMissing(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.LoadFile(filepath.Join(t.TempDir(), "nope.yaml")))
}
