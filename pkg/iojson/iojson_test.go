package iojson

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type request struct {
	Anchor int    `json:"anchor"`
	Text   string `json:"text"`
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, request{Anchor: 3, Text: "x"}))

	assert.JSONEq(t, `{"anchor":3,"text":"x"}`, out.String())
	assert.Empty(t, errOut.String())
}

func TestWriteWith_MarshalFailure(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, map[string]any{"fn": func() {}}))

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), `"json_error"`)
}

func TestDecode(t *testing.T) {
	got, err := Decode[request](strings.NewReader(`{"anchor":4,"text":"# test"}`))
	require.NoError(t, err)
	assert.Equal(t, request{Anchor: 4, Text: "# test"}, got)
}

func TestDecode_UnknownField(t *testing.T) {
	_, err := Decode[request](strings.NewReader(`{"anchr":4}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anchr")
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode[request](strings.NewReader(""))
	require.EqualError(t, err, "decode JSON: empty input")
}

func TestFileReader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "req.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"anchor":1,"text":"a"}`), 0o644))

	fr := &FileReader[request]{fileFlagValue: path}
	got, err := fr.Read(strings.NewReader(`{"anchor":2}`))
	require.NoError(t, err)
	assert.Equal(t, 1, got.Anchor)
}

func TestFileReader_Stdin(t *testing.T) {
	fr := &FileReader[request]{}
	got, err := fr.Read(strings.NewReader(`{"anchor":2,"text":"b"}`))
	require.NoError(t, err)
	assert.Equal(t, request{Anchor: 2, Text: "b"}, got)
}

func TestFileReader_MissingFile(t *testing.T) {
	fr := &FileReader[request]{fileFlagValue: filepath.Join(t.TempDir(), "missing.json")}
	_, err := fr.Read(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open file")
}
