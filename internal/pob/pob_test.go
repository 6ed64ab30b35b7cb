package pob

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, xml string, padded bool) string {
	t.Helper()

	var b bytes.Buffer
	writer := zlib.NewWriter(&b)
	_, err := writer.Write([]byte(xml))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	if padded {
		return base64.URLEncoding.EncodeToString(b.Bytes())
	}
	return base64.RawURLEncoding.EncodeToString(b.Bytes())
}

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<PathOfBuilding>
	<Build level="92" className="Marauder" ascendClassName="Chieftain" targetVersion="3_0"/>
	<Notes>
^1Burn^7 everything
	</Notes>
</PathOfBuilding>`

func TestDecode(t *testing.T) {
	for _, padded := range []bool{true, false} {
		build, err := Decode(encode(t, sample, padded))
		require.NoError(t, err)

		assert.Equal(t, "Chieftain", build.Ascendancy())
		assert.Equal(t, "Level 92 Chieftain", build.Title())
		assert.Equal(t, "^1Burn^7 everything", build.Notes)

		metadata := build.Metadata()
		assert.Equal(t, "3_0", metadata.Version)
		assert.Equal(t, "Chieftain", metadata.Ascendancy)
	}
}

func TestDecodeToleratesWhitespace(t *testing.T) {
	code := encode(t, sample, false)
	_, err := Decode(" " + code[:10] + "\n" + code[10:] + "\n")
	require.NoError(t, err)
}

func TestAscendancyFallsBackToClass(t *testing.T) {
	build := Build{ClassName: "Witch", AscendClassName: "None"}
	assert.Equal(t, "Witch", build.Ascendancy())
	assert.Equal(t, "Witch", build.Title())
	assert.Equal(t, "", Build{}.Title())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, code := range []string{"", "not base64!", base64.RawURLEncoding.EncodeToString([]byte("plain")), encode(t, "<html></html>", false)} {
		_, err := Decode(code)
		require.ErrorIs(t, err, ErrInvalidCode, code)
	}
}
