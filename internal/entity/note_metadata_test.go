package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeNoteMetadata(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantMeta NoteMetadata
		wantPos  *CanvasMetadata
	}{
		{name: "null", input: `null`},
		{name: "empty object", input: `{}`},
		{name: "tagged canvas", input: `{"kind":"canvas","x":1,"y":2}`, wantPos: &CanvasMetadata{X: 1, Y: 2}},
		{
			name:     "research with position",
			input:    `{"urls":["https://a"],"x":120,"y":40}`,
			wantMeta: ResearchMetadata{URLs: []string{"https://a"}},
			wantPos:  &CanvasMetadata{X: 120, Y: 40},
		},
		{
			name:     "image with position",
			input:    `{"kind":"image","imageData":"data:,","x":0,"y":-5}`,
			wantMeta: ImageMetadata{ImageData: "data:,"},
			wantPos:  &CanvasMetadata{X: 0, Y: -5},
		},
		{
			name:     "unknown kind",
			input:    `{"kind":"audio","clip":"abc"}`,
			wantMeta: OpaqueMetadata{Tag: "audio", Raw: json.RawMessage(`{"kind":"audio","clip":"abc"}`)},
		},
		{
			name:     "unrecognised bag is compacted",
			input:    `{ "somethingElse": 1 }`,
			wantMeta: OpaqueMetadata{Raw: json.RawMessage(`{"somethingElse":1}`)},
		},
		{
			name:     "half a position",
			input:    `{"x":5}`,
			wantMeta: OpaqueMetadata{Raw: json.RawMessage(`{"x":5}`)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, pos, err := DecodeNoteMetadata(json.RawMessage(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.wantMeta, meta)
			assert.Equal(t, tt.wantPos, pos)
		})
	}
}

func TestDecodeNoteMetadata_RejectsNonObjects(t *testing.T) {
	for _, input := range []string{`[1,2]`, `"text"`, `{"kind":5}`} {
		_, _, err := DecodeNoteMetadata(json.RawMessage(input))
		assert.Error(t, err, input)
	}
}

func TestEncodeNoteMetadata(t *testing.T) {
	raw, err := EncodeNoteMetadata(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, raw)

	raw, err = EncodeNoteMetadata(nil, &CanvasMetadata{X: 1, Y: 2})
	require.NoError(t, err)
	assert.Equal(t, `{"kind":"canvas","x":1,"y":2}`, string(raw))

	raw, err = EncodeNoteMetadata(FileMetadata{FileName: "a.txt"}, &CanvasMetadata{X: 3, Y: 4})
	require.NoError(t, err)
	assert.Equal(t, `{"kind":"file","fileName":"a.txt","x":3,"y":4}`, string(raw))

	raw, err = EncodeNoteMetadata(ResearchMetadata{URLs: []string{"u"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"kind":"research","urls":["u"]}`, string(raw))
}

func TestEncodeNoteMetadata_OpaqueIsUntouched(t *testing.T) {
	opaque := OpaqueMetadata{Tag: "audio", Raw: json.RawMessage(`{"kind":"audio","clip":"abc","x":1,"y":2}`)}

	raw, err := EncodeNoteMetadata(opaque, &CanvasMetadata{X: 1, Y: 2})
	require.NoError(t, err)
	assert.Equal(t, string(opaque.Raw), string(raw))

	moved, err := EncodeNoteMetadata(opaque, &CanvasMetadata{X: 9, Y: 8})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"audio","clip":"abc","x":9,"y":8}`, string(moved))
}

func TestNote_JSONKeepsPositionNextToVariant(t *testing.T) {
	in := `{"id":"n","notebookId":"general","content":"c","type":"research","timestamp":1,"tags":null,` +
		`"metadata":{"urls":["https://a"],"x":120,"y":40}}`

	var n Note
	require.NoError(t, json.Unmarshal([]byte(in), &n))
	assert.Equal(t, ResearchMetadata{URLs: []string{"https://a"}}, n.Metadata)
	assert.Equal(t, &CanvasMetadata{X: 120, Y: 40}, n.Position)

	out, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"metadata":{"kind":"research","urls":["https://a"],"x":120,"y":40}`)

	c := n.Clone()
	c.Position.X = 0
	assert.Equal(t, float64(120), n.Position.X)
}
