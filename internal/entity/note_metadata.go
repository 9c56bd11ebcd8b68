package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidMetadata marks metadata that is not a JSON object of a known shape.
var ErrInvalidMetadata = errors.New("invalid note metadata")

type MetadataKind string

const (
	MetadataResearch MetadataKind = "research"
	MetadataCanvas   MetadataKind = "canvas"
	MetadataFile     MetadataKind = "file"
	MetadataImage    MetadataKind = "image"
)

// NoteMetadata is a closed set of per-subtype payloads. Only the variants in
// this package implement it.
type NoteMetadata interface {
	Kind() MetadataKind
	clone() NoteMetadata
}

// ResearchMetadata carries the grounding citations of a research answer.
type ResearchMetadata struct {
	URLs []string `json:"urls"`
}

// CanvasMetadata positions a note on the board view. Any note can carry a
// position, so it lives on Note.Position rather than in the variant set. On
// the wire its x and y sit inside the metadata object.
type CanvasMetadata struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FileMetadata describes the uploaded document a note was created from.
type FileMetadata struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType,omitempty"`
	FileSize int64  `json:"fileSize,omitempty"`
}

// ImageMetadata holds a generated image as a data URI.
type ImageMetadata struct {
	ImageData string `json:"imageData"`
	Prompt    string `json:"prompt,omitempty"`
}

// OpaqueMetadata is a metadata object this build does not recognise: an
// unknown kind, or an untagged bag whose fields span several variants. Raw is
// written back exactly as it was read.
type OpaqueMetadata struct {
	Tag MetadataKind
	Raw json.RawMessage
}

func (ResearchMetadata) Kind() MetadataKind { return MetadataResearch }
func (FileMetadata) Kind() MetadataKind     { return MetadataFile }
func (ImageMetadata) Kind() MetadataKind    { return MetadataImage }
func (m OpaqueMetadata) Kind() MetadataKind { return m.Tag }

func (m ResearchMetadata) clone() NoteMetadata {
	if m.URLs != nil {
		m.URLs = append([]string{}, m.URLs...)
	}
	return m
}
func (m FileMetadata) clone() NoteMetadata  { return m }
func (m ImageMetadata) clone() NoteMetadata { return m }
func (m OpaqueMetadata) clone() NoteMetadata {
	m.Raw = append(json.RawMessage{}, m.Raw...)
	return m
}

// EncodeNoteMetadata writes the variant fields flattened next to a "kind"
// discriminator, with the position's x and y alongside. A position without a
// variant is written under the canvas kind.
func EncodeNoteMetadata(m NoteMetadata, pos *CanvasMetadata) (json.RawMessage, error) {
	switch v := m.(type) {
	case nil:
		if pos == nil {
			return nil, nil
		}
		return json.Marshal(struct {
			Kind MetadataKind `json:"kind"`
			*CanvasMetadata
		}{MetadataCanvas, pos})
	case ResearchMetadata:
		return json.Marshal(struct {
			Kind MetadataKind `json:"kind"`
			ResearchMetadata
			*CanvasMetadata
		}{v.Kind(), v, pos})
	case FileMetadata:
		return json.Marshal(struct {
			Kind MetadataKind `json:"kind"`
			FileMetadata
			*CanvasMetadata
		}{v.Kind(), v, pos})
	case ImageMetadata:
		return json.Marshal(struct {
			Kind MetadataKind `json:"kind"`
			ImageMetadata
			*CanvasMetadata
		}{v.Kind(), v, pos})
	case OpaqueMetadata:
		return encodeOpaque(v.Raw, pos)
	default:
		return nil, fmt.Errorf("unsupported metadata variant %T", m)
	}
}

// encodeOpaque returns raw untouched unless pos disagrees with the x and y it
// already holds.
func encodeOpaque(raw json.RawMessage, pos *CanvasMetadata) (json.RawMessage, error) {
	var probe metadataProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	if samePosition(probe.position(), pos) {
		return append(json.RawMessage{}, raw...), nil
	}

	var bag map[string]json.RawMessage
	if err := json.Unmarshal(raw, &bag); err != nil {
		return nil, err
	}
	delete(bag, "x")
	delete(bag, "y")
	if pos != nil {
		bag["x"], _ = json.Marshal(pos.X)
		bag["y"], _ = json.Marshal(pos.Y)
	}
	return json.Marshal(bag)
}

func samePosition(a, b *CanvasMetadata) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// metadataProbe reads the discriminator, plus the fields that identify the
// untyped metadata bag written by exports that predate the discriminator.
type metadataProbe struct {
	Kind      MetadataKind    `json:"kind"`
	URLs      json.RawMessage `json:"urls"`
	X         *float64        `json:"x"`
	Y         *float64        `json:"y"`
	FileName  string          `json:"fileName"`
	ImageData string          `json:"imageData"`
}

func (p metadataProbe) infer() MetadataKind {
	switch {
	case p.Kind != "":
		return p.Kind
	case len(p.URLs) > 0 && !bytes.Equal(p.URLs, []byte("null")):
		return MetadataResearch
	case p.FileName != "":
		return MetadataFile
	case p.ImageData != "":
		return MetadataImage
	}
	return ""
}

func (p metadataProbe) position() *CanvasMetadata {
	if p.X == nil || p.Y == nil {
		return nil
	}
	return &CanvasMetadata{X: *p.X, Y: *p.Y}
}

// variantKeys lists the keys each known kind owns. Keys outside the set make
// the object opaque so nothing is dropped on the next save.
var variantKeys = map[MetadataKind][]string{
	"":               {},
	MetadataResearch: {"urls"},
	MetadataCanvas:   {},
	MetadataFile:     {"fileName", "fileType", "fileSize"},
	MetadataImage:    {"imageData", "prompt"},
}

func hasForeignKeys(bag map[string]json.RawMessage, kind MetadataKind) bool {
	owned := variantKeys[kind]
outer:
	for k := range bag {
		switch k {
		case "kind", "x", "y":
			continue
		}
		for _, o := range owned {
			if k == o {
				continue outer
			}
		}
		return true
	}
	return false
}

// DecodeNoteMetadata is the inverse of EncodeNoteMetadata. The position is
// read from x and y whatever the variant. Empty input and null decode to
// nothing, and objects that match no known variant come back as
// OpaqueMetadata.
func DecodeNoteMetadata(raw json.RawMessage) (NoteMetadata, *CanvasMetadata, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil, nil
	}
	var bag map[string]json.RawMessage
	if err := json.Unmarshal(raw, &bag); err != nil {
		return nil, nil, err
	}
	var probe metadataProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, nil, err
	}
	pos := probe.position()

	kind := probe.infer()
	halfPosition := (probe.X == nil) != (probe.Y == nil)
	if _, known := variantKeys[kind]; !known || halfPosition || hasForeignKeys(bag, kind) {
		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			return nil, nil, err
		}
		return OpaqueMetadata{Tag: kind, Raw: compact.Bytes()}, pos, nil
	}

	switch kind {
	case MetadataResearch:
		var m ResearchMetadata
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, nil, err
		}
		return m, pos, nil
	case MetadataFile:
		var m FileMetadata
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, nil, err
		}
		return m, pos, nil
	case MetadataImage:
		var m ImageMetadata
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, nil, err
		}
		return m, pos, nil
	}
	return nil, pos, nil
}
