package ledger

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"project-ledger-be/internal/entity"
)

// memoryMedium records every write so tests can count them.
type memoryMedium struct {
	mu     sync.Mutex
	data   map[string]string
	writes []string
	getErr error
	setErr error
}

func newMemoryMedium() *memoryMedium {
	return &memoryMedium{data: make(map[string]string)}
}

func (m *memoryMedium) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryMedium) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.writes = append(m.writes, value)
	return nil
}

func (m *memoryMedium) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryMedium) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}

func (m *memoryMedium) lastWrite() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.writes) == 0 {
		return ""
	}
	return m.writes[len(m.writes)-1]
}

// countingHasher wraps SHA256Hasher and counts digests.
type countingHasher struct {
	calls atomic.Int64
}

func (h *countingHasher) Sum(canonical string) ([]byte, error) {
	h.calls.Add(1)
	return SHA256Hasher{}.Sum(canonical)
}

var errNoCrypto = errors.New("crypto primitive unavailable")

func fixedClock() time.Time {
	return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
}

func sampleSnapshot() Snapshot {
	return Snapshot{
		Notebooks: []entity.Notebook{
			entity.NewDefaultNotebook(1700000000000),
			{Id: "proj1", Title: "Project One", Color: "amber", CreatedAt: 1700000001000, CoreConcept: "Bridges & tunnels"},
		},
		Notes: []entity.Note{
			{
				Id: "n1", NotebookId: "proj1", Content: "Survey the <span>", Type: entity.NoteTypeResearch,
				Timestamp: 1700000002000, Question: "Who built it?", Tags: []string{"history"},
				Metadata: entity.ResearchMetadata{URLs: []string{"https://example.org/a"}},
			},
			{
				Id: "n2", NotebookId: entity.DefaultNotebookId, Content: "Daily entry", Type: entity.NoteTypeLedger,
				Timestamp: 1700000003000, Title: "Monday",
				Position: &entity.CanvasMetadata{X: 120.5, Y: -40},
			},
			{
				Id: "n3", NotebookId: "proj1", Content: "raw dump", Type: entity.NoteTypeSource,
				Timestamp: 1700000004000, Tags: []string{},
				Metadata: entity.FileMetadata{FileName: "spec.pdf", FileType: "application/pdf", FileSize: 2048},
			},
			{
				Id: "n4", NotebookId: "proj1", Content: "![img](data:image/png;base64,AAAA)", Type: entity.NoteTypeLedger,
				Timestamp: 1700000005000, Metadata: entity.ImageMetadata{ImageData: "data:image/png;base64,AAAA", Prompt: "a bridge"},
			},
		},
	}
}
