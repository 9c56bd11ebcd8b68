package ledger

import (
	"context"
	"fmt"
	"sync"

	"project-ledger-be/internal/pkg/logger"
)

// Medium is the key-value storage a ledger persists into.
type Medium interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Evaluation is the outcome of one save evaluation.
type Evaluation struct {
	Changed   bool
	Seq       uint64 // digest sequence number, zero when nothing changed
	Canonical string
}

// FingerprintUpdate is published when a digest completes and is not stale.
type FingerprintUpdate struct {
	Seq           uint64
	Fingerprint   string
	Canonical     string
	NotebookCount int
	NoteCount     int
}

// VersionLedger remembers the last saved canonical string and recomputes the
// fingerprint only when the content changed. Digests run asynchronously; each one
// carries a sequence number and a completion older than the displayed one is dropped.
type VersionLedger struct {
	medium Medium
	key    string
	hasher Hasher
	logger logger.ILogger

	mu          sync.Mutex
	lastSaved   string
	hasSaved    bool
	issued      uint64
	applied     uint64
	fingerprint string
	onUpdate    func(FingerprintUpdate)

	pending sync.WaitGroup
}

func NewVersionLedger(medium Medium, key string, hasher Hasher, log logger.ILogger) *VersionLedger {
	if hasher == nil {
		hasher = SHA256Hasher{}
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &VersionLedger{
		medium:      medium,
		key:         key,
		hasher:      hasher,
		logger:      log,
		fingerprint: FingerprintPlaceholder,
	}
}

// OnUpdate registers the callback invoked after a fingerprint is applied.
func (v *VersionLedger) OnUpdate(fn func(FingerprintUpdate)) {
	v.mu.Lock()
	v.onUpdate = fn
	v.mu.Unlock()
}

// Prime records a string already present in storage so that evaluating the same
// content is a no-op.
func (v *VersionLedger) Prime(canonical string) {
	v.mu.Lock()
	v.lastSaved = canonical
	v.hasSaved = true
	v.mu.Unlock()
}

// LastSaved returns the last persisted canonical string and whether one exists.
func (v *VersionLedger) LastSaved() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastSaved, v.hasSaved
}

// Evaluate persists the snapshot when its canonical string differs from the last
// saved one, then schedules a digest. Equal content performs no write and no digest.
func (v *VersionLedger) Evaluate(ctx context.Context, s Snapshot) (Evaluation, error) {
	canonical, err := Serialize(s)
	if err != nil {
		return Evaluation{}, err
	}

	v.mu.Lock()
	if v.hasSaved && canonical == v.lastSaved {
		v.mu.Unlock()
		return Evaluation{Canonical: canonical}, nil
	}
	if err := v.medium.Set(ctx, v.key, canonical); err != nil {
		v.mu.Unlock()
		return Evaluation{}, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	v.lastSaved = canonical
	v.hasSaved = true
	v.issued++
	seq := v.issued
	v.mu.Unlock()

	v.digest(seq, canonical, s)
	return Evaluation{Changed: true, Seq: seq, Canonical: canonical}, nil
}

// Compute schedules a digest without the equality gate and without writing. The
// store uses it when it adopts a snapshot from storage so a fingerprint is
// displayed before anything changes.
func (v *VersionLedger) Compute(s Snapshot) (Evaluation, error) {
	canonical, err := Serialize(s)
	if err != nil {
		return Evaluation{}, err
	}

	v.mu.Lock()
	v.issued++
	seq := v.issued
	v.mu.Unlock()

	v.digest(seq, canonical, s)
	return Evaluation{Seq: seq, Canonical: canonical}, nil
}

func (v *VersionLedger) digest(seq uint64, canonical string, s Snapshot) {
	notebooks, notes := len(s.Notebooks), len(s.Notes)
	v.pending.Add(1)
	go func() {
		defer v.pending.Done()
		fp, err := Fingerprint(v.hasher, canonical)
		if err != nil {
			v.logger.Warn("HASH", "Fingerprint unavailable, showing placeholder", map[string]interface{}{
				"seq":   seq,
				"error": err.Error(),
			})
			fp = FingerprintPlaceholder
		}
		v.apply(FingerprintUpdate{
			Seq:           seq,
			Fingerprint:   fp,
			Canonical:     canonical,
			NotebookCount: notebooks,
			NoteCount:     notes,
		})
	}()
}

func (v *VersionLedger) apply(u FingerprintUpdate) {
	v.mu.Lock()
	if u.Seq < v.applied {
		applied := v.applied
		v.mu.Unlock()
		v.logger.Debug("HASH", "Dropped stale fingerprint", map[string]interface{}{
			"seq":     u.Seq,
			"applied": applied,
		})
		return
	}
	v.applied = u.Seq
	v.fingerprint = u.Fingerprint
	cb := v.onUpdate
	v.mu.Unlock()

	if cb != nil {
		cb(u)
	}
}

// Fingerprint returns the displayed fingerprint and the sequence number it belongs to.
// While a digest is in flight the previous value stays visible.
func (v *VersionLedger) Fingerprint() (string, uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fingerprint, v.applied
}

// Flush blocks until every scheduled digest has completed.
func (v *VersionLedger) Flush() {
	v.pending.Wait()
}
