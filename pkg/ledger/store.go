package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"project-ledger-be/internal/pkg/logger"
)

// DefaultStorageKey is the medium key holding the canonical snapshot string.
const DefaultStorageKey = "steno_ledger_integrated_v1"

type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type EventType string

const (
	EventSaved       EventType = "LEDGER_SAVED"
	EventFingerprint EventType = "LEDGER_FINGERPRINT"
	EventRestored    EventType = "LEDGER_RESTORED"
)

// Event is delivered to store subscribers.
type Event struct {
	Type          EventType
	Seq           uint64
	Fingerprint   string // set on EventFingerprint
	Canonical     string
	NotebookCount int
	NoteCount     int
	OccurredAt    time.Time
}

type Listener func(Event)

type Option func(*Store)

func WithStorageKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func WithHasher(h Hasher) Option {
	return func(s *Store) { s.hasher = h }
}

func WithLogger(l logger.ILogger) Option {
	return func(s *Store) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store owns the notebooks and notes collections for the whole process. Every
// mutation goes through Mutate, which runs a save evaluation; collaborators never
// write to the medium themselves.
type Store struct {
	medium Medium
	key    string
	hasher Hasher
	logger logger.ILogger
	now    func() time.Time

	mu         sync.Mutex
	state      State
	snapshot   Snapshot
	ledger     *VersionLedger
	readFailed bool // startup read failed; writes wait for a successful read or a restore

	listenersMu sync.RWMutex
	listeners   map[int]Listener
	nextId      int
}

func NewStore(medium Medium, opts ...Option) *Store {
	s := &Store{
		medium:    medium,
		key:       DefaultStorageKey,
		hasher:    SHA256Hasher{},
		logger:    logger.NewNopLogger(),
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ledger = NewVersionLedger(medium, s.key, s.hasher, s.logger)
	s.ledger.OnUpdate(s.onFingerprint)
	return s
}

func (s *Store) nowMillis() int64 {
	return s.now().UnixMilli()
}

// Load reads the persisted snapshot and moves the store to Ready. A missing or
// malformed entry yields the default snapshot, which is not written until
// something changes. An unreadable entry also yields the default snapshot for
// reading, but writes are held until the entry can be read, so Load only fails
// when ctx is already done.
func (s *Store) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateUninitialized {
		return nil
	}
	s.state = StateLoading

	snapshot, raw, err := s.readPersisted(ctx)
	if err != nil {
		s.logger.Warn("STORE", "Reading persisted ledger failed, serving defaults and holding writes", map[string]interface{}{
			"key":   s.key,
			"error": err.Error(),
		})
		s.readFailed = true
		s.snapshot = snapshot
		if _, err := s.ledger.Compute(snapshot); err != nil {
			s.logger.Error("STORE", "Serializing default ledger failed", map[string]interface{}{"error": err.Error()})
		}
	} else {
		s.adopt(snapshot, raw)
	}
	s.state = StateReady

	s.logger.Info("STORE", "Ledger ready", map[string]interface{}{
		"notebooks": len(s.snapshot.Notebooks),
		"notes":     len(s.snapshot.Notes),
	})
	return nil
}

// readPersisted fetches and decodes the stored snapshot. raw is empty unless the
// stored entry was decoded. A missing or malformed entry falls back to the
// default snapshot; only a failed read is an error.
func (s *Store) readPersisted(ctx context.Context) (snapshot Snapshot, raw string, err error) {
	snapshot = DefaultSnapshot(s.nowMillis())
	stored, found, err := s.medium.Get(ctx, s.key)
	switch {
	case err != nil:
		return snapshot, "", fmt.Errorf("%w: %v", ErrStorageRead, err)
	case !found:
		s.logger.Info("STORE", "No persisted ledger, starting from defaults", map[string]interface{}{"key": s.key})
		return snapshot, "", nil
	}

	loaded, err := Deserialize(stored)
	if err != nil {
		s.logger.Warn("STORE", "Persisted ledger is malformed, starting from defaults", map[string]interface{}{
			"key":   s.key,
			"error": err.Error(),
		})
		return snapshot, "", nil
	}
	if loaded.EnsureDefault(s.nowMillis()) {
		s.logger.Warn("STORE", "Persisted ledger had no default notebook, restored it", nil)
	}
	return loaded, stored, nil
}

// adopt installs a snapshot obtained by a successful read and primes the version
// ledger with it, so evaluating the same content later writes nothing. When raw
// is empty the snapshot's own canonical string is primed. Callers hold s.mu.
func (s *Store) adopt(snapshot Snapshot, raw string) {
	s.snapshot = snapshot
	s.readFailed = false

	eval, err := s.ledger.Compute(snapshot)
	if err != nil {
		s.logger.Error("STORE", "Serializing loaded ledger failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if raw == "" {
		raw = eval.Canonical
	}
	s.ledger.Prime(raw)
}

// retryRead runs before the first write after a failed startup read. Callers
// hold s.mu.
func (s *Store) retryRead(ctx context.Context) error {
	snapshot, raw, err := s.readPersisted(ctx)
	if err != nil {
		s.logger.Warn("STORE", "Persisted ledger still unreadable, refusing write", map[string]interface{}{
			"key":   s.key,
			"error": err.Error(),
		})
		return err
	}
	s.adopt(snapshot, raw)
	s.logger.Info("STORE", "Persisted ledger read after earlier failure", map[string]interface{}{
		"notebooks": len(snapshot.Notebooks),
		"notes":     len(snapshot.Notes),
	})
	return nil
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns a deep copy of the current collections.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Clone()
}

// Mutate applies fn to a working copy of the collections and runs a save evaluation.
// When fn fails, or the write fails, the current collections are left untouched.
// After a failed startup read the persisted entry is read again first, and the
// mutation fails with ErrStorageRead while it stays unreadable.
func (s *Store) Mutate(ctx context.Context, fn func(snap *Snapshot) error) (Evaluation, error) {
	return s.mutate(ctx, fn, false)
}

func (s *Store) mutate(ctx context.Context, fn func(snap *Snapshot) error, replacing bool) (Evaluation, error) {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return Evaluation{}, ErrNotReady
	}
	if s.readFailed && !replacing {
		if err := s.retryRead(ctx); err != nil {
			s.mu.Unlock()
			return Evaluation{}, err
		}
	}

	working := s.snapshot.Clone()
	if err := fn(&working); err != nil {
		s.mu.Unlock()
		return Evaluation{}, err
	}

	eval, err := s.ledger.Evaluate(ctx, working)
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("STORE", "Saving ledger failed", map[string]interface{}{"error": err.Error()})
		return Evaluation{}, err
	}
	s.snapshot = working
	s.readFailed = false
	s.mu.Unlock()

	if eval.Changed {
		s.notify(s.newEvent(EventSaved, eval.Seq, "", eval.Canonical, len(working.Notebooks), len(working.Notes)))
	}
	return eval, nil
}

// Replace swaps in new collections wholesale. It is the total, non-merging step of
// restore, and it is allowed while the persisted entry is unreadable.
func (s *Store) Replace(ctx context.Context, snap Snapshot) (Evaluation, error) {
	replacement := snap.Clone().normalized()
	replacement.EnsureDefault(s.nowMillis())

	eval, err := s.mutate(ctx, func(working *Snapshot) error {
		*working = replacement
		return nil
	}, true)
	if err != nil {
		return Evaluation{}, err
	}
	s.notify(s.newEvent(EventRestored, eval.Seq, "", eval.Canonical, len(replacement.Notebooks), len(replacement.Notes)))
	return eval, nil
}

// Restore validates an uploaded document and, only if it is well formed, replaces
// the collections with its contents.
func (s *Store) Restore(ctx context.Context, data []byte) (Evaluation, error) {
	snap, err := Restore(data)
	if err != nil {
		return Evaluation{}, err
	}
	return s.Replace(ctx, snap)
}

// Export builds the backup document of the current collections.
func (s *Store) Export() Document {
	return Export(s.Snapshot(), s.now())
}

// Fingerprint returns the displayed fingerprint and its sequence number.
func (s *Store) Fingerprint() (string, uint64) {
	return s.ledger.Fingerprint()
}

// Flush waits for outstanding digests.
func (s *Store) Flush() {
	s.ledger.Flush()
}

// Subscribe registers a listener and returns a function that removes it.
// Listeners run on the goroutine that produced the event and must not block.
func (s *Store) Subscribe(l Listener) func() {
	s.listenersMu.Lock()
	id := s.nextId
	s.nextId++
	s.listeners[id] = l
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *Store) onFingerprint(u FingerprintUpdate) {
	s.notify(s.newEvent(EventFingerprint, u.Seq, u.Fingerprint, u.Canonical, u.NotebookCount, u.NoteCount))
}

func (s *Store) newEvent(t EventType, seq uint64, fingerprint, canonical string, notebooks, notes int) Event {
	return Event{
		Type:          t,
		Seq:           seq,
		Fingerprint:   fingerprint,
		Canonical:     canonical,
		NotebookCount: notebooks,
		NoteCount:     notes,
		OccurredAt:    s.now(),
	}
}

func (s *Store) notify(evt Event) {
	s.listenersMu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenersMu.RUnlock()

	for _, l := range listeners {
		l(evt)
	}
}
