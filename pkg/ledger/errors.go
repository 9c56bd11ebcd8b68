package ledger

import "errors"

var (
	// ErrStorageRead marks a persisted entry that could not be read. Writes are
	// refused with it until the entry reads back or a restore replaces it.
	ErrStorageRead = errors.New("ledger: storage read failure")

	// ErrMalformedSnapshot is returned when a canonical string lacks the notebooks/notes arrays.
	ErrMalformedSnapshot = errors.New("ledger: malformed snapshot")

	// ErrMalformedBackup is returned when an uploaded backup lacks the notebooks/notes arrays.
	ErrMalformedBackup = errors.New("ledger: malformed backup")

	// ErrDigestUnavailable is returned by a Hasher that cannot produce a digest.
	ErrDigestUnavailable = errors.New("ledger: digest unavailable")

	ErrStorageWrite     = errors.New("ledger: storage write failure")
	ErrNotReady         = errors.New("ledger: store is not ready")
	ErrNotebookNotFound = errors.New("ledger: notebook not found")
	ErrNoteNotFound     = errors.New("ledger: note not found")
	ErrDuplicateId      = errors.New("ledger: duplicate id")
)
