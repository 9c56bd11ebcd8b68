package service

import (
	"context"

	"project-ledger-be/internal/dto"
	"project-ledger-be/internal/mapper"
	"project-ledger-be/internal/repository/unitofwork"
	"project-ledger-be/pkg/ledger"
)

const defaultRevisionLimit = 20

type ILedgerService interface {
	Version(ctx context.Context) (*dto.VersionResponse, error)
	// Export returns the backup document and the filename it should be downloaded as.
	Export(ctx context.Context) ([]byte, string, error)
	Import(ctx context.Context, data []byte) (*dto.ImportResponse, error)
	Revisions(ctx context.Context, limit int) ([]*dto.RevisionResponse, error)
	// Fingerprint satisfies the websocket greeting source.
	Fingerprint() (string, uint64)
}

type ledgerService struct {
	store      *ledger.Store
	uowFactory unitofwork.RepositoryFactory
	mapper     *mapper.RevisionMapper
}

func NewLedgerService(store *ledger.Store, uowFactory unitofwork.RepositoryFactory) ILedgerService {
	return &ledgerService{
		store:      store,
		uowFactory: uowFactory,
		mapper:     mapper.NewRevisionMapper(),
	}
}

func (s *ledgerService) Version(ctx context.Context) (*dto.VersionResponse, error) {
	fp, seq := s.store.Fingerprint()
	snap := s.store.Snapshot()
	return &dto.VersionResponse{
		Fingerprint:   fp,
		Seq:           seq,
		State:         s.store.State().String(),
		NotebookCount: len(snap.Notebooks),
		NoteCount:     len(snap.Notes),
	}, nil
}

func (s *ledgerService) Fingerprint() (string, uint64) {
	return s.store.Fingerprint()
}

func (s *ledgerService) Export(ctx context.Context) ([]byte, string, error) {
	doc := s.store.Export()
	data, err := ledger.MarshalDocument(doc)
	if err != nil {
		return nil, "", err
	}
	exportedAt, err := doc.Timestamp()
	if err != nil {
		return nil, "", err
	}
	return data, ledger.ExportFilename(exportedAt), nil
}

// Import restores a backup. It is all or nothing: a malformed document leaves the
// ledger untouched and surfaces ledger.ErrMalformedBackup.
func (s *ledgerService) Import(ctx context.Context, data []byte) (*dto.ImportResponse, error) {
	eval, err := s.store.Restore(ctx, data)
	if err != nil {
		return nil, err
	}
	snap := s.store.Snapshot()
	return &dto.ImportResponse{
		Changed:       eval.Changed,
		Seq:           eval.Seq,
		NotebookCount: len(snap.Notebooks),
		NoteCount:     len(snap.Notes),
	}, nil
}

func (s *ledgerService) Revisions(ctx context.Context, limit int) ([]*dto.RevisionResponse, error) {
	if limit <= 0 {
		limit = defaultRevisionLimit
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	revisions, err := uow.RevisionRepository().FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.RevisionResponse, 0, len(revisions))
	for _, r := range revisions {
		result = append(result, s.mapper.ToResponse(r))
	}
	return result, nil
}
