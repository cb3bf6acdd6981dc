package biz

import (
	"bufio"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/kart-io/logger"

	"github.com/kart-io/docvault/internal/docvault/store"
	"github.com/kart-io/docvault/internal/model"
	"github.com/kart-io/docvault/pkg/component/storage"
	apierrors "github.com/kart-io/docvault/pkg/utils/errors"
)

const pdfMagic = "%PDF-"

// IngestScheduler starts background ingestion of a stored document.
type IngestScheduler interface {
	Dispatch(documentID string)
}

// DispatchFunc adapts a function to IngestScheduler.
type DispatchFunc func(documentID string)

// Dispatch calls f.
func (f DispatchFunc) Dispatch(documentID string) { f(documentID) }

// DocumentService handles uploads and the document lifecycle outside
// ingestion.
type DocumentService struct {
	store  store.Factory
	index  store.VectorIndex
	files  storage.Storage
	ingest IngestScheduler
}

// NewDocumentService creates the service.
func NewDocumentService(ds store.Factory, index store.VectorIndex, files storage.Storage, ingest IngestScheduler) *DocumentService {
	return &DocumentService{store: ds, index: index, files: files, ingest: ingest}
}

// Upload stores a PDF, records it as processing and schedules ingestion.
// It returns before ingestion starts.
func (s *DocumentService) Upload(ctx context.Context, uploaderID, filename string, r io.Reader) (*model.Document, error) {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return nil, apierrors.ErrInvalidFileType
	}

	br := bufio.NewReader(r)
	head, _ := br.Peek(len(pdfMagic))
	if string(head) != pdfMagic {
		return nil, apierrors.ErrInvalidFileType.WithMessage("File content is not a PDF")
	}

	path, err := s.files.Save(ctx, br, name)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, apierrors.ErrFileTooLarge
		}
		return nil, apierrors.ErrStorage.WithCause(err)
	}

	doc := &model.Document{
		Filename:    name,
		StoragePath: path,
		Status:      model.DocumentProcessing,
		UploadedBy:  uploaderID,
	}
	if err := s.store.Documents().Create(ctx, doc); err != nil {
		if derr := s.files.Delete(context.WithoutCancel(ctx), path); derr != nil {
			logger.Warnw("failed to remove orphaned upload", "path", path, "error", derr.Error())
		}
		return nil, err
	}

	logger.Infow("document uploaded", "document_id", doc.ID, "filename", name, "uploaded_by", uploaderID)
	s.ingest.Dispatch(doc.ID)
	return doc, nil
}

// List returns every document, newest first.
func (s *DocumentService) List(ctx context.Context) ([]*model.Document, error) {
	return s.store.Documents().List(ctx)
}

// Get returns one document.
func (s *DocumentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if err := validateDocumentID(id); err != nil {
		return nil, err
	}
	return s.store.Documents().Get(ctx, id)
}

// Delete removes the row, then the vectors and the stored file. The last
// two steps are best effort; failures leave orphans that are only logged.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	if err := validateDocumentID(id); err != nil {
		return err
	}

	doc, err := s.store.Documents().Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Documents().Delete(ctx, id); err != nil {
		return err
	}

	ctx = context.WithoutCancel(ctx)
	if err := s.index.DeleteByDocument(ctx, id); err != nil {
		logger.Errorw("vectors left without document", "document_id", id, "error", err.Error())
	}
	if err := s.files.Delete(ctx, doc.StoragePath); err != nil {
		logger.Warnw("failed to remove stored file", "document_id", id, "path", doc.StoragePath, "error", err.Error())
	}

	logger.Infow("document deleted", "document_id", id, "filename", doc.Filename)
	return nil
}

func validateDocumentID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apierrors.ErrInvalidDocumentID
	}
	return nil
}
