package store

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/kart-io/docvault/internal/model"
	"github.com/kart-io/docvault/pkg/utils/errors"
)

type documents struct {
	db *gorm.DB
}

func (s *documents) Create(ctx context.Context, doc *model.Document) error {
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

func (s *documents) Get(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrDocumentNotFound
		}
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return &doc, nil
}

func (s *documents) List(ctx context.Context) ([]*model.Document, error) {
	var docs []*model.Document
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id").Find(&docs).Error; err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return docs, nil
}

func (s *documents) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Document{})
	if result.Error != nil {
		return errors.ErrDatabase.WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrDocumentNotFound
	}
	return nil
}

func (s *documents) Finish(ctx context.Context, id string, status model.DocumentStatus, totalChunks int) (bool, error) {
	result := s.db.WithContext(ctx).Model(&model.Document{}).
		Where("id = ? AND status = ?", id, model.DocumentProcessing).
		Updates(map[string]any{"status": status, "total_chunks": totalChunks})
	if result.Error != nil {
		return false, errors.ErrDatabase.WithCause(result.Error)
	}
	return result.RowsAffected == 1, nil
}
