package store

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/kart-io/docvault/internal/model"
	"github.com/kart-io/docvault/pkg/utils/errors"
)

type conversations struct {
	db *gorm.DB
}

func (s *conversations) Create(ctx context.Context, conv *model.Conversation) error {
	if err := s.db.WithContext(ctx).Create(conv).Error; err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

func (s *conversations) GetOwned(ctx context.Context, userID, id string) (*model.Conversation, error) {
	var conv model.Conversation
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&conv).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrConversationNotFound
		}
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return &conv, nil
}

func (s *conversations) ListByUser(ctx context.Context, userID string) ([]*model.Conversation, error) {
	var convs []*model.Conversation
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Order("id").Find(&convs).Error
	if err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return convs, nil
}

func (s *conversations) ReplaceDefaultTitle(ctx context.Context, id, title string) (bool, error) {
	result := s.db.WithContext(ctx).Model(&model.Conversation{}).
		Where("id = ? AND title = ?", id, model.DefaultConversationTitle).
		Update("title", title)
	if result.Error != nil {
		return false, errors.ErrDatabase.WithCause(result.Error)
	}
	return result.RowsAffected == 1, nil
}

type messages struct {
	db *gorm.DB
}

func (s *messages) Create(ctx context.Context, msg *model.Message) error {
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

func (s *messages) List(ctx context.Context, conversationID string) ([]*model.Message, error) {
	var msgs []*model.Message
	err := s.db.WithContext(ctx).Where("conversation_id = ?", conversationID).
		Order("created_at ASC").Order("id ASC").Find(&msgs).Error
	if err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return msgs, nil
}

func (s *messages) History(ctx context.Context, conversationID, excludeID string, limit int) ([]*model.Message, error) {
	if limit <= 0 {
		return nil, nil
	}

	var msgs []*model.Message
	err := s.db.WithContext(ctx).
		Where("conversation_id = ? AND id <> ?", conversationID, excludeID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Find(&msgs).Error
	if err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
