package biz

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/kart-io/logger"

	"github.com/kart-io/docvault/internal/docvault/store"
	"github.com/kart-io/docvault/internal/model"
	apierrors "github.com/kart-io/docvault/pkg/utils/errors"
)

// TitleLength is the number of runes of the first question kept as the
// conversation title.
const TitleLength = 50

// SendResult is the outcome of one exchange.
type SendResult struct {
	Reply          string
	ConversationID string
	Title          string
}

// ConversationService owns conversations and their messages.
type ConversationService struct {
	store  store.Factory
	engine *ChatEngine
}

// NewConversationService creates the service.
func NewConversationService(ds store.Factory, engine *ChatEngine) *ConversationService {
	return &ConversationService{store: ds, engine: engine}
}

// Create starts a conversation. A blank title keeps the placeholder.
func (s *ConversationService) Create(ctx context.Context, userID, title string) (*model.Conversation, error) {
	conv := &model.Conversation{UserID: userID, Title: strings.TrimSpace(title)}
	if err := s.store.Conversations().Create(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// List returns the user's conversations, newest first.
func (s *ConversationService) List(ctx context.Context, userID string) ([]*model.Conversation, error) {
	return s.store.Conversations().ListByUser(ctx, userID)
}

// Messages returns the conversation history in chronological order.
func (s *ConversationService) Messages(ctx context.Context, userID, conversationID string) ([]*model.Message, error) {
	if _, err := s.store.Conversations().GetOwned(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.store.Messages().List(ctx, conversationID)
}

// Send records the question, generates a reply and records it. The
// question is committed before generation; the reply only on success.
func (s *ConversationService) Send(ctx context.Context, userID, conversationID, content string) (*SendResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apierrors.ErrEmptyMessage
	}

	conv, err := s.store.Conversations().GetOwned(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	question := &model.Message{ConversationID: conv.ID, Sender: model.SenderUser, Content: content}
	if err := s.store.Messages().Create(ctx, question); err != nil {
		return nil, err
	}

	// generation and the reply write outlive a client disconnect
	ctx = context.WithoutCancel(ctx)

	previous, err := s.store.Messages().History(ctx, conv.ID, question.ID, s.engine.HistoryLimit())
	if err != nil {
		return nil, err
	}
	history := make([]Turn, len(previous))
	for i, m := range previous {
		history[i] = Turn{Sender: m.Sender, Content: m.Content}
	}

	reply, err := s.engine.Respond(ctx, content, history, userID)
	if err != nil {
		logger.Warnw("exchange left unanswered", "conversation_id", conv.ID, "message_id", question.ID)
		return nil, err
	}

	title := conv.Title
	err = s.store.TX(ctx, func(tx store.Factory) error {
		answer := &model.Message{ConversationID: conv.ID, Sender: model.SenderAssistant, Content: reply}
		if err := tx.Messages().Create(ctx, answer); err != nil {
			return err
		}
		if conv.Title != model.DefaultConversationTitle {
			return nil
		}

		first, err := firstQuestion(ctx, tx, conv.ID)
		if err != nil {
			return err
		}
		newTitle := TitleFrom(first)
		ok, err := tx.Conversations().ReplaceDefaultTitle(ctx, conv.ID, newTitle)
		if err != nil {
			return err
		}
		if ok {
			title = newTitle
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SendResult{Reply: reply, ConversationID: conv.ID, Title: title}, nil
}

func firstQuestion(ctx context.Context, tx store.Factory, conversationID string) (string, error) {
	msgs, err := tx.Messages().List(ctx, conversationID)
	if err != nil {
		return "", err
	}
	for _, m := range msgs {
		if m.Sender == model.SenderUser {
			return m.Content, nil
		}
	}
	return "", nil
}

// TitleFrom derives a title from a question: the first TitleLength runes,
// with "..." when cut.
func TitleFrom(content string) string {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) <= TitleLength {
		return content
	}
	return strings.TrimSpace(string([]rune(content)[:TitleLength])) + "..."
}
