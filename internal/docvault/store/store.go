// Package store is the persistence layer: gorm repositories for the
// relational state and the vector index for document chunks.
package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/kart-io/docvault/internal/model"
)

// Factory gives access to the repositories. Repositories returned inside
// TX share the transaction.
type Factory interface {
	Users() UserStore
	Documents() DocumentStore
	Conversations() ConversationStore
	Messages() MessageStore
	TX(ctx context.Context, fn func(tx Factory) error) error
}

// UserStore persists users.
type UserStore interface {
	Get(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
}

// DocumentStore persists documents.
type DocumentStore interface {
	Create(ctx context.Context, doc *model.Document) error
	Get(ctx context.Context, id string) (*model.Document, error)
	// List returns every document, newest first.
	List(ctx context.Context) ([]*model.Document, error)
	Delete(ctx context.Context, id string) error
	// Finish moves a processing document to its terminal status. It
	// reports false when the document was not processing anymore.
	Finish(ctx context.Context, id string, status model.DocumentStatus, totalChunks int) (bool, error)
}

// ConversationStore persists conversations.
type ConversationStore interface {
	Create(ctx context.Context, conv *model.Conversation) error
	// GetOwned returns the conversation only when userID owns it.
	GetOwned(ctx context.Context, userID, id string) (*model.Conversation, error)
	// ListByUser returns the user's conversations, newest first.
	ListByUser(ctx context.Context, userID string) ([]*model.Conversation, error)
	// ReplaceDefaultTitle sets the title only while it is the placeholder.
	ReplaceDefaultTitle(ctx context.Context, id, title string) (bool, error)
}

// MessageStore persists messages.
type MessageStore interface {
	Create(ctx context.Context, msg *model.Message) error
	// List returns the conversation in chronological order.
	List(ctx context.Context, conversationID string) ([]*model.Message, error)
	// History returns up to limit messages other than excludeID, oldest first.
	History(ctx context.Context, conversationID, excludeID string, limit int) ([]*model.Message, error)
}

type datastore struct {
	db *gorm.DB
}

var _ Factory = (*datastore)(nil)

// NewStore creates the gorm backed factory.
func NewStore(db *gorm.DB) Factory {
	return &datastore{db: db}
}

// AutoMigrate creates or updates the schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(model.All()...)
}

func (ds *datastore) Users() UserStore                 { return &users{db: ds.db} }
func (ds *datastore) Documents() DocumentStore         { return &documents{db: ds.db} }
func (ds *datastore) Conversations() ConversationStore { return &conversations{db: ds.db} }
func (ds *datastore) Messages() MessageStore           { return &messages{db: ds.db} }

// TX runs fn in a database transaction.
func (ds *datastore) TX(ctx context.Context, fn func(tx Factory) error) error {
	return ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&datastore{db: tx})
	})
}
