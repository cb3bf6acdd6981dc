package biz

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/docvault/internal/docvault/store"
	"github.com/kart-io/docvault/internal/docvault/testutil"
	"github.com/kart-io/docvault/internal/model"
	ragopts "github.com/kart-io/docvault/pkg/options/rag"
	apierrors "github.com/kart-io/docvault/pkg/utils/errors"
)

func newConversationService(t *testing.T, chat *testutil.Chat) *ConversationService {
	t.Helper()
	index, _, _ := newTestIndex()
	ds := store.NewStore(testutil.NewDB(t))
	return NewConversationService(ds, NewChatEngine(index, chat, ragopts.NewOptions()))
}

func TestSendIncludesPreviousExchange(t *testing.T) {
	ctx := context.Background()
	chat := &testutil.Chat{Reply: "Primeira resposta."}
	svc := newConversationService(t, chat)

	conv, err := svc.Create(ctx, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConversationTitle, conv.Title)

	_, err = svc.Send(ctx, "alice", conv.ID, "Primeira pergunta?")
	require.NoError(t, err)

	chat.Reply = "Segunda resposta."
	res, err := svc.Send(ctx, "alice", conv.ID, "Segunda pergunta?")
	require.NoError(t, err)
	assert.Equal(t, "Segunda resposta.", res.Reply)

	prompt := chat.LastPrompt()
	history := "Usuário: Primeira pergunta?\nAssistente: Primeira resposta.\n"
	require.Contains(t, prompt, history)
	assert.Less(t, strings.Index(prompt, history), strings.Index(prompt, "Pergunta: Segunda pergunta?"))
	assert.NotContains(t, prompt, "Usuário: Segunda pergunta?", "the question is not part of its own history")

	msgs, err := svc.Messages(ctx, "alice", conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	senders := []model.Sender{msgs[0].Sender, msgs[1].Sender, msgs[2].Sender, msgs[3].Sender}
	assert.Equal(t, []model.Sender{model.SenderUser, model.SenderAssistant, model.SenderUser, model.SenderAssistant}, senders)
}

func TestSendDerivesTitleOnce(t *testing.T) {
	ctx := context.Background()
	svc := newConversationService(t, &testutil.Chat{Reply: "ok"})
	conv, err := svc.Create(ctx, "alice", "  ")
	require.NoError(t, err)

	long := strings.Repeat("á", 60)
	res, err := svc.Send(ctx, "alice", conv.ID, long)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("á", TitleLength)+"...", res.Title)

	res, err = svc.Send(ctx, "alice", conv.ID, "outra pergunta")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("á", TitleLength)+"...", res.Title)
}

func TestSendKeepsCustomTitle(t *testing.T) {
	ctx := context.Background()
	svc := newConversationService(t, &testutil.Chat{Reply: "ok"})
	conv, err := svc.Create(ctx, "alice", "Contratos")
	require.NoError(t, err)

	res, err := svc.Send(ctx, "alice", conv.ID, "pergunta")
	require.NoError(t, err)
	assert.Equal(t, "Contratos", res.Title)
}

func TestSendFailureKeepsQuestionOnly(t *testing.T) {
	ctx := context.Background()
	chat := &testutil.Chat{Err: errors.New("provider down")}
	svc := newConversationService(t, chat)
	conv, err := svc.Create(ctx, "alice", "")
	require.NoError(t, err)

	_, err = svc.Send(ctx, "alice", conv.ID, "Alguém aí?")
	assert.ErrorIs(t, err, apierrors.ErrChatGenerationFailed)

	msgs, err := svc.Messages(ctx, "alice", conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, model.SenderUser, msgs[0].Sender)

	convs, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, model.DefaultConversationTitle, convs[0].Title)

	// the retry titles the conversation after the first question
	chat.Err = nil
	chat.Reply = "Sim."
	res, err := svc.Send(ctx, "alice", conv.ID, "Tem alguém?")
	require.NoError(t, err)
	assert.Equal(t, "Alguém aí?", res.Title)
}

func TestSendOwnership(t *testing.T) {
	ctx := context.Background()
	chat := &testutil.Chat{Reply: "ok"}
	svc := newConversationService(t, chat)
	conv, err := svc.Create(ctx, "alice", "")
	require.NoError(t, err)

	_, err = svc.Send(ctx, "mallory", conv.ID, "oi")
	assert.ErrorIs(t, err, apierrors.ErrConversationNotFound)
	_, err = svc.Messages(ctx, "mallory", conv.ID)
	assert.ErrorIs(t, err, apierrors.ErrConversationNotFound)
	assert.Zero(t, chat.Calls())

	msgs, err := svc.Messages(ctx, "alice", conv.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSendRejectsBlankMessage(t *testing.T) {
	ctx := context.Background()
	svc := newConversationService(t, &testutil.Chat{Reply: "ok"})
	conv, err := svc.Create(ctx, "alice", "")
	require.NoError(t, err)

	_, err = svc.Send(ctx, "alice", conv.ID, " \n ")
	assert.ErrorIs(t, err, apierrors.ErrEmptyMessage)
}

func TestTitleFrom(t *testing.T) {
	assert.Equal(t, "curta", TitleFrom("  curta "))
	exact := strings.Repeat("x", TitleLength)
	assert.Equal(t, exact, TitleFrom(exact))
	got := TitleFrom(strings.Repeat("ç", TitleLength+1))
	assert.Equal(t, TitleLength+3, utf8.RuneCountInString(got))
}
