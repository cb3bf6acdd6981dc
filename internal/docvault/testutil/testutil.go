// Package testutil provides in-process fakes for DocVault tests: a SQLite
// database, a deterministic embedder and a scripted chat model.
package testutil

import (
	"context"
	"hash/fnv"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"unicode"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kart-io/docvault/internal/model"
	"github.com/kart-io/docvault/pkg/llm"
)

// NewDB opens a migrated SQLite database in a temp dir.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "docvault.db")), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

// Dimension is the vector size produced by Embedder.
const Dimension = 64

// Embedder hashes lowercase words into a fixed size bag-of-words vector,
// so texts sharing words are close under cosine similarity.
type Embedder struct {
	mu    sync.Mutex
	Err   error
	Calls int
}

var _ llm.EmbeddingProvider = (*Embedder)(nil)

func (e *Embedder) Name() string { return "fake" }

func (e *Embedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Calls++
	if e.Err != nil {
		return nil, e.Err
	}

	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = Vector(t)
	}
	return out, nil
}

func (e *Embedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	v, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return v[0], nil
}

// Vector returns the embedding Embedder produces for text.
func Vector(text string) []float32 {
	v := make([]float32, Dimension)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		v[h.Sum32()%Dimension]++
	}

	var norm float64
	for _, x := range v {
		norm += float64(x * x)
	}
	if norm > 0 {
		n := float32(math.Sqrt(norm))
		for i := range v {
			v[i] /= n
		}
	}
	return v
}

// Chat is a scripted chat provider that records its prompts.
type Chat struct {
	mu      sync.Mutex
	Reply   string
	Err     error
	Prompts []string
	Systems []string
}

var _ llm.ChatProvider = (*Chat)(nil)

func (c *Chat) Name() string { return "fake" }

func (c *Chat) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	var system, prompt string
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			system = m.Content
		case llm.RoleUser:
			prompt = m.Content
		}
	}
	return c.Generate(ctx, prompt, system)
}

func (c *Chat) Generate(_ context.Context, prompt, systemPrompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Prompts = append(c.Prompts, prompt)
	c.Systems = append(c.Systems, systemPrompt)
	if c.Err != nil {
		return "", c.Err
	}
	return c.Reply, nil
}

// Calls returns the number of Generate calls.
func (c *Chat) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Prompts)
}

// LastPrompt returns the most recent user prompt.
func (c *Chat) LastPrompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Prompts) == 0 {
		return ""
	}
	return c.Prompts[len(c.Prompts)-1]
}
