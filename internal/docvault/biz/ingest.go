package biz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kart-io/logger"

	"github.com/kart-io/docvault/internal/docvault/store"
	"github.com/kart-io/docvault/internal/model"
	ctxlog "github.com/kart-io/docvault/pkg/infra/logger"
	"github.com/kart-io/docvault/pkg/infra/pool"
	"github.com/kart-io/docvault/pkg/infra/tracing"
	apierrors "github.com/kart-io/docvault/pkg/utils/errors"
)

const tracerName = "docvault/biz"

var errNoText = errors.New("document has no extractable text")

// Pipeline turns a processing document into indexed chunks and records
// the terminal status. It is the only writer of that status.
type Pipeline struct {
	store     store.Factory
	index     store.VectorIndex
	extractor Extractor
	splitter  Splitter
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(ds store.Factory, index store.VectorIndex, extractor Extractor, splitter Splitter) *Pipeline {
	return &Pipeline{store: ds, index: index, extractor: extractor, splitter: splitter}
}

// Process ingests one document. Failures end in the error status and are
// logged, never returned.
func (p *Pipeline) Process(ctx context.Context, documentID string) {
	ctx = ctxlog.WithFields(ctx, "document_id", documentID)
	log := ctxlog.Get(ctx)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("ingestion panicked", "panic", r)
			p.cleanup(ctx, documentID)
			p.finish(ctx, documentID, model.DocumentError, 0)
		}
	}()

	doc, err := p.store.Documents().Get(ctx, documentID)
	if err != nil {
		if errors.Is(err, apierrors.ErrDocumentNotFound) {
			log.Warnw("document removed before ingestion")
			return
		}
		log.Errorw("failed to load document for ingestion", "error", err.Error())
		p.finish(ctx, documentID, model.DocumentError, 0)
		return
	}
	if doc.Status != model.DocumentProcessing {
		log.Warnw("skipping document that is not processing", "status", doc.Status)
		return
	}

	total, err := p.ingest(ctx, doc)
	if err != nil {
		log.Errorw("document ingestion failed", "filename", doc.Filename, "error", err.Error())
		p.finish(ctx, doc.ID, model.DocumentError, 0)
		return
	}

	if !p.finish(ctx, doc.ID, model.DocumentActive, total) {
		// the row is gone or no longer processing, so these vectors have no owner
		p.cleanup(ctx, doc.ID)
		return
	}
	log.Infow("document ingested",
		"filename", doc.Filename,
		"chunks", total,
		"elapsed", time.Since(start).String(),
	)
}

func (p *Pipeline) ingest(ctx context.Context, doc *model.Document) (total int, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ingest.document")
	defer func() { tracing.EndSpan(span, err) }()

	text, err := p.extractor.Extract(ctx, doc.StoragePath)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(text) == "" {
		return 0, errNoText
	}

	pieces := p.splitter.Split(text)
	if len(pieces) == 0 {
		return 0, errNoText
	}

	chunks := make([]store.Chunk, len(pieces))
	for i, content := range pieces {
		chunks[i] = store.Chunk{
			DocumentID: doc.ID,
			UserID:     doc.UploadedBy,
			Source:     doc.Filename,
			Content:    content,
		}
	}

	if err := p.index.Index(ctx, chunks); err != nil {
		p.cleanup(ctx, doc.ID)
		return 0, fmt.Errorf("failed to index %d chunks: %w", len(chunks), err)
	}
	return len(chunks), nil
}

// cleanup removes whatever part of a failed batch reached the index.
func (p *Pipeline) cleanup(ctx context.Context, documentID string) {
	if err := p.index.DeleteByDocument(ctx, documentID); err != nil {
		ctxlog.Get(ctx).Warnw("failed to remove vectors of failed document", "error", err.Error())
	}
}

// finish writes the terminal status and reports whether it was applied.
func (p *Pipeline) finish(ctx context.Context, id string, status model.DocumentStatus, total int) bool {
	var applied bool
	err := p.store.TX(ctx, func(tx store.Factory) error {
		ok, err := tx.Documents().Finish(ctx, id, status, total)
		applied = ok
		return err
	})
	if err != nil {
		ctxlog.Get(ctx).Errorw("failed to record document status", "status", status, "error", err.Error())
		return false
	}
	if !applied {
		ctxlog.Get(ctx).Warnw("document left processing during ingestion", "status", status)
	}
	return applied
}

// Dispatcher runs ingestion in the background, detached from the request
// that uploaded the document.
type Dispatcher struct {
	pipeline *Pipeline
	pool     *pool.Pool
}

// NewDispatcher creates a dispatcher. A nil pool runs every job on its own
// goroutine.
func NewDispatcher(pipeline *Pipeline, p *pool.Pool) *Dispatcher {
	return &Dispatcher{pipeline: pipeline, pool: p}
}

// Dispatch schedules documentID once, without retry. It does not wait for
// the ingestion.
func (d *Dispatcher) Dispatch(documentID string) {
	task := func() {
		d.pipeline.Process(context.Background(), documentID)
	}

	if d.pool != nil {
		err := d.pool.Submit(task)
		if err == nil {
			return
		}
		logger.Warnw("ingestion pool unavailable, falling back to goroutine",
			"document_id", documentID,
			"error", err.Error(),
		)
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorw("ingestion task panicked", "document_id", documentID, "panic", r)
			}
		}()
		task()
	}()
}
