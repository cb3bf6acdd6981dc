// Package rag provides retrieval, ingestion and vector index options.
package rag

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/docvault/pkg/options"
)

var (
	_ options.IOptions = (*Options)(nil)
	_ options.IOptions = (*IngestOptions)(nil)
	_ options.IOptions = (*VectorOptions)(nil)
)

// Options contains the retrieval and chat settings.
type Options struct {
	// ChunkSize is the maximum chunk length in runes.
	ChunkSize int `json:"chunk-size" mapstructure:"chunk-size"`

	// ChunkOverlap is the tail carried into the next chunk, in runes.
	ChunkOverlap int `json:"chunk-overlap" mapstructure:"chunk-overlap"`

	// TopK is the number of chunks retrieved per question.
	TopK int `json:"top-k" mapstructure:"top-k"`

	// HistoryLimit is the number of previous messages given to the model.
	HistoryLimit int `json:"history-limit" mapstructure:"history-limit"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		TopK:         5,
		HistoryLimit: 10,
	}
}

// AddFlags adds flags for RAG options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...)
	fs.IntVar(&o.ChunkSize, p+"rag.chunk-size", o.ChunkSize, "Maximum chunk size in characters.")
	fs.IntVar(&o.ChunkOverlap, p+"rag.chunk-overlap", o.ChunkOverlap, "Overlap between consecutive chunks.")
	fs.IntVar(&o.TopK, p+"rag.top-k", o.TopK, "Number of chunks retrieved per question.")
	fs.IntVar(&o.HistoryLimit, p+"rag.history-limit", o.HistoryLimit, "Number of previous messages sent to the model.")
}

// Validate validates the RAG options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("rag.chunk-size must be positive"))
	}
	if o.ChunkOverlap < 0 || o.ChunkOverlap >= o.ChunkSize {
		errs = append(errs, fmt.Errorf("rag.chunk-overlap must be in [0, chunk-size)"))
	}
	if o.TopK <= 0 {
		errs = append(errs, fmt.Errorf("rag.top-k must be positive"))
	}
	if o.HistoryLimit < 0 {
		errs = append(errs, fmt.Errorf("rag.history-limit cannot be negative"))
	}
	return errs
}

// IngestOptions configures the background ingestion pool.
type IngestOptions struct {
	// Workers is the number of documents processed concurrently.
	Workers int `json:"workers" mapstructure:"workers"`

	// EmbedBatchSize is the number of chunks sent per embedding call.
	EmbedBatchSize int `json:"embed-batch-size" mapstructure:"embed-batch-size"`

	// DrainTimeout bounds how long shutdown waits for running ingestions.
	DrainTimeout time.Duration `json:"drain-timeout" mapstructure:"drain-timeout"`
}

// NewIngestOptions creates IngestOptions with defaults.
func NewIngestOptions() *IngestOptions {
	return &IngestOptions{
		Workers:        4,
		EmbedBatchSize: 64,
		DrainTimeout:   30 * time.Second,
	}
}

// AddFlags adds flags for ingestion options.
func (o *IngestOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...)
	fs.IntVar(&o.Workers, p+"ingest.workers", o.Workers, "Concurrent document ingestions.")
	fs.IntVar(&o.EmbedBatchSize, p+"ingest.embed-batch-size", o.EmbedBatchSize, "Chunks per embedding request.")
	fs.DurationVar(&o.DrainTimeout, p+"ingest.drain-timeout", o.DrainTimeout, "Time to wait for running ingestions on shutdown.")
}

// Validate validates the ingestion options.
func (o *IngestOptions) Validate() []error {
	if o == nil {
		return nil
	}
	var errs []error
	if o.Workers <= 0 {
		errs = append(errs, fmt.Errorf("ingest.workers must be positive"))
	}
	if o.EmbedBatchSize <= 0 {
		errs = append(errs, fmt.Errorf("ingest.embed-batch-size must be positive"))
	}
	return errs
}

// Vector backends.
const (
	BackendMilvus = "milvus"
	BackendMemory = "memory"
)

// VectorOptions selects the vector index backend.
type VectorOptions struct {
	Backend string `json:"backend" mapstructure:"backend"`
}

// NewVectorOptions creates VectorOptions with defaults.
func NewVectorOptions() *VectorOptions {
	return &VectorOptions{Backend: BackendMilvus}
}

// AddFlags adds flags for the vector options.
func (o *VectorOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Backend, options.Join(prefixes...)+"vector.backend", o.Backend, "Vector index backend (milvus, memory).")
}

// Validate validates the vector options.
func (o *VectorOptions) Validate() []error {
	if o == nil {
		return nil
	}
	switch o.Backend {
	case BackendMilvus, BackendMemory:
		return nil
	}
	return []error{fmt.Errorf("vector.backend must be one of %s, %s", BackendMilvus, BackendMemory)}
}
