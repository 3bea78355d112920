package usecase

import (
	"time"

	"github.com/voiceops-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/service/archive"
	"github.com/voiceops-lab/mnemosyne/pkg/service/embedding"
	"github.com/voiceops-lab/mnemosyne/pkg/service/extract"
)

// DefaultComposeTimeout bounds the whole context composition. The composed
// context is fetched at call start; a late context is worth less than a
// partial one.
const DefaultComposeTimeout = 800 * time.Millisecond

// DefaultTokenTTL is the lifetime of issued tenant credentials
const DefaultTokenTTL = 30 * time.Minute

type UseCases struct {
	repo       interfaces.Repository
	registry   *model.TenantRegistry
	authSecret []byte

	extractor *extract.Service
	embedder  *embedding.Service
	archiver  archive.Archiver

	composeTimeout time.Duration
	tokenTTL       time.Duration
}

type Option func(*UseCases)

// WithExtractor sets the extraction engine
func WithExtractor(extractor *extract.Service) Option {
	return func(uc *UseCases) {
		uc.extractor = extractor
	}
}

// WithEmbedder sets the embedding service
func WithEmbedder(embedder *embedding.Service) Option {
	return func(uc *UseCases) {
		uc.embedder = embedder
	}
}

// WithArchiver sets the transcript archiver
func WithArchiver(archiver archive.Archiver) Option {
	return func(uc *UseCases) {
		uc.archiver = archiver
	}
}

// WithComposeTimeout overrides the context composition deadline
func WithComposeTimeout(timeout time.Duration) Option {
	return func(uc *UseCases) {
		uc.composeTimeout = timeout
	}
}

// WithTokenTTL overrides the issued credential lifetime
func WithTokenTTL(ttl time.Duration) Option {
	return func(uc *UseCases) {
		uc.tokenTTL = ttl
	}
}

// New builds the usecase layer. The repository must already be wrapped by
// the isolation guard; usecases never see the raw store.
func New(repo interfaces.Repository, registry *model.TenantRegistry, authSecret []byte, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:           repo,
		registry:       registry,
		authSecret:     authSecret,
		composeTimeout: DefaultComposeTimeout,
		tokenTTL:       DefaultTokenTTL,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.extractor == nil {
		uc.extractor = extract.New()
	}

	return uc
}
