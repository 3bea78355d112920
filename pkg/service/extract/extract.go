// Package extract turns a call transcript into structured records: a short
// summary, topic tags, sentiment and resolution classification, and a
// personality score set. The primary path uses an LLM session with a JSON
// response schema; a deterministic rule-based path fills in whenever the
// LLM is unavailable, times out, or returns unusable fields. Extract never
// returns an error: the result is always schema-conformant.
package extract

import (
	"context"
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
	"github.com/voiceops-lab/mnemosyne/pkg/utils/logging"
)

// DefaultTimeout bounds the LLM call. The transcript is already complete,
// so a slow extraction only delays post-call bookkeeping.
const DefaultTimeout = 8 * time.Second

// Result is the full outcome of one extraction
type Result struct {
	Summary          string
	Topics           []string
	Variables        map[string]string
	Sentiment        types.Sentiment
	ResolutionStatus types.ResolutionStatus
	Scores           model.ScoreSet
	Provenance       types.Provenance
}

// Service runs transcript extraction
type Service struct {
	llmClient gollem.LLMClient
	timeout   time.Duration
}

type Option func(*Service)

// WithLLMClient sets the primary extraction backend. Without one, every
// extraction uses the rule-based path.
func WithLLMClient(client gollem.LLMClient) Option {
	return func(s *Service) {
		s.llmClient = client
	}
}

// WithTimeout overrides the LLM call timeout
func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.timeout = timeout
	}
}

func New(opts ...Option) *Service {
	s := &Service{
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract analyzes a transcript. The returned result is always complete and
// valid; Provenance records how much of it came from the LLM.
func (s *Service) Extract(ctx context.Context, transcript model.Transcript) *Result {
	fallback := fallbackResult(transcript)

	if s.llmClient == nil || len(transcript) == 0 {
		return fallback
	}

	primary, err := s.extractWithLLM(ctx, transcript)
	if err != nil {
		logging.From(ctx).Warn("LLM extraction failed, using rule-based result", "error", err)
		return fallback
	}

	return merge(primary, fallback)
}

// llmPayload mirrors the response schema. Pointer fields distinguish a
// missing field from a zero value so each one can be filled independently.
type llmPayload struct {
	Summary          *string           `json:"summary"`
	KeyTopics        []string          `json:"key_topics"`
	KeyVariables     map[string]string `json:"key_variables"`
	Sentiment        *string           `json:"sentiment"`
	ResolutionStatus *string           `json:"resolution_status"`

	Openness          *float64 `json:"openness"`
	Conscientiousness *float64 `json:"conscientiousness"`
	Extraversion      *float64 `json:"extraversion"`
	Agreeableness     *float64 `json:"agreeableness"`
	Neuroticism       *float64 `json:"neuroticism"`
	Formality         *float64 `json:"formality"`
	Directness        *float64 `json:"directness"`
	DetailOrientation *float64 `json:"detail_orientation"`
	Patience          *float64 `json:"patience"`
	TechnicalComfort  *float64 `json:"technical_comfort"`
	FrustrationLevel  *float64 `json:"frustration_level"`
	SatisfactionLevel *float64 `json:"satisfaction_level"`
	UrgencyLevel      *float64 `json:"urgency_level"`
}

func (s *Service) extractWithLLM(ctx context.Context, transcript model.Transcript) (*llmPayload, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	session, err := s.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(responseSchema()),
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return nil, err
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buildUserPrompt(transcript)))
	if err != nil {
		if ctx.Err() != nil {
			return nil, goerr.Wrap(types.ErrDependencyTimeout, "LLM extraction exceeded deadline",
				goerr.V("timeout", s.timeout))
		}
		return nil, err
	}
	if len(resp.Texts) == 0 {
		return nil, errEmptyResponse
	}

	var payload llmPayload
	if err := json.Unmarshal([]byte(resp.Texts[0]), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// merge builds the final result from the LLM payload, substituting the
// rule-based value for any missing or invalid field. Scores are clamped
// here; out-of-contract model output never reaches storage unclamped.
func merge(payload *llmPayload, fallback *Result) *Result {
	result := &Result{Provenance: types.ProvenancePrimary}
	degraded := false

	if payload.Summary != nil && *payload.Summary != "" {
		result.Summary = *payload.Summary
	} else {
		result.Summary = fallback.Summary
		degraded = true
	}

	if payload.KeyTopics != nil {
		result.Topics = payload.KeyTopics
	} else {
		result.Topics = fallback.Topics
		degraded = true
	}

	if payload.KeyVariables != nil {
		result.Variables = payload.KeyVariables
	} else {
		result.Variables = fallback.Variables
		degraded = true
	}

	result.Sentiment = fallback.Sentiment
	if payload.Sentiment != nil {
		if v, err := types.ParseSentiment(*payload.Sentiment); err == nil {
			result.Sentiment = v
		} else {
			degraded = true
		}
	} else {
		degraded = true
	}

	result.ResolutionStatus = fallback.ResolutionStatus
	if payload.ResolutionStatus != nil {
		if v, err := types.ParseResolutionStatus(*payload.ResolutionStatus); err == nil {
			result.ResolutionStatus = v
		} else {
			degraded = true
		}
	} else {
		degraded = true
	}

	result.Scores = mergeScores(payload, fallback.Scores, &degraded).Clamp()

	if degraded {
		result.Provenance = types.ProvenancePartial
	}
	return result
}

func mergeScores(payload *llmPayload, fallback model.ScoreSet, degraded *bool) model.ScoreSet {
	pick := func(v *float64, fb float64) float64 {
		if v == nil {
			*degraded = true
			return fb
		}
		return *v
	}
	return model.ScoreSet{
		Openness:          pick(payload.Openness, fallback.Openness),
		Conscientiousness: pick(payload.Conscientiousness, fallback.Conscientiousness),
		Extraversion:      pick(payload.Extraversion, fallback.Extraversion),
		Agreeableness:     pick(payload.Agreeableness, fallback.Agreeableness),
		Neuroticism:       pick(payload.Neuroticism, fallback.Neuroticism),
		Formality:         pick(payload.Formality, fallback.Formality),
		Directness:        pick(payload.Directness, fallback.Directness),
		DetailOrientation: pick(payload.DetailOrientation, fallback.DetailOrientation),
		Patience:          pick(payload.Patience, fallback.Patience),
		TechnicalComfort:  pick(payload.TechnicalComfort, fallback.TechnicalComfort),
		FrustrationLevel:  pick(payload.FrustrationLevel, fallback.FrustrationLevel),
		SatisfactionLevel: pick(payload.SatisfactionLevel, fallback.SatisfactionLevel),
		UrgencyLevel:      pick(payload.UrgencyLevel, fallback.UrgencyLevel),
	}
}
