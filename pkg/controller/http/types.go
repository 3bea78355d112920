package http

import (
	"time"

	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

type processCallRequest struct {
	Subject    types.SubjectID `json:"subject"`
	CallID     types.CallID    `json:"call_id"`
	Transcript []model.Turn    `json:"transcript"`
}

type processCallResponse struct {
	SummaryID  model.CallSummaryID         `json:"summary_id"`
	SnapshotID model.PersonalitySnapshotID `json:"personality_id"`
	Summary    string                      `json:"summary"`
	Topics     []string                    `json:"topics"`
	Sentiment  types.Sentiment             `json:"sentiment"`
	Provenance types.Provenance            `json:"provenance"`
}

type contextResponse struct {
	Context      string `json:"context"`
	SummaryCount int    `json:"summary_count"`
	Partial      bool   `json:"partial"`
}

type profileResponse struct {
	Subject     types.SubjectID   `json:"subject"`
	DisplayName string            `json:"display_name,omitempty"`
	Preferences map[string]string `json:"preferences,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	FirstCallAt time.Time         `json:"first_call_at"`
	LastCallAt  time.Time         `json:"last_call_at"`
	TotalCalls  int               `json:"total_calls"`
}

func toProfileResponse(p *model.CallerProfile) profileResponse {
	return profileResponse{
		Subject:     p.Subject,
		DisplayName: p.DisplayName,
		Preferences: p.Preferences,
		Notes:       p.Notes,
		FirstCallAt: p.FirstCallAt,
		LastCallAt:  p.LastCallAt,
		TotalCalls:  p.TotalCalls,
	}
}

type personalityResponse struct {
	Subject   types.SubjectID `json:"subject"`
	CallCount int             `json:"call_count"`

	AvgOpenness          float64 `json:"avg_openness"`
	AvgConscientiousness float64 `json:"avg_conscientiousness"`
	AvgExtraversion      float64 `json:"avg_extraversion"`
	AvgAgreeableness     float64 `json:"avg_agreeableness"`
	AvgNeuroticism       float64 `json:"avg_neuroticism"`
	AvgFormality         float64 `json:"avg_formality"`
	AvgDirectness        float64 `json:"avg_directness"`
	AvgDetailOrientation float64 `json:"avg_detail_orientation"`
	AvgPatience          float64 `json:"avg_patience"`
	AvgTechnicalComfort  float64 `json:"avg_technical_comfort"`

	RecentFrustration  float64 `json:"recent_frustration"`
	RecentSatisfaction float64 `json:"recent_satisfaction"`
	RecentUrgency      float64 `json:"recent_urgency"`

	SatisfactionTrend types.Trend `json:"satisfaction_trend"`
	LastUpdated       time.Time   `json:"last_updated"`
}

func toPersonalityResponse(a *model.PersonalityAggregate) personalityResponse {
	return personalityResponse{
		Subject:              a.Subject,
		CallCount:            a.CallCount,
		AvgOpenness:          a.AvgOpenness,
		AvgConscientiousness: a.AvgConscientiousness,
		AvgExtraversion:      a.AvgExtraversion,
		AvgAgreeableness:     a.AvgAgreeableness,
		AvgNeuroticism:       a.AvgNeuroticism,
		AvgFormality:         a.AvgFormality,
		AvgDirectness:        a.AvgDirectness,
		AvgDetailOrientation: a.AvgDetailOrientation,
		AvgPatience:          a.AvgPatience,
		AvgTechnicalComfort:  a.AvgTechnicalComfort,
		RecentFrustration:    a.RecentFrustration,
		RecentSatisfaction:   a.RecentSatisfaction,
		RecentUrgency:        a.RecentUrgency,
		SatisfactionTrend:    a.SatisfactionTrend,
		LastUpdated:          a.LastUpdated,
	}
}

type summaryResponse struct {
	CallID           types.CallID           `json:"call_id"`
	OccurredAt       time.Time              `json:"occurred_at"`
	Summary          string                 `json:"summary"`
	Topics           []string               `json:"topics"`
	Variables        map[string]string      `json:"variables,omitempty"`
	Sentiment        types.Sentiment        `json:"sentiment"`
	ResolutionStatus types.ResolutionStatus `json:"resolution_status"`
	DurationSeconds  int                    `json:"duration_seconds"`
}

func toSummaryResponse(s *model.CallSummary) summaryResponse {
	return summaryResponse{
		CallID:           s.CallID,
		OccurredAt:       s.OccurredAt,
		Summary:          s.Summary,
		Topics:           s.Topics,
		Variables:        s.Variables,
		Sentiment:        s.Sentiment,
		ResolutionStatus: s.ResolutionStatus,
		DurationSeconds:  s.DurationSeconds,
	}
}

type summariesResponse struct {
	Subject   types.SubjectID   `json:"subject"`
	Summaries []summaryResponse `json:"summaries"`
	Total     int               `json:"total"`
}

type putMemoryRequest struct {
	Subject types.SubjectID `json:"subject"`
	Kind    string          `json:"kind"`
	Key     string          `json:"key"`
	Value   map[string]any  `json:"value"`
}

type memoryResponse struct {
	ID        model.MemoryEntryID `json:"id"`
	Subject   types.SubjectID     `json:"subject"`
	Kind      types.MemoryKind    `json:"kind"`
	Key       string              `json:"key"`
	Value     map[string]any      `json:"value,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

func toMemoryResponse(e *model.MemoryEntry) memoryResponse {
	return memoryResponse{
		ID:        e.ID,
		Subject:   e.Subject,
		Kind:      e.Kind,
		Key:       e.Key,
		Value:     e.Value,
		CreatedAt: e.CreatedAt,
	}
}

type memoriesResponse struct {
	Subject  types.SubjectID  `json:"subject"`
	Memories []memoryResponse `json:"memories"`
	Total    int              `json:"total"`
}
