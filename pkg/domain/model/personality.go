package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

// PersonalitySnapshotID is a UUID-based identifier for PersonalitySnapshot
type PersonalitySnapshotID string

// NewPersonalitySnapshotID generates a new UUID v4 PersonalitySnapshotID
func NewPersonalitySnapshotID() PersonalitySnapshotID {
	return PersonalitySnapshotID(uuid.New().String())
}

// ScoreSet holds the thirteen bounded scores measured for one call: five
// Big-5 trait scores, five communication-style scores, and three transient
// emotional-state scores. All values are on a 0-100 scale.
type ScoreSet struct {
	// Big-5 traits
	Openness          float64
	Conscientiousness float64
	Extraversion      float64
	Agreeableness     float64
	Neuroticism       float64

	// Communication style
	Formality         float64
	Directness        float64
	DetailOrientation float64
	Patience          float64
	TechnicalComfort  float64

	// Emotional state, specific to this call
	FrustrationLevel  float64
	SatisfactionLevel float64
	UrgencyLevel      float64
}

// Neutral state defaults observed when no signal is available
const (
	neutralScore       = 50.0
	neutralFrustration = 0.0
	neutralUrgency     = 30.0
)

// NeutralScores returns the midpoint profile used when analysis yields no
// signal: 50 for all stable traits, 0 frustration, 30 urgency.
func NeutralScores() ScoreSet {
	return ScoreSet{
		Openness:          neutralScore,
		Conscientiousness: neutralScore,
		Extraversion:      neutralScore,
		Agreeableness:     neutralScore,
		Neuroticism:       neutralScore,
		Formality:         neutralScore,
		Directness:        neutralScore,
		DetailOrientation: neutralScore,
		Patience:          neutralScore,
		TechnicalComfort:  neutralScore,
		FrustrationLevel:  neutralFrustration,
		SatisfactionLevel: neutralScore,
		UrgencyLevel:      neutralUrgency,
	}
}

// fields returns named score values for iteration
func (s ScoreSet) fields() map[string]float64 {
	return map[string]float64{
		"openness":           s.Openness,
		"conscientiousness":  s.Conscientiousness,
		"extraversion":       s.Extraversion,
		"agreeableness":      s.Agreeableness,
		"neuroticism":        s.Neuroticism,
		"formality":          s.Formality,
		"directness":         s.Directness,
		"detail_orientation": s.DetailOrientation,
		"patience":           s.Patience,
		"technical_comfort":  s.TechnicalComfort,
		"frustration_level":  s.FrustrationLevel,
		"satisfaction_level": s.SatisfactionLevel,
		"urgency_level":      s.UrgencyLevel,
	}
}

// Validate rejects any score outside [0,100]. Out-of-range scores are a
// validation error at the storage boundary, never silently clamped there.
func (s ScoreSet) Validate() error {
	for name, v := range s.fields() {
		if v < 0 || v > 100 {
			return goerr.Wrap(types.ErrValidation, "score out of range",
				goerr.V("score", name),
				goerr.V("value", v),
			)
		}
	}
	return nil
}

// Clamp bounds every score into [0,100]. Used only at the extraction parse
// boundary, where the external model may return out-of-contract values.
func (s ScoreSet) Clamp() ScoreSet {
	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v > 100 {
			return 100
		}
		return v
	}
	s.Openness = clamp(s.Openness)
	s.Conscientiousness = clamp(s.Conscientiousness)
	s.Extraversion = clamp(s.Extraversion)
	s.Agreeableness = clamp(s.Agreeableness)
	s.Neuroticism = clamp(s.Neuroticism)
	s.Formality = clamp(s.Formality)
	s.Directness = clamp(s.Directness)
	s.DetailOrientation = clamp(s.DetailOrientation)
	s.Patience = clamp(s.Patience)
	s.TechnicalComfort = clamp(s.TechnicalComfort)
	s.FrustrationLevel = clamp(s.FrustrationLevel)
	s.SatisfactionLevel = clamp(s.SatisfactionLevel)
	s.UrgencyLevel = clamp(s.UrgencyLevel)
	return s
}

// PersonalitySnapshot is one immutable per-call measurement record
type PersonalitySnapshot struct {
	ID         PersonalitySnapshotID
	Tenant     types.TenantID
	Subject    types.SubjectID
	CallID     types.CallID
	MeasuredAt time.Time
	Scores     ScoreSet
}

// Validate checks required fields and score ranges
func (p *PersonalitySnapshot) Validate() error {
	if p.Subject == "" {
		return goerr.Wrap(types.ErrValidation, "subject is required")
	}
	if p.CallID == "" {
		return goerr.Wrap(types.ErrValidation, "call_id is required")
	}
	return p.Scores.Validate()
}

// transientWindow is the number of most recent snapshots used for the
// short-window means of the transient emotional-state scores
const transientWindow = 3

// trendBand is the threshold around the long-run mean beyond which the
// satisfaction trend is labeled improving or declining
const trendBand = 5.0

// PersonalityAggregate is the single running-average record per
// (tenant, subject). It is always recomputed from snapshots, never
// incremented, so replay and backfill cannot make it drift.
type PersonalityAggregate struct {
	Tenant    types.TenantID
	Subject   types.SubjectID
	CallCount int

	// Long-run means of the ten stable scores
	AvgOpenness          float64
	AvgConscientiousness float64
	AvgExtraversion      float64
	AvgAgreeableness     float64
	AvgNeuroticism       float64
	AvgFormality         float64
	AvgDirectness        float64
	AvgDetailOrientation float64
	AvgPatience          float64
	AvgTechnicalComfort  float64

	// Short-window means (last 3 snapshots) of the transient scores
	RecentFrustration  float64
	RecentSatisfaction float64
	RecentUrgency      float64

	SatisfactionTrend types.Trend
	LastUpdated       time.Time
}

// ComputeAggregate derives the aggregate for a subject from all of its
// snapshots. Snapshots must be ordered by MeasuredAt descending (newest
// first). Returns nil when no snapshots exist.
func ComputeAggregate(tenant types.TenantID, subject types.SubjectID, snapshots []*PersonalitySnapshot, now time.Time) *PersonalityAggregate {
	if len(snapshots) == 0 {
		return nil
	}

	n := float64(len(snapshots))
	agg := &PersonalityAggregate{
		Tenant:      tenant,
		Subject:     subject,
		CallCount:   len(snapshots),
		LastUpdated: now,
	}

	var allSatisfaction float64
	for _, snap := range snapshots {
		agg.AvgOpenness += snap.Scores.Openness
		agg.AvgConscientiousness += snap.Scores.Conscientiousness
		agg.AvgExtraversion += snap.Scores.Extraversion
		agg.AvgAgreeableness += snap.Scores.Agreeableness
		agg.AvgNeuroticism += snap.Scores.Neuroticism
		agg.AvgFormality += snap.Scores.Formality
		agg.AvgDirectness += snap.Scores.Directness
		agg.AvgDetailOrientation += snap.Scores.DetailOrientation
		agg.AvgPatience += snap.Scores.Patience
		agg.AvgTechnicalComfort += snap.Scores.TechnicalComfort
		allSatisfaction += snap.Scores.SatisfactionLevel
	}
	agg.AvgOpenness /= n
	agg.AvgConscientiousness /= n
	agg.AvgExtraversion /= n
	agg.AvgAgreeableness /= n
	agg.AvgNeuroticism /= n
	agg.AvgFormality /= n
	agg.AvgDirectness /= n
	agg.AvgDetailOrientation /= n
	agg.AvgPatience /= n
	agg.AvgTechnicalComfort /= n
	allTimeSatisfaction := allSatisfaction / n

	window := snapshots
	if len(window) > transientWindow {
		window = window[:transientWindow]
	}
	w := float64(len(window))
	for _, snap := range window {
		agg.RecentFrustration += snap.Scores.FrustrationLevel
		agg.RecentSatisfaction += snap.Scores.SatisfactionLevel
		agg.RecentUrgency += snap.Scores.UrgencyLevel
	}
	agg.RecentFrustration /= w
	agg.RecentSatisfaction /= w
	agg.RecentUrgency /= w

	switch {
	case agg.RecentSatisfaction > allTimeSatisfaction+trendBand:
		agg.SatisfactionTrend = types.TrendImproving
	case agg.RecentSatisfaction < allTimeSatisfaction-trendBand:
		agg.SatisfactionTrend = types.TrendDeclining
	default:
		agg.SatisfactionTrend = types.TrendStable
	}

	return agg
}
