package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

func snapshotWithSatisfaction(callID string, measuredAt time.Time, satisfaction float64) *model.PersonalitySnapshot {
	scores := model.NeutralScores()
	scores.SatisfactionLevel = satisfaction
	return &model.PersonalitySnapshot{
		ID:         model.NewPersonalitySnapshotID(),
		Tenant:     "acme",
		Subject:    "+15551234567",
		CallID:     types.CallID(callID),
		MeasuredAt: measuredAt,
		Scores:     scores,
	}
}

func TestNeutralScores(t *testing.T) {
	scores := model.NeutralScores()

	gt.Number(t, scores.Openness).Equal(50)
	gt.Number(t, scores.Formality).Equal(50)
	gt.Number(t, scores.FrustrationLevel).Equal(0)
	gt.Number(t, scores.SatisfactionLevel).Equal(50)
	gt.Number(t, scores.UrgencyLevel).Equal(30)

	gt.NoError(t, scores.Validate())
}

func TestScoreSetValidate(t *testing.T) {
	t.Run("rejects score above 100", func(t *testing.T) {
		scores := model.NeutralScores()
		scores.Patience = 120

		err := scores.Validate()
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, types.ErrValidation)).True()
	})

	t.Run("rejects negative score", func(t *testing.T) {
		scores := model.NeutralScores()
		scores.FrustrationLevel = -1

		gt.Error(t, scores.Validate())
	})

	t.Run("accepts boundary values", func(t *testing.T) {
		scores := model.NeutralScores()
		scores.FrustrationLevel = 0
		scores.SatisfactionLevel = 100

		gt.NoError(t, scores.Validate())
	})
}

func TestScoreSetClamp(t *testing.T) {
	scores := model.NeutralScores()
	scores.Openness = 150
	scores.Neuroticism = -20

	clamped := scores.Clamp()
	gt.Number(t, clamped.Openness).Equal(100)
	gt.Number(t, clamped.Neuroticism).Equal(0)
	gt.Number(t, clamped.Formality).Equal(50)
	gt.NoError(t, clamped.Validate())
}

func TestPersonalitySnapshotValidate(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid snapshot", func(t *testing.T) {
		snap := snapshotWithSatisfaction("call-1", now, 60)
		gt.NoError(t, snap.Validate())
	})

	t.Run("missing subject", func(t *testing.T) {
		snap := snapshotWithSatisfaction("call-1", now, 60)
		snap.Subject = ""
		gt.Error(t, snap.Validate())
	})

	t.Run("missing call_id", func(t *testing.T) {
		snap := snapshotWithSatisfaction("", now, 60)
		gt.Error(t, snap.Validate())
	})
}

func TestComputeAggregate(t *testing.T) {
	now := time.Now().UTC()

	t.Run("no snapshots yields nil", func(t *testing.T) {
		agg := model.ComputeAggregate("acme", "+15551234567", nil, now)
		gt.Value(t, agg).Nil()
	})

	t.Run("single snapshot", func(t *testing.T) {
		snaps := []*model.PersonalitySnapshot{
			snapshotWithSatisfaction("call-1", now, 70),
		}

		agg := model.ComputeAggregate("acme", "+15551234567", snaps, now)
		gt.Value(t, agg).NotNil()
		gt.Number(t, agg.CallCount).Equal(1)
		gt.Number(t, agg.AvgOpenness).Equal(50)
		gt.Number(t, agg.RecentSatisfaction).Equal(70)
		gt.Number(t, agg.RecentUrgency).Equal(30)
		gt.Value(t, agg.SatisfactionTrend).Equal(types.TrendStable)
		gt.Bool(t, agg.LastUpdated.Equal(now)).True()
	})

	t.Run("long-run means cover all snapshots", func(t *testing.T) {
		snaps := []*model.PersonalitySnapshot{
			snapshotWithSatisfaction("call-4", now, 50),
			snapshotWithSatisfaction("call-3", now.Add(-time.Hour), 50),
			snapshotWithSatisfaction("call-2", now.Add(-2*time.Hour), 50),
			snapshotWithSatisfaction("call-1", now.Add(-3*time.Hour), 50),
		}
		snaps[0].Scores.Formality = 90
		snaps[1].Scores.Formality = 70
		snaps[2].Scores.Formality = 50
		snaps[3].Scores.Formality = 30

		agg := model.ComputeAggregate("acme", "+15551234567", snaps, now)
		gt.Number(t, agg.CallCount).Equal(4)
		gt.Number(t, agg.AvgFormality).Equal(60)
	})

	t.Run("transient means use only last three snapshots", func(t *testing.T) {
		snaps := []*model.PersonalitySnapshot{
			snapshotWithSatisfaction("call-5", now, 90),
			snapshotWithSatisfaction("call-4", now.Add(-time.Hour), 90),
			snapshotWithSatisfaction("call-3", now.Add(-2*time.Hour), 90),
			snapshotWithSatisfaction("call-2", now.Add(-3*time.Hour), 10),
			snapshotWithSatisfaction("call-1", now.Add(-4*time.Hour), 10),
		}

		agg := model.ComputeAggregate("acme", "+15551234567", snaps, now)
		gt.Number(t, agg.RecentSatisfaction).Equal(90)
		// all-time mean is 58; 90 > 58+5 so trend improves
		gt.Value(t, agg.SatisfactionTrend).Equal(types.TrendImproving)
	})

	t.Run("declining satisfaction trend", func(t *testing.T) {
		snaps := []*model.PersonalitySnapshot{
			snapshotWithSatisfaction("call-5", now, 20),
			snapshotWithSatisfaction("call-4", now.Add(-time.Hour), 20),
			snapshotWithSatisfaction("call-3", now.Add(-2*time.Hour), 20),
			snapshotWithSatisfaction("call-2", now.Add(-3*time.Hour), 90),
			snapshotWithSatisfaction("call-1", now.Add(-4*time.Hour), 90),
		}

		agg := model.ComputeAggregate("acme", "+15551234567", snaps, now)
		gt.Value(t, agg.SatisfactionTrend).Equal(types.TrendDeclining)
	})

	t.Run("trend stays stable inside the band", func(t *testing.T) {
		snaps := []*model.PersonalitySnapshot{
			snapshotWithSatisfaction("call-2", now, 54),
			snapshotWithSatisfaction("call-1", now.Add(-time.Hour), 50),
		}

		agg := model.ComputeAggregate("acme", "+15551234567", snaps, now)
		gt.Value(t, agg.SatisfactionTrend).Equal(types.TrendStable)
	})

	t.Run("recompute from the same snapshots is identical", func(t *testing.T) {
		snaps := []*model.PersonalitySnapshot{
			snapshotWithSatisfaction("call-2", now, 80),
			snapshotWithSatisfaction("call-1", now.Add(-time.Hour), 40),
		}

		first := model.ComputeAggregate("acme", "+15551234567", snaps, now)
		second := model.ComputeAggregate("acme", "+15551234567", snaps, now)
		gt.Value(t, first).Equal(second)
	})
}
