package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

// DefaultContextSummaries is the number of recent call summaries included in
// a composed context when the caller does not specify one
const DefaultContextSummaries = 5

// CallContext is the bounded payload handed to a conversational agent at
// call start. It is assembled from at most three storage reads and never
// includes raw conversation history.
type CallContext struct {
	Tenant    types.TenantID
	Subject   types.SubjectID
	Profile   *CallerProfile        // nil when the subject has never called
	Aggregate *PersonalityAggregate // nil when no calls have been analyzed
	Summaries []*CallSummary        // newest first, bounded
	Partial   bool                  // true when a sub-read was degraded
}

// scoreLabel maps a 0-100 score to a five-band label between two poles
func scoreLabel(score float64, low, high string) string {
	switch {
	case score < 35:
		return "very " + low
	case score < 45:
		return low
	case score < 55:
		return "neutral"
	case score < 65:
		return high
	default:
		return "very " + high
	}
}

// Render produces the prompt-ready text form of the context. Sections are
// omitted entirely when their source data is absent.
func (c *CallContext) Render() string {
	var sections []string

	if c.Profile != nil && c.Profile.TotalCalls > 0 {
		lines := []string{"CALLER PROFILE:"}
		if c.Profile.DisplayName != "" {
			lines = append(lines, "Name: "+c.Profile.DisplayName)
		}
		lines = append(lines, fmt.Sprintf("Total calls: %d", c.Profile.TotalCalls))
		if !c.Profile.LastCallAt.IsZero() {
			lines = append(lines, "Last call: "+c.Profile.LastCallAt.Format("2006-01-02"))
		}
		for _, k := range sortedKeys(c.Profile.Preferences) {
			lines = append(lines, fmt.Sprintf("Preference: %s = %s", k, c.Profile.Preferences[k]))
		}
		if c.Profile.Notes != "" {
			lines = append(lines, "Notes: "+c.Profile.Notes)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if c.Aggregate != nil {
		lines := []string{
			"CALLER PERSONALITY PROFILE:",
			"Communication Style: " + scoreLabel(c.Aggregate.AvgFormality, "casual", "formal"),
			"Directness: " + scoreLabel(c.Aggregate.AvgDirectness, "indirect", "direct"),
			"Technical Level: " + scoreLabel(c.Aggregate.AvgTechnicalComfort, "non-technical", "technical"),
			"Detail Preference: " + scoreLabel(c.Aggregate.AvgDetailOrientation, "high-level", "detailed"),
			"Patience: " + scoreLabel(c.Aggregate.AvgPatience, "impatient", "patient"),
			"Recent Satisfaction: " + scoreLabel(c.Aggregate.RecentSatisfaction, "low", "high"),
		}
		if c.Aggregate.SatisfactionTrend.IsValid() {
			lines = append(lines, "Trend: Satisfaction is "+c.Aggregate.SatisfactionTrend.String())
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(c.Summaries) > 0 {
		lines := []string{"RECENT CALLS:"}
		for i, s := range c.Summaries {
			line := fmt.Sprintf("Call %d (%s): %s", i+1, s.OccurredAt.Format("2006-01-02"), s.Summary)
			if len(s.Topics) > 0 {
				line += " [topics: " + strings.Join(s.Topics, ", ") + "]"
			}
			if s.ResolutionStatus != "" && s.ResolutionStatus != types.ResolutionUnknown {
				line += " (" + s.ResolutionStatus.String() + ")"
			}
			lines = append(lines, line)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(sections) == 0 {
		return "No previous call history found."
	}
	return strings.Join(sections, "\n\n")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
