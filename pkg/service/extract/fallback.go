package extract

import (
	"strings"

	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

// fallbackSummaryLimit truncates the transcript-derived summary
const fallbackSummaryLimit = 200

// Keyword lexicons for the rule-based path
var (
	frustratedWords = []string{"frustrated", "angry", "upset", "annoyed", "problem", "issue", "broken"}
	satisfiedWords  = []string{"thank", "great", "perfect", "resolved", "fixed", "appreciate"}

	formalWords = []string{"please", "thank you", "kindly", "appreciate", "sincerely"}
	casualWords = []string{"yeah", "yep", "gonna", "wanna", "hey"}

	frustrationWords = []string{"frustrated", "angry", "upset", "annoyed", "terrible", "awful", "broken"}
	satisfactionWords = []string{"great", "perfect", "excellent", "thank", "appreciate", "wonderful"}
	urgentWords       = []string{"urgent", "asap", "immediately", "now", "quickly", "hurry"}
	technicalWords    = []string{"api", "database", "server", "code", "technical", "system", "configure"}
)

// topicVocabulary maps topic tags to trigger keywords
var topicVocabulary = map[string][]string{
	"billing":           {"bill", "payment", "invoice", "charge", "refund", "subscription"},
	"technical_support": {"error", "broken", "bug", "crash", "not working", "troubleshoot"},
	"account":           {"account", "password", "login", "sign in", "profile"},
	"scheduling":        {"appointment", "schedule", "booking", "reschedule"},
	"cancellation":      {"cancel", "cancellation", "terminate"},
	"shipping":          {"shipping", "delivery", "order", "tracking"},
}

// fallbackResult derives a complete result from the transcript alone
func fallbackResult(transcript model.Transcript) *Result {
	rendered := transcript.Render()
	lower := strings.ToLower(rendered)
	lowerUser := strings.ToLower(transcript.UserText())

	return &Result{
		Summary:          fallbackSummary(rendered),
		Topics:           fallbackTopics(lower),
		Variables:        map[string]string{},
		Sentiment:        fallbackSentiment(lower),
		ResolutionStatus: types.ResolutionUnknown,
		Scores:           fallbackScores(lowerUser),
		Provenance:       types.ProvenanceFallback,
	}
}

func fallbackSummary(rendered string) string {
	summary := rendered
	if len(summary) > fallbackSummaryLimit {
		summary = summary[:fallbackSummaryLimit] + "..."
	}
	return "Conversation summary: " + summary
}

func fallbackTopics(lower string) []string {
	topics := make([]string, 0)
	// Stable order so repeated extraction of the same transcript is identical
	for _, topic := range []string{"billing", "technical_support", "account", "scheduling", "cancellation", "shipping"} {
		for _, keyword := range topicVocabulary[topic] {
			if strings.Contains(lower, keyword) {
				topics = append(topics, topic)
				break
			}
		}
	}
	return topics
}

func fallbackSentiment(lower string) types.Sentiment {
	if containsAny(lower, frustratedWords) {
		return types.SentimentFrustrated
	}
	if containsAny(lower, satisfiedWords) {
		return types.SentimentSatisfied
	}
	return types.SentimentNeutral
}

// fallbackScores starts from the neutral midpoints and nudges the few
// scores that simple keyword evidence supports
func fallbackScores(lowerUser string) model.ScoreSet {
	scores := model.NeutralScores()
	if lowerUser == "" {
		return scores
	}

	if countAny(lowerUser, formalWords) > countAny(lowerUser, casualWords) {
		scores.Formality = 60
	} else {
		scores.Formality = 40
	}

	scores.FrustrationLevel = capScore(float64(countAny(lowerUser, frustrationWords)) * 25)
	scores.SatisfactionLevel = capScore(50 + float64(countAny(lowerUser, satisfactionWords))*15)
	scores.UrgencyLevel = capScore(30 + float64(countAny(lowerUser, urgentWords))*20)
	scores.TechnicalComfort = capScore(40 + float64(countAny(lowerUser, technicalWords))*15)

	if len(lowerUser) > 0 && len(lowerUser) < 200 {
		scores.Directness = 70
	}

	return scores
}

func capScore(v float64) float64 {
	if v > 100 {
		return 100
	}
	return v
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func countAny(s string, words []string) int {
	count := 0
	for _, w := range words {
		if strings.Contains(s, w) {
			count++
		}
	}
	return count
}
