package extract

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
)

var errEmptyResponse = goerr.New("LLM returned empty response")

const systemPrompt = "You are a conversation analysis expert. Extract structured information and objective personality ratings from call transcripts based on observable communication patterns."

func buildUserPrompt(transcript model.Transcript) string {
	return fmt.Sprintf(`Analyze this conversation and extract structured information.

CONVERSATION:
%s

Extract the following:
1. summary: A brief 2-3 sentence summary of what was discussed
2. key_topics: List of main topics discussed (e.g., ["billing", "technical_support"])
3. key_variables: Important details mentioned (e.g., {"account_id": "12345", "issue_type": "billing error"})
4. sentiment: Overall caller sentiment (positive, neutral, negative, frustrated, satisfied)
5. resolution_status: Was the issue resolved? (resolved, pending, escalated, unknown)

Then rate the caller's traits on a scale of 0-100, judging only from the caller's own messages:

BIG 5 PERSONALITY:
- openness: How curious, creative, open to new experiences (0=traditional, 100=very open)
- conscientiousness: How organized, dependable, disciplined (0=spontaneous, 100=very organized)
- extraversion: How sociable, assertive, energetic (0=introverted, 100=extraverted)
- agreeableness: How cooperative, empathetic, trusting (0=competitive, 100=very agreeable)
- neuroticism: Emotional reactivity (0=very stable, 100=highly reactive)

COMMUNICATION STYLE:
- formality: Communication formality (0=very casual, 100=very formal)
- directness: How direct they communicate (0=very indirect, 100=very direct)
- detail_orientation: Level of detail (0=high-level only, 100=very detailed)
- patience: Patience level (0=very impatient, 100=very patient)
- technical_comfort: Comfort with technical topics (0=non-technical, 100=very technical)

EMOTIONAL STATE (THIS CALL):
- frustration_level: Current frustration (0=none, 100=extremely frustrated)
- satisfaction_level: Current satisfaction (0=very unsatisfied, 100=very satisfied)
- urgency_level: Urgency/time pressure (0=no rush, 100=extremely urgent)`, transcript.Render())
}

func scoreParameter(description string) *gollem.Parameter {
	return &gollem.Parameter{
		Type:        gollem.TypeNumber,
		Description: description,
		Required:    true,
	}
}

func responseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Type: gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"summary": {
				Type:        gollem.TypeString,
				Description: "Brief 2-3 sentence summary of the conversation",
				Required:    true,
			},
			"key_topics": {
				Type:        gollem.TypeArray,
				Description: "Main topics discussed",
				Items:       &gollem.Parameter{Type: gollem.TypeString},
				Required:    true,
			},
			"key_variables": {
				Type:        gollem.TypeObject,
				Description: "Important details mentioned, as string key-value pairs",
			},
			"sentiment": {
				Type:        gollem.TypeString,
				Description: "Overall caller sentiment: positive, neutral, negative, frustrated, or satisfied",
				Required:    true,
			},
			"resolution_status": {
				Type:        gollem.TypeString,
				Description: "Resolution status: resolved, pending, escalated, or unknown",
				Required:    true,
			},

			"openness":           scoreParameter("Openness to new experiences, 0-100"),
			"conscientiousness":  scoreParameter("Organization and dependability, 0-100"),
			"extraversion":       scoreParameter("Sociability and assertiveness, 0-100"),
			"agreeableness":      scoreParameter("Cooperation and empathy, 0-100"),
			"neuroticism":        scoreParameter("Emotional reactivity, 0-100"),
			"formality":          scoreParameter("Communication formality, 0-100"),
			"directness":         scoreParameter("Directness of communication, 0-100"),
			"detail_orientation": scoreParameter("Preference for detail, 0-100"),
			"patience":           scoreParameter("Patience level, 0-100"),
			"technical_comfort":  scoreParameter("Comfort with technical topics, 0-100"),
			"frustration_level":  scoreParameter("Frustration in this call, 0-100"),
			"satisfaction_level": scoreParameter("Satisfaction in this call, 0-100"),
			"urgency_level":      scoreParameter("Urgency in this call, 0-100"),
		},
	}
}
