package model

import "strings"

// Speaker labels for transcript turns
const (
	SpeakerUser      = "user"
	SpeakerAssistant = "assistant"
)

// Turn is a single utterance in a call transcript
type Turn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Transcript is the ordered list of turns of one call
type Transcript []Turn

// Render builds a readable transcript with speaker prefixes
func (t Transcript) Render() string {
	lines := make([]string, 0, len(t))
	for _, turn := range t {
		speaker := "Assistant"
		if turn.Speaker == SpeakerUser {
			speaker = "User"
		}
		lines = append(lines, speaker+": "+turn.Text)
	}
	return strings.Join(lines, "\n")
}

// UserText concatenates only the caller's utterances, which carry the signal
// for personality analysis
func (t Transcript) UserText() string {
	var lines []string
	for _, turn := range t {
		if turn.Speaker == SpeakerUser {
			lines = append(lines, turn.Text)
		}
	}
	return strings.Join(lines, "\n")
}

// EstimatedDurationSeconds estimates call length from transcript volume,
// assuming roughly 150 spoken words per minute and 5 characters per word.
func (t Transcript) EstimatedDurationSeconds() int {
	total := 0
	for _, turn := range t {
		total += len(turn.Text)
	}
	words := float64(total) / 5.0
	minutes := words / 150.0
	return int(minutes * 60)
}
