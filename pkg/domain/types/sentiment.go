package types

import "fmt"

// Sentiment represents the overall caller sentiment classified for a call
type Sentiment string

const (
	SentimentPositive   Sentiment = "positive"
	SentimentNeutral    Sentiment = "neutral"
	SentimentNegative   Sentiment = "negative"
	SentimentFrustrated Sentiment = "frustrated"
	SentimentSatisfied  Sentiment = "satisfied"
)

// AllSentiments returns all valid sentiments
func AllSentiments() []Sentiment {
	return []Sentiment{
		SentimentPositive,
		SentimentNeutral,
		SentimentNegative,
		SentimentFrustrated,
		SentimentSatisfied,
	}
}

// IsValid checks if the sentiment is valid
func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentPositive,
		SentimentNeutral,
		SentimentNegative,
		SentimentFrustrated,
		SentimentSatisfied:
		return true
	default:
		return false
	}
}

// Normalize returns the sentiment, treating empty or unknown values as neutral
func (s Sentiment) Normalize() Sentiment {
	if !s.IsValid() {
		return SentimentNeutral
	}
	return s
}

// String returns the string representation of the sentiment
func (s Sentiment) String() string {
	return string(s)
}

// ParseSentiment parses a string into a Sentiment
func ParseSentiment(s string) (Sentiment, error) {
	v := Sentiment(s)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid sentiment: %s", s)
	}
	return v, nil
}
