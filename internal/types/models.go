package types

import (
	"fmt"
	"strings"
	"time"
)

// Utterance is one speaker turn returned by the transcription provider.
// Sentiment is optional; providers that skip sentiment analysis leave it empty.
type Utterance struct {
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
	Sentiment string `json:"sentiment,omitempty"`
}

// Transcript is the immutable output of transcribing one audio source.
type Transcript struct {
	Source     string      `json:"source"`
	Text       string      `json:"text"`
	Utterances []Utterance `json:"utterances,omitempty"`
}

// FormatText renders the transcript as "Speaker X: ..." lines, falling back
// to the flat text when the provider returned no utterances.
func (t Transcript) FormatText() string {
	if len(t.Utterances) == 0 {
		return t.Text
	}
	lines := make([]string, 0, len(t.Utterances))
	for _, u := range t.Utterances {
		lines = append(lines, fmt.Sprintf("Speaker %s: %s", u.Speaker, u.Text))
	}
	return strings.Join(lines, "\n")
}

// AgentProfile is a static roster record for one customer-service agent.
type AgentProfile struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Categories     []string `json:"categories" yaml:"categories"`
	ExpertiseLevel string   `json:"expertise_level" yaml:"expertise_level"`
	Department     string   `json:"department" yaml:"department"`
}

// CallAnalysis is the composite result of one full pipeline run. On failure
// only Success, Error and Stage are populated; no partial analysis is exposed.
type CallAnalysis struct {
	Success              bool         `json:"success"`
	AgentName            string       `json:"agent_name,omitempty"`
	AgentProfile         AgentProfile `json:"agent_profile,omitzero"`
	Category             string       `json:"category,omitempty"`
	IsAuthorized         bool         `json:"is_authorized"`
	AuthorizationDetails string       `json:"authorization_details,omitempty"`
	CallSummary          StageResult  `json:"call_summary,omitempty"`
	Evaluation           StageResult  `json:"evaluation,omitempty"`
	CustomerInsights     StageResult  `json:"customer_insights,omitempty"`
	QADecision           StageResult  `json:"qa_decision,omitempty"`
	Timestamp            time.Time    `json:"timestamp,omitzero"`
	Error                string       `json:"error,omitempty"`
	Stage                string       `json:"stage,omitempty"`
}
