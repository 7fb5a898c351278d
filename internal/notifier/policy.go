// Package notifier decides whether a completed analysis needs a human and,
// when it does, builds and delivers the alert mail.
package notifier

import (
	"strings"

	"call-insights-go/internal/types"
)

// Intervention is the escalation level for one analyzed call.
type Intervention string

const (
	InterventionUrgent Intervention = "urgent_email"
	InterventionHigh   Intervention = "high_priority_ticket"
	InterventionNormal Intervention = "normal_ticket"
	InterventionNone   Intervention = "none"
)

func (i Intervention) valid() bool {
	switch i {
	case InterventionUrgent, InterventionHigh, InterventionNormal, InterventionNone:
		return true
	}
	return false
}

// criticalTopics force urgent handling regardless of resolution state.
var criticalTopics = []string{"billing error", "outage", "security", "fraud", "legal"}

// Decide is the deterministic rule-based escalation policy over the summary
// record alone. It exists independently of the model-driven QA decision:
// the model's verdict drives notification in normal operation, and this
// policy covers runs where that verdict is missing or unrecognizable.
// Urgent conditions are checked first, then high, then normal; first match
// wins.
func Decide(summary types.StageResult) Intervention {
	if len(summary) == 0 {
		return InterventionUrgent
	}

	resolved := strings.ToLower(summary.Str("Resolved", ""))
	isResolved := resolved == "yes" || resolved == "true"
	isPartial := resolved == "partial"
	callback := strings.ToLower(summary.Str("Callback", ""))
	needsCallback := callback == "yes" || callback == "true"
	customerSentiment := strings.ToLower(summary.Str("Customer sentiment", ""))
	agentSentiment := strings.ToLower(summary.Str("Agent sentiment", ""))
	politeness := strings.ToLower(summary.Str("Politeness", ""))
	topic := strings.ToLower(summary.Str("Topic", ""))

	criticalTopic := false
	for _, critical := range criticalTopics {
		if strings.Contains(topic, critical) {
			criticalTopic = true
			break
		}
	}

	switch {
	case (!isResolved && customerSentiment == "negative" && needsCallback) ||
		(isPartial && customerSentiment == "negative" && needsCallback) ||
		(politeness == "low" && customerSentiment == "negative") ||
		criticalTopic:
		return InterventionUrgent

	case (!isResolved && customerSentiment == "negative") ||
		(isPartial && customerSentiment == "negative") ||
		(agentSentiment == "negative" && customerSentiment == "negative") ||
		(politeness == "medium" && customerSentiment == "negative") ||
		(needsCallback && customerSentiment != "positive"):
		return InterventionHigh

	case ((!isResolved || isPartial) && customerSentiment != "negative") ||
		(isResolved && needsCallback) ||
		customerSentiment == "neutral":
		return InterventionNormal
	}

	return InterventionNone
}
