package roles

import (
	"encoding/json"
	"fmt"
	"strings"

	"call-insights-go/internal/types"
)

// IdentifyPrompt asks for the agent name and conversation category.
func IdentifyPrompt(transcript string, agentNames, categories []string) string {
	return fmt.Sprintf(`Analyze this customer service call transcript and identify:
1. The agent's name (from: %s)
2. The conversation category (from: %s)

TRANSCRIPT:
%s

Return ONLY a JSON object with:
{
    "agent_name": "agent name or 'Unidentified'",
    "category": "conversation category"
}`, strings.Join(agentNames, ", "), strings.Join(categories, ", "), transcript)
}

// SummarizePrompt asks for the fixed-shape call summary record.
func SummarizePrompt(transcript string) string {
	return fmt.Sprintf(`Generate a comprehensive call summary for this transcript:

TRANSCRIPT:
%s

Return a JSON object with:
{
    "Summary": "brief 1-2 sentence overview",
    "Topic": "main subject",
    "Product": "product/service discussed",
    "Resolved": "Yes/No/Partial",
    "Callback": "Yes/No",
    "Politeness": "Low/Medium/High",
    "Customer sentiment": "Negative/Neutral/Positive",
    "Agent sentiment": "Negative/Neutral/Positive",
    "Action": "actions taken by agent"
}`, transcript)
}

// EvaluatePrompt asks for the standards-checklist evaluation. The
// authorization fact is computed by the roster resolver, never by the model.
func EvaluatePrompt(agentName, category string, authorized bool, profile types.AgentProfile, transcript string) string {
	profileJSON, _ := json.MarshalIndent(profile, "", "  ")
	return fmt.Sprintf(`Evaluate agent performance for this call:

AGENT: %s
CATEGORY: %s
AUTHORIZED: %t
AGENT PROFILE: %s

TRANSCRIPT:
%s

Evaluate against company standards and return JSON:
{
    "standards_met": {
        "Used the customer's name minimum once on the call": "Yes/No/N/A",
        "Does Active Listening (remembers info)": "Yes/No/N/A",
        "Does not interrupt": "Yes/No/N/A",
        "Used apology & empathy wherever required": "Yes/No/N/A",
        "Used Please / Thank you wherever appropriate": "Yes/No/N/A",
        "Transferred to correct department": "Yes/No/N/A",
        "Did the CSA provide alternatives": "Yes/No/N/A",
        "Did the CSA maintain proper tone throughout the call": "Yes/No/N/A",
        "Verified the customer appropriately as per the nature of the call": "Yes/No/N/A",
        "Provided correct information": "Yes/No/N/A",
        "Tagged the call properly in the CRM": "Yes/No/N/A"
    },
    "strengths": ["strength 1", "strength 2", "strength 3"],
    "areas_for_improvement": ["improvement 1", "improvement 2", "improvement 3"],
    "overall_rating": 8,
    "category_expertise": "High/Medium/Low",
    "customer_pain_points": ["pain point 1", "pain point 2"],
    "resolution_quality": "Yes/No/Partial - satisfaction rating 1-10",
    "agent_empathy": 8,
    "would_recommend": "Yes/No/Maybe",
    "next_best_actions": ["action 1", "action 2"]
}`, agentName, category, authorized, profileJSON, transcript)
}

// InsightsPrompt asks for underlying needs and follow-up predictions,
// threading the summary stage's output forward.
func InsightsPrompt(summary types.StageResult, transcript string) string {
	summaryJSON, _ := json.MarshalIndent(summary, "", "  ")
	return fmt.Sprintf(`Analyze customer needs and predict next actions:

CALL SUMMARY: %s

TRANSCRIPT:
%s

Return JSON with:
{
    "underlying_needs": ["need 1", "need 2", "need 3"],
    "next_best_actions": ["action 1", "action 2", "action 3"],
    "customer_satisfaction_prediction": "High/Medium/Low",
    "follow_up_priority": "High/Medium/Low"
}`, summaryJSON, transcript)
}

// EscalatePrompt asks for the intervention decision over the combined
// outputs of the summary, evaluation and insights stages.
func EscalatePrompt(summary, evaluation, insights types.StageResult) string {
	summaryJSON, _ := json.MarshalIndent(summary, "", "  ")
	evalJSON, _ := json.MarshalIndent(evaluation, "", "  ")
	insightsJSON, _ := json.MarshalIndent(insights, "", "  ")
	return fmt.Sprintf(`As a Quality Assurance Manager, determine intervention level and provide specific actionable recommendations based on this comprehensive analysis:

CALL SUMMARY: %s
AGENT EVALUATION: %s
CUSTOMER INSIGHTS: %s

Based on the analysis above, provide detailed recommendations and intervention decision.

INTERVENTION CRITERIA:
- urgent_email: Critical issues, unresolved + negative sentiment + callback needed, or safety/security concerns
- high_priority_ticket: Unresolved + negative sentiment, poor agent performance, authorization mismatches
- normal_ticket: Standard follow-up needed, partially resolved issues, neutral sentiment
- none: Fully resolved, positive outcome, no further action needed

Return ONLY a valid JSON object with this exact structure:
{
    "intervention_type": "urgent_email or high_priority_ticket or normal_ticket or none",
    "reasoning": "Clear explanation for the intervention decision based on specific findings",
    "priority_level": "High or Medium or Low",
    "recommended_actions": [
        "Specific actionable recommendation 1 (10-15 words)",
        "Specific actionable recommendation 2 (10-15 words)",
        "Specific actionable recommendation 3 (10-15 words)"
    ]
}

Ensure recommended_actions are specific, actionable steps that address the identified issues.`, summaryJSON, evalJSON, insightsJSON)
}
