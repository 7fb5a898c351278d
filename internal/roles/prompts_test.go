package roles

import (
	"strings"
	"testing"

	"call-insights-go/internal/types"
)

func TestIdentifyPrompt(t *testing.T) {
	got := IdentifyPrompt("Speaker A: hello", []string{"Andrew K", "Sarah M"}, []string{"billing", "sales"})

	for _, want := range []string{"Andrew K, Sarah M", "billing, sales", "Speaker A: hello", `"agent_name"`, "Unidentified"} {
		if !strings.Contains(got, want) {
			t.Errorf("identify prompt missing %q", want)
		}
	}
}

func TestEvaluatePrompt_CarriesAuthorizationFact(t *testing.T) {
	profile := types.AgentProfile{ID: "AK001", Name: "Andrew K", Department: "technical_support"}
	got := EvaluatePrompt("Andrew K", "billing", false, profile, "transcript body")

	for _, want := range []string{"AGENT: Andrew K", "CATEGORY: billing", "AUTHORIZED: false", "AK001", "standards_met", "Tagged the call properly in the CRM"} {
		if !strings.Contains(got, want) {
			t.Errorf("evaluate prompt missing %q", want)
		}
	}
}

func TestInsightsPrompt_ThreadsSummary(t *testing.T) {
	summary := types.StageResult{"Topic": "router outage", "Resolved": "No"}
	got := InsightsPrompt(summary, "transcript body")

	if !strings.Contains(got, "router outage") {
		t.Error("insights prompt missing summary content")
	}
	if !strings.Contains(got, "underlying_needs") {
		t.Error("insights prompt missing output schema")
	}
}

func TestEscalatePrompt_CombinesStages(t *testing.T) {
	got := EscalatePrompt(
		types.StageResult{"Topic": "outage"},
		types.StageResult{"overall_rating": 4},
		types.StageResult{"follow_up_priority": "High"},
	)

	for _, want := range []string{"outage", "overall_rating", "follow_up_priority", "intervention_type", "urgent_email"} {
		if !strings.Contains(got, want) {
			t.Errorf("escalate prompt missing %q", want)
		}
	}
}

func TestKindString(t *testing.T) {
	want := map[Kind]string{
		KindIdentify:  "identify",
		KindSummarize: "summarize",
		KindEvaluate:  "evaluate",
		KindInsights:  "insights",
		KindEscalate:  "escalate",
	}
	for k, name := range want {
		if k.String() != name {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), name)
		}
	}
}

func TestFor_DistinctBriefs(t *testing.T) {
	if For(KindIdentify).System != For(KindSummarize).System {
		t.Error("identify and summarize share the transcript analyst brief")
	}
	seen := map[string]bool{}
	for _, k := range []Kind{KindSummarize, KindEvaluate, KindInsights, KindEscalate} {
		seen[For(k).System] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 distinct briefs, got %d", len(seen))
	}
}
