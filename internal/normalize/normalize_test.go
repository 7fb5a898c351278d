package normalize

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestResponse_ValidJSONIdentity(t *testing.T) {
	raw := `{"agent_name": "Sarah M", "category": "billing"}`

	got, err := Response(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Str("agent_name", "") != "Sarah M" {
		t.Errorf("agent_name = %q, want Sarah M", got.Str("agent_name", ""))
	}
	if got.Str("category", "") != "billing" {
		t.Errorf("category = %q, want billing", got.Str("category", ""))
	}
}

func TestResponse_FencedBlock(t *testing.T) {
	raw := "Here is the analysis you asked for:\n```json\n{\"Resolved\": \"Partial\", \"Callback\": \"Yes\"}\n```\nLet me know if you need more."

	got, err := Response(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Str("Resolved", "") != "Partial" {
		t.Errorf("Resolved = %q, want Partial", got.Str("Resolved", ""))
	}
	if got.Str("Callback", "") != "Yes" {
		t.Errorf("Callback = %q, want Yes", got.Str("Callback", ""))
	}
}

func TestResponse_BareFence(t *testing.T) {
	raw := "```\n{\"Topic\": \"outage\"}\n```"

	got, err := Response(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Str("Topic", "") != "outage" {
		t.Errorf("Topic = %q, want outage", got.Str("Topic", ""))
	}
}

func TestResponse_RepairedJSON(t *testing.T) {
	// single quotes and a trailing comma, typical model sloppiness
	raw := `{'intervention_type': 'normal_ticket', 'priority_level': 'Low',}`

	got, err := Response(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Str("intervention_type", "") != "normal_ticket" {
		t.Errorf("intervention_type = %q, want normal_ticket", got.Str("intervention_type", ""))
	}
}

func TestResponse_ObjectBuriedInProse(t *testing.T) {
	raw := `Sure! Based on my analysis {"category": "returns", "agent_name": "Lisa P"} is my conclusion.`

	got, err := Response(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Str("category", "") != "returns" {
		t.Errorf("category = %q, want returns", got.Str("category", ""))
	}
}

func TestResponse_LineScrape(t *testing.T) {
	raw := "agent_name: \"Andrew K\",\ncategory: technical_support"

	got, err := Response(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Str("agent_name", "") != "Andrew K" {
		t.Errorf("agent_name = %q, want Andrew K", got.Str("agent_name", ""))
	}
	if got.Str("category", "") != "technical_support" {
		t.Errorf("category = %q, want technical_support", got.Str("category", ""))
	}
}

func TestResponse_UnparseableProse(t *testing.T) {
	raw := "I am sorry but I cannot help with that request"

	_, err := Response(raw)
	if err == nil {
		t.Fatal("expected error for unparseable prose")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if perr.Snippet != raw {
		t.Errorf("snippet = %q, want full short input", perr.Snippet)
	}
}

func TestResponse_SnippetTruncatedTo100(t *testing.T) {
	raw := strings.Repeat("x", 250)

	_, err := Response(raw)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if len(perr.Snippet) != 100 {
		t.Errorf("snippet length = %d, want 100", len(perr.Snippet))
	}
}

func TestResponse_RecommendedActionsCoercion(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "comma separated clauses",
			raw:  `{"recommended_actions": "Call the customer back, Credit the duplicate charge, Audit the invoice"}`,
			want: []string{"Call the customer back", "Credit the duplicate charge", "Audit the invoice"},
		},
		{
			name: "bracketed json array string",
			raw:  `{"recommended_actions": "[\"Escalate to billing\", \"Send apology email\"]"}`,
			want: []string{"Escalate to billing", "Send apology email"},
		},
		{
			name: "semicolon separated",
			raw:  `{"recommended_actions": "Review the account; Schedule follow-up"}`,
			want: []string{"Review the account", "Schedule follow-up"},
		},
		{
			name: "single clause becomes singleton",
			raw:  `{"recommended_actions": "Close the ticket"}`,
			want: []string{"Close the ticket"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Response(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got.List("recommended_actions"), tt.want) {
				t.Errorf("recommended_actions = %v, want %v", got.List("recommended_actions"), tt.want)
			}
		})
	}
}

func TestResponse_ProperArrayPassesThrough(t *testing.T) {
	raw := `{"recommended_actions": ["a", "b"], "reasoning": "fine"}`

	got, err := Response(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got.List("recommended_actions"), []string{"a", "b"}) {
		t.Errorf("recommended_actions = %v, want [a b]", got.List("recommended_actions"))
	}
}

func TestResponse_Deterministic(t *testing.T) {
	raw := "Topic: billing error\nResolved: No\nrecommended_actions: [\"one\", \"two\"]"

	first, err := Response(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Response(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("normalizer not deterministic: %v vs %v", first, second)
	}
}
