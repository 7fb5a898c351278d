package notifier

import (
	"fmt"
	"strings"
	"testing"

	"call-insights-go/internal/types"
)

type fakeMailer struct {
	sent    []string // subjects
	bodies  []string
	sendErr error
}

func (f *fakeMailer) Send(to, subject, htmlBody string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, subject)
	f.bodies = append(f.bodies, htmlBody)
	return nil
}

func successAnalysis(intervention string) types.CallAnalysis {
	return types.CallAnalysis{
		Success:      true,
		AgentName:    "Sarah M",
		AgentProfile: types.AgentProfile{ID: "SM002", Name: "Sarah M", Department: "customer_service", ExpertiseLevel: "mid"},
		Category:     "billing",
		IsAuthorized: true,
		CallSummary: types.StageResult{
			"Topic":              "duplicate charge",
			"Product":            "subscription",
			"Resolved":           "Partial",
			"Callback":           "Yes",
			"Customer sentiment": "Negative",
			"Agent sentiment":    "Neutral",
		},
		Evaluation:       types.StageResult{"overall_rating": float64(7)},
		CustomerInsights: types.StageResult{"customer_satisfaction_prediction": "Medium"},
		QADecision: types.StageResult{
			"intervention_type": intervention,
			"reasoning":         "Charge dispute outstanding",
		},
	}
}

func TestNotifyIfNeeded_ModelDecisionWins(t *testing.T) {
	mailer := &fakeMailer{}
	n := New(mailer, "qa@example.com")

	if !n.NotifyIfNeeded(successAnalysis("high_priority_ticket")) {
		t.Fatal("expected notification to be sent")
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(mailer.sent))
	}
	if !strings.HasPrefix(mailer.sent[0], "HIGH PRIORITY:") {
		t.Errorf("subject = %q, want HIGH PRIORITY prefix", mailer.sent[0])
	}
	body := mailer.bodies[0]
	for _, want := range []string{"Sarah M", "customer_service", "duplicate charge", "color:green"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestNotifyIfNeeded_NoneSendsNothing(t *testing.T) {
	mailer := &fakeMailer{}
	n := New(mailer, "qa@example.com")

	if n.NotifyIfNeeded(successAnalysis("none")) {
		t.Error("expected no notification for none")
	}
	if len(mailer.sent) != 0 {
		t.Errorf("sent %d mails, want 0", len(mailer.sent))
	}
}

func TestNotifyIfNeeded_FallbackWhenDecisionUnrecognized(t *testing.T) {
	mailer := &fakeMailer{}
	n := New(mailer, "qa@example.com")

	a := successAnalysis("definitely maybe")
	// summary is unresolved + negative + callback, so the fallback rules say urgent
	a.CallSummary["Resolved"] = "No"

	if !n.NotifyIfNeeded(a) {
		t.Fatal("expected fallback notification")
	}
	if !strings.HasPrefix(mailer.sent[0], "URGENT:") {
		t.Errorf("subject = %q, want URGENT prefix", mailer.sent[0])
	}
}

func TestNotifyIfNeeded_FallbackWhenDecisionMissing(t *testing.T) {
	mailer := &fakeMailer{}
	n := New(mailer, "qa@example.com")

	a := successAnalysis("")
	a.QADecision = nil

	if !n.NotifyIfNeeded(a) {
		t.Fatal("expected fallback notification")
	}
}

func TestNotifyIfNeeded_DeliveryFailureIsNonFatal(t *testing.T) {
	mailer := &fakeMailer{sendErr: fmt.Errorf("relay refused connection")}
	n := New(mailer, "qa@example.com")

	if n.NotifyIfNeeded(successAnalysis("urgent_email")) {
		t.Error("expected false on delivery failure")
	}
}

func TestNotifyIfNeeded_FailedCompositeOmitsAgentBlock(t *testing.T) {
	mailer := &fakeMailer{}
	n := New(mailer, "qa@example.com")

	failed := types.CallAnalysis{Success: false, Error: "identify: boom", Stage: "identify"}
	if !n.NotifyIfNeeded(failed) {
		t.Fatal("failed composite with empty summary should escalate urgently")
	}
	if strings.Contains(mailer.bodies[0], "Agent Information") {
		t.Error("failed composite should not include agent block")
	}
}
