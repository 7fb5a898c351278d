package notifier

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"call-insights-go/internal/logger"
	"call-insights-go/internal/types"
)

// Mailer delivers one HTML message. Delivery failure is reported, never
// propagated as a pipeline failure.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer sends through a STARTTLS SMTP relay.
type SMTPMailer struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	auth := smtp.PlainAuth("", m.User, m.Password, m.Host)

	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	return smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg))
}

type Notifier struct {
	mailer    Mailer
	recipient string
	log       *logrus.Entry
}

func New(mailer Mailer, recipient string) *Notifier {
	return &Notifier{
		mailer:    mailer,
		recipient: recipient,
		log:       logger.Component("notifier"),
	}
}

// NotifyIfNeeded sends an alert when the analysis calls for intervention.
// The model-driven QA decision is authoritative; the rule-based fallback
// applies only when that decision is absent or carries an unrecognized type.
// Returns whether an alert was delivered.
func (n *Notifier) NotifyIfNeeded(a types.CallAnalysis) bool {
	intervention := Intervention(a.QADecision.Str("intervention_type", ""))
	if !intervention.valid() {
		intervention = Decide(a.CallSummary)
	}
	if intervention == InterventionNone {
		return false
	}

	ticket := uuid.New().String()[:8]
	subject, body := buildAlert(intervention, ticket, a)

	log := n.log.WithFields(logrus.Fields{
		"intervention": string(intervention),
		"ticket":       ticket,
		"recipient":    n.recipient,
	})
	if err := n.mailer.Send(n.recipient, subject, body); err != nil {
		log.WithError(err).Warn("alert delivery failed")
		return false
	}
	log.Info("alert delivered")
	return true
}

func buildAlert(intervention Intervention, ticket string, a types.CallAnalysis) (subject, body string) {
	var priority, heading, closing string
	switch intervention {
	case InterventionUrgent:
		priority = "URGENT"
		heading = "URGENT INTERVENTION TICKET"
		closing = "review immediately and take action"
		subject = fmt.Sprintf("URGENT: Human Intervention Needed - Ticket #%s", ticket)
	case InterventionHigh:
		priority = "HIGH"
		heading = "HIGH PRIORITY TICKET"
		closing = "address as high priority"
		subject = fmt.Sprintf("HIGH PRIORITY: Ticket #%s", ticket)
	default:
		priority = "NORMAL"
		heading = "NORMAL TICKET"
		closing = "address at normal priority"
		subject = fmt.Sprintf("NORMAL: Ticket #%s", ticket)
	}

	summary := a.CallSummary

	var agentInfo string
	if a.Success {
		authorized := "No"
		authColor := "red"
		if a.IsAuthorized {
			authorized = "Yes"
			authColor = "green"
		}
		agentInfo = fmt.Sprintf(`
    <h3>Agent Information:</h3>
    <ul>
      <li><strong>Agent Name:</strong> %s</li>
      <li><strong>Department:</strong> %s</li>
      <li><strong>Expertise Level:</strong> %s</li>
      <li><strong>Call Category:</strong> %s</li>
      <li><strong>Agent is Authorized:</strong> <span style="color:%s">%s</span></li>
      <li><strong>Overall Rating:</strong> %s/10</li>
    </ul>

    <h4>Analysis Results:</h4>
    <ul>
      <li><strong>QA Decision:</strong> %s</li>
      <li><strong>Customer Satisfaction:</strong> %s</li>
    </ul>`,
			orUnknown(a.AgentName),
			orUnknown(a.AgentProfile.Department),
			orUnknown(a.AgentProfile.ExpertiseLevel),
			orUnknown(a.Category),
			authColor, authorized,
			a.Evaluation.Str("overall_rating", ratingFallback(a.Evaluation)),
			a.QADecision.Str("reasoning", "N/A"),
			a.CustomerInsights.Str("customer_satisfaction_prediction", "N/A"),
		)
	}

	body = fmt.Sprintf(`<html>
  <body>
    <h2>%s</h2>
    <p>A customer service call has been analyzed by the call analysis pipeline.</p>

    <h3>Ticket Information:</h3>
    <ul>
      <li><strong>Ticket #:</strong> %s</li>
      <li><strong>Priority:</strong> <strong>%s</strong></li>
      <li><strong>Topic:</strong> %s</li>
      <li><strong>Product:</strong> %s</li>
      <li><strong>Resolved:</strong> %s</li>
      <li><strong>Callback:</strong> %s</li>
      <li><strong>Customer sentiment:</strong> %s</li>
      <li><strong>Agent sentiment:</strong> %s</li>
    </ul>
    %s
    <p>Please %s.</p>
  </body>
</html>`,
		heading,
		ticket,
		priority,
		summary.Str("Topic", "Unknown"),
		summary.Str("Product", "Unknown"),
		summary.Str("Resolved", "No"),
		summary.Str("Callback", "Unknown"),
		summary.Str("Customer sentiment", "Unknown"),
		summary.Str("Agent sentiment", "Unknown"),
		agentInfo,
		closing,
	)
	return subject, body
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// ratingFallback stringifies a numeric overall_rating; models return either.
func ratingFallback(evaluation types.StageResult) string {
	if v, ok := evaluation["overall_rating"].(float64); ok {
		return fmt.Sprintf("%.0f", v)
	}
	return "N/A"
}
