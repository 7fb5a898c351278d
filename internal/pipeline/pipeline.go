// Package pipeline runs the five-stage call analysis workflow: identify the
// agent, summarize the call, evaluate performance, extract customer insights,
// then decide escalation. Stages run in fixed order, each threading earlier
// outputs forward, and any stage failure terminates the run with a failed
// composite instead of a partial result.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"call-insights-go/internal/llm"
	"call-insights-go/internal/logger"
	"call-insights-go/internal/normalize"
	"call-insights-go/internal/roles"
	"call-insights-go/internal/roster"
	"call-insights-go/internal/types"
)

// State tracks where a run is in the stage sequence.
type State string

const (
	StatePending     State = "pending"
	StateIdentifying State = "identifying"
	StateSummarizing State = "summarizing"
	StateEvaluating  State = "evaluating"
	StateInsights    State = "insights"
	StateEscalating  State = "escalating"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

var stateForKind = map[roles.Kind]State{
	roles.KindIdentify:  StateIdentifying,
	roles.KindSummarize: StateSummarizing,
	roles.KindEvaluate:  StateEvaluating,
	roles.KindInsights:  StateInsights,
	roles.KindEscalate:  StateEscalating,
}

type Runner struct {
	llm    llm.Completer
	roster *roster.Roster
	log    *logrus.Entry
	now    func() time.Time
}

func New(completer llm.Completer, r *roster.Roster) *Runner {
	return &Runner{
		llm:    completer,
		roster: r,
		log:    logger.Component("pipeline"),
		now:    time.Now,
	}
}

// SetClock fixes the timestamp source, for deterministic tests.
func (r *Runner) SetClock(now func() time.Time) {
	r.now = now
}

// Run analyzes one transcript through all five stages and returns the
// composite. It never returns an error: failures become a CallAnalysis with
// Success=false, Error text and the name of the failed stage, so a batch
// caller can keep going.
func (r *Runner) Run(ctx context.Context, t types.Transcript) types.CallAnalysis {
	text := t.FormatText()
	state := StatePending
	log := r.log.WithField("source", t.Source)

	advance := func(k roles.Kind) {
		state = stateForKind[k]
		log.WithField("state", string(state)).Info("stage starting")
	}

	advance(roles.KindIdentify)
	identification, err := r.invoke(ctx, roles.KindIdentify,
		roles.IdentifyPrompt(text, r.roster.Names(), roster.Categories))
	if err != nil {
		return r.failed(log, roles.KindIdentify, err)
	}
	agentName := identification.Str("agent_name", "Unidentified")
	category := identification.Str("category", "unknown")
	log.WithFields(logrus.Fields{"agent": agentName, "category": category}).Info("agent identified")

	advance(roles.KindSummarize)
	summary, err := r.invoke(ctx, roles.KindSummarize, roles.SummarizePrompt(text))
	if err != nil {
		return r.failed(log, roles.KindSummarize, err)
	}

	// Authorization is resolved here, never by the model.
	authorized, profile := r.roster.Resolve(agentName, category)

	advance(roles.KindEvaluate)
	evaluation, err := r.invoke(ctx, roles.KindEvaluate,
		roles.EvaluatePrompt(agentName, category, authorized, profile, text))
	if err != nil {
		return r.failed(log, roles.KindEvaluate, err)
	}

	advance(roles.KindInsights)
	insights, err := r.invoke(ctx, roles.KindInsights, roles.InsightsPrompt(summary, text))
	if err != nil {
		return r.failed(log, roles.KindInsights, err)
	}

	advance(roles.KindEscalate)
	qaDecision, err := r.invoke(ctx, roles.KindEscalate,
		roles.EscalatePrompt(summary, evaluation, insights))
	if err != nil {
		return r.failed(log, roles.KindEscalate, err)
	}

	state = StateDone
	log.WithField("state", string(state)).Info("analysis complete")

	authWord := "is not"
	if authorized {
		authWord = "is"
	}
	return types.CallAnalysis{
		Success:              true,
		AgentName:            agentName,
		AgentProfile:         profile,
		Category:             category,
		IsAuthorized:         authorized,
		AuthorizationDetails: fmt.Sprintf("Agent %s %s authorized for %s", agentName, authWord, category),
		CallSummary:          summary,
		Evaluation:           evaluation,
		CustomerInsights:     insights,
		QADecision:           qaDecision,
		Timestamp:            r.now(),
	}
}

// invoke runs one role round-trip and normalizes the reply.
func (r *Runner) invoke(ctx context.Context, kind roles.Kind, prompt string) (types.StageResult, error) {
	role := roles.For(kind)
	start := time.Now()

	raw, err := r.llm.Complete(ctx, role.System, prompt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}

	parsed, err := normalize.Response(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}

	r.log.WithFields(logrus.Fields{
		"stage":       kind.String(),
		"role":        role.Name,
		"duration_ms": time.Since(start).Milliseconds(),
		"fields":      len(parsed),
	}).Debug("stage reply normalized")
	return parsed, nil
}

func (r *Runner) failed(log *logrus.Entry, kind roles.Kind, err error) types.CallAnalysis {
	log.WithFields(logrus.Fields{"state": string(StateFailed), "stage": kind.String()}).
		WithError(err).Warn("pipeline run failed")
	return types.CallAnalysis{
		Success: false,
		Error:   err.Error(),
		Stage:   kind.String(),
	}
}
