// Package analyzer is the facade a UI or batch driver talks to: transcribe a
// batch, run the pipeline per transcript, resolve authorization, and fire
// best-effort escalation alerts.
package analyzer

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"call-insights-go/internal/logger"
	"call-insights-go/internal/notifier"
	"call-insights-go/internal/pipeline"
	"call-insights-go/internal/roster"
	"call-insights-go/internal/types"
)

// Transcriber is the external speech-to-text collaborator.
type Transcriber interface {
	Transcribe(ctx context.Context, source string) (types.Transcript, error)
}

type Analyzer struct {
	transcriber Transcriber
	runner      *pipeline.Runner
	roster      *roster.Roster
	notifier    *notifier.Notifier
	log         *logrus.Entry

	mu          sync.Mutex
	transcripts []types.Transcript
	analyses    map[int]types.CallAnalysis
}

func New(t Transcriber, runner *pipeline.Runner, r *roster.Roster, n *notifier.Notifier) *Analyzer {
	return &Analyzer{
		transcriber: t,
		runner:      runner,
		roster:      r,
		notifier:    n,
		log:         logger.Component("analyzer"),
		analyses:    map[int]types.CallAnalysis{},
	}
}

// Transcribe runs the batch of sources through the transcription provider.
// A failed file is logged and skipped; the rest of the batch continues.
func (a *Analyzer) Transcribe(ctx context.Context, sources []string) []types.Transcript {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.transcripts = a.transcripts[:0]
	for _, src := range sources {
		t, err := a.transcriber.Transcribe(ctx, src)
		if err != nil {
			a.log.WithField("source", src).WithError(err).Warn("transcription failed, skipping file")
			continue
		}
		a.transcripts = append(a.transcripts, t)
	}
	a.log.WithFields(logrus.Fields{
		"requested":   len(sources),
		"transcribed": len(a.transcripts),
	}).Info("batch transcription finished")
	return append([]types.Transcript(nil), a.transcripts...)
}

// Transcripts returns the current batch.
func (a *Analyzer) Transcripts() []types.Transcript {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]types.Transcript(nil), a.transcripts...)
}

// RunPipeline analyzes the transcript at idx and records the composite.
func (a *Analyzer) RunPipeline(ctx context.Context, idx int) types.CallAnalysis {
	a.mu.Lock()
	if idx < 0 || idx >= len(a.transcripts) {
		failed := types.CallAnalysis{
			Success: false,
			Error:   "no transcript at index",
			Stage:   "transcribe",
		}
		a.analyses[idx] = failed
		a.mu.Unlock()
		return failed
	}
	t := a.transcripts[idx]
	a.mu.Unlock()

	result := a.runner.Run(ctx, t)

	a.mu.Lock()
	a.analyses[idx] = result
	a.mu.Unlock()
	return result
}

// AnalyzeTranscript runs the pipeline on a transcript that is not part of
// the stored batch.
func (a *Analyzer) AnalyzeTranscript(ctx context.Context, t types.Transcript) types.CallAnalysis {
	return a.runner.Run(ctx, t)
}

// ResolveAuthorization cross-references an agent name and category against
// the roster.
func (a *Analyzer) ResolveAuthorization(agentName, category string) (bool, types.AgentProfile) {
	return a.roster.Resolve(agentName, category)
}

// NotifyIfNeeded fires the escalation alert for one composite. Best effort.
func (a *Analyzer) NotifyIfNeeded(analysis types.CallAnalysis) bool {
	return a.notifier.NotifyIfNeeded(analysis)
}

// Stats aggregates the analyses recorded so far.
type Stats struct {
	Total        int            `json:"total"`
	Succeeded    int            `json:"succeeded"`
	Failed       int            `json:"failed"`
	Authorized   int            `json:"authorized"`
	ByCategory   map[string]int `json:"by_category"`
	ByEscalation map[string]int `json:"by_escalation"`
}

func (a *Analyzer) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Stats{
		ByCategory:   map[string]int{},
		ByEscalation: map[string]int{},
	}
	for _, r := range a.analyses {
		s.Total++
		if !r.Success {
			s.Failed++
			continue
		}
		s.Succeeded++
		if r.IsAuthorized {
			s.Authorized++
		}
		s.ByCategory[r.Category]++
		s.ByEscalation[r.QADecision.Str("intervention_type", "none")]++
	}
	return s
}
