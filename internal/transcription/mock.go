package transcription

import (
	"context"

	"call-insights-go/internal/types"
)

// Mock returns a fixed billing-dispute conversation for offline demos,
// enabled with USE_MOCK_TRANSCRIBE.
type Mock struct{}

func (Mock) Transcribe(_ context.Context, source string) (types.Transcript, error) {
	t := types.Transcript{
		Source: source,
		Utterances: []types.Utterance{
			{Speaker: "A", Text: "Thank you for calling, this is Sarah. May I have your name please?", Sentiment: "NEUTRAL"},
			{Speaker: "B", Text: "This is Jordan Reyes. I was charged twice for my subscription this month and nobody answered my emails.", Sentiment: "NEGATIVE"},
			{Speaker: "A", Text: "I'm sorry about that, Jordan. Let me pull up the invoice and check both charges.", Sentiment: "NEUTRAL"},
			{Speaker: "B", Text: "I just want the extra charge gone. This is the second time it happened.", Sentiment: "NEGATIVE"},
			{Speaker: "A", Text: "I can see the duplicate. I've opened a correction with billing and you'll get a callback once it posts.", Sentiment: "POSITIVE"},
			{Speaker: "B", Text: "Okay. Please make sure someone actually calls this time.", Sentiment: "NEUTRAL"},
		},
	}
	t.Text = t.FormatText()
	return t, nil
}
