package oracle

import "fmt"

const (
	// HintRateLimitedText is shown when a hint could not be fetched because
	// the service stayed busy.
	HintRateLimitedText = "The problem wizard's brain is working extra hard! Please wait a moment and try for a hint again."

	// HintFallbackText is shown when a hint request failed for any other
	// reason.
	HintFallbackText = "Oops! I had a little brain-freeze. Can you try solving it one more time?"

	// QuestionErrorText is shown when a question could not be fetched.
	QuestionErrorText = "Oh no! The problem wizard couldn't come up with a new puzzle right now. Please go back and try again in a little while."

	fallbackVisual = `<svg viewBox="0 0 300 150" xmlns="http://www.w3.org/2000/svg"><text x="150" y="75" font-family="Arial" font-size="20" fill="red" text-anchor="middle">Error generating visual.</text></svg>`
)

// SolutionFallback returns a solution that simply states the answer.
func SolutionFallback(correct float64) Hint {
	return Hint{
		Text:   fmt.Sprintf("Oops! I'm having a little trouble explaining this one. The correct answer is %s", FormatNumber(correct)),
		Visual: fallbackVisual,
	}
}
