package oracle

import (
	"fmt"
	"strings"
)

// maxExcluded bounds the already-asked list sent with a question prompt.
const maxExcluded = 24

const questionSystemPrompt = `You write math word problems for children aged 6 to 12.

Rules:
- Generate exactly one word problem for the given topic, theme and difficulty level.
- Level 1 is very easy and level 30 is challenging. Scale the numbers and the number of steps accordingly.
- Word the problem in simple, encouraging language a child can easily understand.
- The problem must fit the theme.
- The answer must be a single number. Use decimals, not fractions, for non-whole answers.
- Do not repeat any question from the "already asked" list.`

const hintSystemPrompt = `You are a friendly robot in a kids math game. A child just answered a math problem incorrectly.

Rules:
- Give a short, simple, step-by-step hint to help them solve the problem.
- Your tone must be very positive, cheerful and encouraging. Start with a friendly phrase like "Good try!" or "Almost there!".
- Look at their specific wrong answer and briefly explain what might have gone wrong, then guide them to the correct method.
- Do NOT reveal the final numerical answer.
- Respond with ONLY the hint text. Keep it brief and easy for a child to read.`

const solutionSystemPrompt = `You are a character in a kids math game. A child answered a math problem incorrectly twice.

Respond with:
- textHint: a simple step-by-step explanation of how to solve the problem, in a very positive and encouraging tone. Use their specific wrong answer in the explanation of how to reach the correct answer.
- visualSolution: a self-contained, kid-friendly SVG graphic that explains the solution visually. Use viewBox="0 0 300 150", simple shapes, bright colors and clear text. For example, for 2+3 show 2 apples and 3 apples, then 5 apples together. The final answer must be clearly visible.`

// buildQuestionMessage renders the user message for a question request.
func buildQuestionMessage(req QuestionRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "Theme: %s\n", req.Theme)
	fmt.Fprintf(&b, "Level: %d of 30\n", req.Level)

	b.WriteString("\nAlready asked in this level:\n")
	b.WriteString(buildExcluded(req.Exclude, maxExcluded))

	return b.String()
}

// buildExcluded lists the most recent max texts, or "None".
func buildExcluded(texts []string, max int) string {
	if len(texts) == 0 {
		return "None"
	}
	if max > 0 && len(texts) > max {
		texts = texts[len(texts)-max:]
	}

	var b strings.Builder
	for _, t := range texts {
		fmt.Fprintf(&b, "- %s\n", t)
	}
	return strings.TrimRight(b.String(), "\n")
}

// buildAttemptMessage renders the user message for hint and solution requests.
func buildAttemptMessage(a Attempt) string {
	return fmt.Sprintf("Problem: %q\nTheir answer: %s\nCorrect answer: %s",
		a.Question, FormatNumber(a.UserAnswer), FormatNumber(a.Correct))
}
