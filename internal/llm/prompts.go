package llm

// System prompts sent alongside each structured completion request.
const (
	classifyPrompt = "Classify the support ticket description. " +
		"Pick suggested_category from billing, technical, account, general " +
		"based on the subject matter, and suggested_priority from low, medium, " +
		"high, critical based on the severity and business impact described. " +
		"Do not guess beyond what the description states."

	titleSuggestPrompt = "Generate a concise support ticket title from the description. " +
		"No quotes, no markdown, no trailing punctuation. " +
		"Keep it informative and short."

	sentimentUrgencyPrompt = "Analyze ticket tone and urgency using title and description. " +
		"Pick sentiment from calm, neutral, frustrated, angry. " +
		"Set urgency_score from 0 to 100 based on business impact, outages, " +
		"deadlines, and urgency cues. Do not infer urgency from category alone."
)
