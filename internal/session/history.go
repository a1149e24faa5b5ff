package session

import "time"

// TruncateHistory truncates the chat history based on token and message limits.
// It applies the message limit first, then the token limit, removing the oldest
// messages as needed.
func TruncateHistory(history []Message, tokenLimit, messageLimit int) []Message {
	if len(history) == 0 {
		return history
	}

	if messageLimit > 0 && len(history) > messageLimit {
		history = history[len(history)-messageLimit:]
	}

	if tokenLimit <= 0 {
		return history
	}

	totalTokens := 0
	for _, msg := range history {
		totalTokens += msg.TokenCount
	}

	for totalTokens > tokenLimit && len(history) > 0 {
		totalTokens -= history[0].TokenCount
		history = history[1:]
	}

	return history
}

// AddMessage appends a message with an estimated token count.
func AddMessage(history []Message, role, content string) []Message {
	return append(history, Message{
		Role:       role,
		Content:    content,
		TokenCount: EstimateTokens(content),
		Timestamp:  time.Now().UTC(),
	})
}

// EstimateTokens estimates the token count for text using a Unicode-aware heuristic.
// ASCII characters are weighted at ~4 per token; anything else (Hangul, emoji)
// at ~1 per token.
func EstimateTokens(text string) int {
	weight := 0
	for _, r := range text {
		if r <= 127 {
			weight++
		} else {
			weight += 4
		}
	}
	return (weight + 3) / 4
}
