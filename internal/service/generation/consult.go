package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/heartmarshall/mog-workshop/internal/adapter/llm"
	"github.com/heartmarshall/mog-workshop/internal/domain"
	"github.com/heartmarshall/mog-workshop/internal/session"
)

const maxQuestionBytes = 4000

// ConsultHistory returns the session's chat log.
func (s *Service) ConsultHistory(ctx context.Context, sessionID string) domain.Result[[]session.Message] {
	data, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return domain.Fail([]session.Message{}, err)
	}
	return domain.Ok(historyOrEmpty(data.ChatHistory))
}

// Consult asks the model a free-form question with the recent chat history
// as context. Both turns are appended to the session only when the model
// answered.
func (s *Service) Consult(ctx context.Context, sessionID, question string) domain.Result[[]session.Message] {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Fail([]session.Message{}, domain.NewValidationError("question", "required"))
	}
	if len(question) > maxQuestionBytes {
		return domain.Fail([]session.Message{}, domain.NewValidationError("question", "max 4000 bytes"))
	}

	data, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return domain.Fail([]session.Message{}, err)
	}

	window := session.TruncateHistory(
		session.AddMessage(append([]session.Message(nil), data.ChatHistory...), string(llm.RoleUser), question),
		s.opts.HistoryTokenLimit,
		s.opts.HistoryMessageLimit,
	)

	msgs := make([]llm.Message, 0, len(window))
	for _, m := range window {
		msgs = append(msgs, llm.Message{Role: llm.Role(m.Role), Text: m.Content})
	}
	// A truncated window may start with an assistant turn; the APIs want the
	// conversation to open with the user.
	for len(msgs) > 1 && msgs[0].Role != llm.RoleUser {
		msgs = msgs[1:]
	}

	answer, err := s.complete(ctx, "consult", llm.Request{System: consultPrompt, Messages: msgs})
	if err != nil {
		return genFail(historyOrEmpty(data.ChatHistory), err)
	}
	answer = domain.StripEmphasis(answer)

	history, err := s.appendTurns(ctx, data, question, answer)
	if err != nil {
		return domain.Fail(historyOrEmpty(data.ChatHistory), err)
	}
	return domain.Ok(history)
}

// ClearConsult empties the session's chat log.
func (s *Service) ClearConsult(ctx context.Context, sessionID string) domain.Result[struct{}] {
	data, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return domain.Fail(struct{}{}, err)
	}
	data.ChatHistory = nil
	if err := s.sessions.Update(ctx, data); err != nil {
		return domain.Fail(struct{}{}, fmt.Errorf("clear chat history: %w", err))
	}
	return domain.Ok(struct{}{})
}

func (s *Service) loadSession(ctx context.Context, sessionID string) (*session.SessionData, error) {
	if sessionID == "" {
		return nil, domain.NewValidationError("session", "required")
	}
	data, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	return data, nil
}

// appendTurns stores question and answer, retrying once on a concurrent
// session write.
func (s *Service) appendTurns(ctx context.Context, data *session.SessionData, question, answer string) ([]session.Message, error) {
	for attempt := 0; ; attempt++ {
		h := session.AddMessage(data.ChatHistory, string(llm.RoleUser), question)
		h = session.AddMessage(h, string(llm.RoleAssistant), answer)
		data.ChatHistory = session.TruncateHistory(h, 0, maxStoredChatHistory)

		err := s.sessions.Update(ctx, data)
		if err == nil {
			return data.ChatHistory, nil
		}
		if !errors.Is(err, session.ErrVersionConflict) || attempt > 0 {
			return nil, fmt.Errorf("save chat history: %w", err)
		}

		data, err = s.loadSession(ctx, data.ID)
		if err != nil {
			return nil, err
		}
	}
}

func historyOrEmpty(h []session.Message) []session.Message {
	if h == nil {
		return []session.Message{}
	}
	return h
}
