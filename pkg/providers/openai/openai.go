// Package openai provides a Completer for OpenAI-compatible Chat Completions
// APIs. LM Studio serves this API under {baseUrl}/v1.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/germanamz/modelgate/pkg/chat"
	"github.com/germanamz/modelgate/pkg/modeladapter"
)

const completionsPath = "/chat/completions"

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer for an OpenAI-compatible API.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter rooted at apiRoot, which already includes the
// version segment (e.g. "http://localhost:1234/v1"). An empty apiKey sends no
// Authorization header.
func New(apiRoot, apiKey, model string) *Adapter {
	a := &Adapter{}
	a.BaseURL = apiRoot
	a.Auth = modeladapter.Auth{Key: apiKey}
	a.Name = model

	return a
}

// Complete sends the messages to the Chat Completions endpoint and returns
// the assistant's reply.
func (a *Adapter) Complete(ctx context.Context, msgs []chat.Message) (chat.Message, error) {
	if err := chat.Validate(msgs); err != nil {
		return chat.Message{}, fmt.Errorf("openai: %w", err)
	}

	var resp apiResponse
	if err := a.PostJSON(ctx, completionsPath, a.buildRequest(msgs), &resp); err != nil {
		return chat.Message{}, fmt.Errorf("openai: %w", err)
	}

	if resp.Error != nil {
		return chat.Message{}, fmt.Errorf("openai: %s", resp.Error.Message)
	}

	if len(resp.Choices) == 0 {
		return chat.Message{}, errors.New("openai: empty choices in response")
	}

	return chat.NewText(chat.Assistant, resp.Choices[0].Message.Content), nil
}

// --- request types ---

type apiRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
	Temperature *float64     `json:"temperature,omitempty"`
	Stream      bool         `json:"stream"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// --- response types ---

type apiResponse struct {
	Choices []apiChoice `json:"choices"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiChoice struct {
	Message      apiMessage `json:"message"`
	FinishReason string     `json:"finish_reason"`
}

type apiError struct {
	Message string `json:"message"`
}

func (a *Adapter) buildRequest(msgs []chat.Message) apiRequest {
	req := apiRequest{
		Model:     a.Name,
		MaxTokens: a.MaxTokens,
		Messages:  make([]apiMessage, len(msgs)),
	}

	if a.Temperature != 0 {
		t := a.Temperature
		req.Temperature = &t
	}

	for i, m := range msgs {
		req.Messages[i] = apiMessage{Role: m.Role.String(), Content: m.Content}
	}

	return req
}
