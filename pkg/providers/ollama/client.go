package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/germanamz/modelgate/pkg/chat"
	"github.com/germanamz/modelgate/pkg/modeladapter"
)

const chatPath = "/chat"

var _ modeladapter.Completer = (*Client)(nil)

// ClientConfig holds everything a Client needs. Endpoint is the full API
// root, including the "/api" segment. An empty Auth.Key sends no credential.
type ClientConfig struct {
	Endpoint string
	Model    string
	NumCtx   int
	Auth     modeladapter.Auth
	HTTP     *http.Client
}

// Client is a native Ollama chat handle. It is configured entirely at
// construction and performs no I/O until Complete is called.
type Client struct {
	modeladapter.ModelAdapter

	numCtx int
}

// NewClient creates a Client from cfg. A non-positive NumCtx uses
// DefaultNumCtx.
func NewClient(cfg ClientConfig) *Client {
	c := &Client{numCtx: cfg.NumCtx}
	c.BaseURL = cfg.Endpoint
	c.Name = cfg.Model
	c.Auth = cfg.Auth
	c.Client = cfg.HTTP

	if c.numCtx <= 0 {
		c.numCtx = DefaultNumCtx
	}

	return c
}

// NumCtx returns the context window sent with every request.
func (c *Client) NumCtx() int { return c.numCtx }

// Complete sends the messages to /api/chat with streaming disabled.
func (c *Client) Complete(ctx context.Context, msgs []chat.Message) (chat.Message, error) {
	if err := chat.Validate(msgs); err != nil {
		return chat.Message{}, fmt.Errorf("ollama: %w", err)
	}

	var resp chatResponse
	if err := c.PostJSON(ctx, chatPath, c.buildRequest(msgs), &resp); err != nil {
		return chat.Message{}, fmt.Errorf("ollama: %w", err)
	}

	if resp.Error != "" {
		return chat.Message{}, fmt.Errorf("ollama: %s", resp.Error)
	}

	if !resp.Done && resp.Message.Content == "" {
		return chat.Message{}, errors.New("ollama: incomplete response")
	}

	return chat.NewText(chat.Assistant, resp.Message.Content), nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	NumCtx      int      `json:"num_ctx"`
	Temperature *float64 `json:"temperature,omitempty"`
	NumPredict  int      `json:"num_predict,omitempty"`
}

type chatResponse struct {
	Model   string      `json:"model"`
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
	Error   string      `json:"error,omitempty"`
}

func (c *Client) buildRequest(msgs []chat.Message) chatRequest {
	req := chatRequest{
		Model:    c.Name,
		Messages: make([]chatMessage, len(msgs)),
		Options: chatOptions{
			NumCtx:     c.numCtx,
			NumPredict: c.MaxTokens,
		},
	}

	if c.Temperature != 0 {
		t := c.Temperature
		req.Options.Temperature = &t
	}

	for i, m := range msgs {
		req.Messages[i] = chatMessage{Role: m.Role.String(), Content: m.Content}
	}

	return req
}
