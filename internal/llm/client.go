package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wayfarer/planner/internal/config"
	"github.com/wayfarer/planner/internal/types"
)

// ErrGeneration is returned when the language model backend fails mid-stream.
// Search capability failures keep their own error and are not wrapped in it.
var ErrGeneration = errors.New("generation failed")

// maxToolRounds bounds how many tool-call round trips a single generation may
// take before it is considered stuck.
const maxToolRounds = 4

// Searcher is the web-search capability exposed to the model during
// generation.
type Searcher interface {
	Search(ctx context.Context, query, dateRange string) ([]types.SearchResult, error)
}

// Message represents a chat message.
type Message struct {
	Role      string     `json:"role"` // "system", "user", "assistant", "tool"
	Content   string     `json:"content"`
	ToolCalls []toolCall `json:"tool_calls,omitempty"`
}

type toolDefinition struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type toolCall struct {
	Function struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"function"`
}

type chatRequest struct {
	Model    string           `json:"model"`
	Messages []Message        `json:"messages"`
	Stream   bool             `json:"stream"`
	Tools    []toolDefinition `json:"tools,omitempty"`
	Options  map[string]any   `json:"options,omitempty"`
}

type chatResponse struct {
	Message Message `json:"message"`
	Done    bool    `json:"done"`
}

// Client streams itinerary text from an Ollama-compatible chat backend,
// dispatching the model's web-search tool calls to the attached Searcher.
type Client struct {
	baseURL       string
	model         string
	contextLength int
	httpClient    *http.Client
	searcher      Searcher
}

func NewClient(cfg *config.Config, searcher Searcher) *Client {
	return &Client{
		baseURL:       cfg.OllamaHost,
		model:         cfg.OllamaModel,
		contextLength: cfg.OllamaContextLength,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute, // generation can run long
		},
		searcher: searcher,
	}
}

// searchToolDef is the single tool definition advertised to the model.
var searchToolDef = toolDefinition{
	Type: "function",
	Function: toolFunction{
		Name:        "web_search",
		Description: "Search the web for up-to-date information about a destination, such as festivals, local events, or travel advice.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query",
				},
				"date_range": map[string]any{
					"type":        "string",
					"description": "Optional date range to scope the search, e.g. '2025-11-04 to 2025-11-05'",
				},
			},
			"required": []string{"query"},
		},
	},
}

// Generate starts a streaming generation for the prompt. The returned Stream
// yields text fragments in arrival order; the caller owns it and must either
// drain it or Close it.
func (c *Client) Generate(ctx context.Context, prompt string) (*Stream, error) {
	genCtx, cancel := context.WithCancel(ctx)
	st := newStream(cancel)

	go func() {
		defer close(st.fragments)
		if err := c.run(genCtx, prompt, st); err != nil {
			st.setErr(err)
		}
	}()

	return st, nil
}

func (c *Client) run(ctx context.Context, prompt string, st *Stream) error {
	messages := []Message{{Role: "user", Content: prompt}}

	for round := 0; round <= maxToolRounds; round++ {
		content, calls, err := c.chatStream(ctx, messages, st)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrGeneration, err)
		}
		if len(calls) == 0 {
			return nil
		}

		messages = append(messages, Message{Role: "assistant", Content: content, ToolCalls: calls})
		for _, call := range calls {
			result, err := c.dispatch(ctx, call)
			if err != nil {
				// Searcher failures abort the generation carrying their
				// own error; there is no fallback.
				return err
			}
			messages = append(messages, Message{Role: "tool", Content: result})
		}
	}

	return fmt.Errorf("%w: tool call limit exceeded", ErrGeneration)
}

// chatStream performs one streaming chat round, forwarding content fragments
// to the stream and collecting any tool calls the model makes.
func (c *Client) chatStream(ctx context.Context, messages []Message, st *Stream) (string, []toolCall, error) {
	payload := chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   true,
		Tools:    []toolDefinition{searchToolDef},
		Options: map[string]any{
			"num_ctx": c.contextLength,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", nil, fmt.Errorf("chat backend error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	scanner := bufio.NewScanner(resp.Body)
	// Increase scanner buffer for long responses
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var content string
	var calls []toolCall

	for scanner.Scan() {
		var chunk chatResponse
		if err := json.Unmarshal(scanner.Bytes(), &chunk); err != nil {
			continue
		}

		if len(chunk.Message.ToolCalls) > 0 {
			calls = append(calls, chunk.Message.ToolCalls...)
		}

		if chunk.Message.Content != "" {
			content += chunk.Message.Content
			if err := st.emit(ctx, chunk.Message.Content); err != nil {
				return "", nil, err
			}
		}

		if chunk.Done {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return "", nil, err
	}

	return content, calls, nil
}

type searchArgs struct {
	Query     string `json:"query"`
	DateRange string `json:"date_range"`
}

// dispatch executes one tool call and returns the tool message content fed
// back to the model.
func (c *Client) dispatch(ctx context.Context, call toolCall) (string, error) {
	if call.Function.Name != "web_search" {
		return fmt.Sprintf(`{"error":"unknown tool %q"}`, call.Function.Name), nil
	}

	var args searchArgs
	if err := json.Unmarshal(call.Function.Arguments, &args); err != nil {
		return `{"error":"invalid tool arguments"}`, nil
	}

	results, err := c.searcher.Search(ctx, args.Query, args.DateRange)
	if err != nil {
		return "", err
	}

	encoded, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("%w: encoding search results: %v", ErrGeneration, err)
	}
	return string(encoded), nil
}
