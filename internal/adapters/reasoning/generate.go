package reasoning

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	perr "autoscrum/internal/platform/errors"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// GenerateText returns the raw completion for prompt
func (c *Client) GenerateText(ctx context.Context, prompt, systemMessage string, temperature float64) (string, error) {
	var msgs []chatMessage
	if systemMessage != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: systemMessage})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(chatRequest{
		Model:       c.opts.Model,
		Messages:    msgs,
		Temperature: temperature,
		MaxTokens:   c.opts.MaxTokens,
	})
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeReasoning, "reasoning marshal request failed")
	}

	resp, err := c.do(ctx, "/chat/completions", body)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Msg("reasoning close body failed")
		}
	}()

	var out chatResponse
	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeReasoning, "reasoning read body failed")
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeReasoning, "reasoning decode body failed")
	}
	if len(out.Choices) == 0 {
		return "", perr.Newf(perr.ErrorCodeReasoning, "reasoning returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

// GenerateStructured asks for a JSON object and parses it
// The model is nudged to answer with JSON only; markdown fences around the
// payload are tolerated and stripped
func (c *Client) GenerateStructured(
	ctx context.Context,
	prompt, systemMessage string,
	temperature float64,
) (map[string]any, error) {
	if systemMessage == "" {
		systemMessage = "You are a helpful assistant that responds in JSON format."
	}
	text, err := c.GenerateText(ctx, prompt+"\n\nPlease respond with valid JSON only.", systemMessage, temperature)
	if err != nil {
		return nil, err
	}

	text = StripFences(text)

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeReasoning, "reasoning returned malformed JSON")
	}
	return obj, nil
}

// StripFences removes a ```json ... ``` or ``` ... ``` wrapper if present
func StripFences(s string) string {
	if i := strings.Index(s, "```json"); i >= 0 {
		rest := s[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			return strings.TrimSpace(rest[:j])
		}
		return strings.TrimSpace(rest)
	}
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+3:]
		if j := strings.Index(rest, "```"); j >= 0 {
			return strings.TrimSpace(rest[:j])
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(s)
}
