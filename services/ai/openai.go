package aisvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/schoolhub/backend/core"
	"github.com/schoolhub/backend/core/chat"
)

// OpenAIService completes chats against an OpenAI compatible endpoint.
type OpenAIService struct {
	client    *http.Client
	url       string
	apiKey    string
	model     string
	maxTokens int
}

var _ chat.Completer = (*OpenAIService)(nil)

// NewOpenAIService returns nil when no API key is configured.
func NewOpenAIService(conf *core.Config) *OpenAIService {
	if conf.OpenAI.APIKey == "" {
		return nil
	}
	return &OpenAIService{
		client:    &http.Client{Timeout: conf.OpenAI.Timeout},
		url:       conf.OpenAI.URL,
		apiKey:    conf.OpenAI.APIKey,
		model:     conf.OpenAI.Model,
		maxTokens: conf.OpenAI.MaxTokens,
	}
}

type (
	completionRequest struct {
		Model     string         `json:"model"`
		Messages  []chat.Message `json:"messages"`
		MaxTokens int            `json:"max_tokens"`
	}

	completionResponse struct {
		Choices []struct {
			Message chat.Message `json:"message"`
		} `json:"choices"`
	}
)

func (svc *OpenAIService) Complete(ctx context.Context, messages []chat.Message) (string, error) {
	body, err := json.Marshal(completionRequest{Model: svc.model, Messages: messages, MaxTokens: svc.maxTokens})
	if err != nil {
		return "", errors.Wrap(err, "encoding completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.url, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "building completion request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+svc.apiKey)

	res, err := svc.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "requesting completion")
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 1<<10))
		return "", errors.Errorf("completion failed - status: %d - body: %s", res.StatusCode, msg)
	}

	var data completionResponse
	if err = json.NewDecoder(res.Body).Decode(&data); err != nil {
		return "", errors.Wrap(err, "decoding completion response")
	}
	if len(data.Choices) == 0 {
		return "", nil
	}
	return data.Choices[0].Message.Content, nil
}
