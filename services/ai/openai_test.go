package aisvc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/backend/core"
	"github.com/schoolhub/backend/core/chat"
)

func newTestService(url string) *OpenAIService {
	return NewOpenAIService(&core.Config{OpenAI: core.OpenAIConfig{
		APIKey:    "sk-test",
		URL:       url,
		Model:     "gpt-3.5-turbo",
		MaxTokens: 500,
		Timeout:   time.Second,
	}})
}

func TestNewOpenAIService_noKey(t *testing.T) {
	assert.Nil(t, NewOpenAIService(&core.Config{}))
}

func TestOpenAIService_Complete(t *testing.T) {
	var got completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Maths at 9."}}]}`))
	}))
	defer srv.Close()

	msgs := []chat.Message{{Role: chat.RoleUser, Content: "timetable?"}}
	reply, err := newTestService(srv.URL).Complete(context.Background(), msgs)
	require.NoError(t, err)
	assert.Equal(t, "Maths at 9.", reply)
	assert.Equal(t, completionRequest{Model: "gpt-3.5-turbo", Messages: msgs, MaxTokens: 500}, got)
}

func TestOpenAIService_Complete_errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
		wantErr bool
	}{
		{
			name:    "non-success status",
			handler: func(w http.ResponseWriter, _ *http.Request) { http.Error(w, "quota", http.StatusTooManyRequests) },
			wantErr: true,
		},
		{
			name:    "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("{")) },
			wantErr: true,
		},
		{
			name:    "no choices",
			handler: func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"choices":[]}`)) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			reply, err := newTestService(srv.URL).Complete(context.Background(), []chat.Message{{Role: chat.RoleUser, Content: "hi"}})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, reply)
		})
	}
}
