package tests

import (
	"bufio"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/backend/core/chat"
	"github.com/schoolhub/backend/core/user"
)

func TestServer_surface(t *testing.T) {
	app := setup(t)
	notFound := marchallObj(t, httpErr{Error: "Endpoint not found"})

	runHttpTests(t, app, []httpTest{
		{
			name:     "home",
			method:   http.MethodGet,
			path:     "/",
			wantCode: http.StatusOK,
			wantData: []byte(`{"ok": true, "name": "School Management API"}`),
		},
		{
			name:     "unknown endpoint",
			method:   http.MethodGet,
			path:     "/api/unknown",
			wantCode: http.StatusNotFound,
			wantData: notFound,
		},
		{
			name:     "unknown method",
			method:   http.MethodPatch,
			path:     "/api/auth/login",
			wantCode: http.StatusNotFound,
			wantData: notFound,
		},
	})

	t.Run("metrics", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/metrics")
		app.serve(req, rec)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "http_requests_total")
	})

	t.Run("metrics count sent status", func(t *testing.T) {
		_, token := app.createAdmin(t)
		series := `http_requests_total{code="404",method="GET",route="/api/fees/:id"}`
		before := metricValue(t, app, series)

		req, rec := newAuthRequest(http.MethodGet, "/api/fees/000000000000000000000000", token)
		app.serve(req, rec)
		require.Equal(t, http.StatusNotFound, rec.Code)

		assert.Equal(t, before+1, metricValue(t, app, series))

		req, rec = newRequest(http.MethodGet, "/metrics")
		app.serve(req, rec)
		assert.NotContains(t, rec.Body.String(), `code="405"`, "unknown methods answer 404")
	})

	t.Run("body limit", func(t *testing.T) {
		body := []byte(`{"name": "` + strings.Repeat("a", 11<<20) + `"}`)
		req, rec := newRequest(http.MethodPost, "/api/auth/register", body)
		app.serve(req, rec)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func Test_chatApi_chat(t *testing.T) {
	app := setup(t)
	usr := app.createUser(t, "Kofi Boateng", "kofi@school.edu", "secret1", user.RoleStudent)
	token := app.getToken(t, usr)

	runHttpTests(t, app, []httpTest{
		{
			name:     "no token",
			method:   http.MethodPost,
			path:     "/api/ai",
			body:     []byte(`{"message": "help"}`),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "missing message",
			method:   http.MethodPost,
			path:     "/api/ai",
			body:     []byte(`{"message": "  "}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "Message is required"}),
		},
		{
			name:     "canned reply",
			method:   http.MethodPost,
			path:     "/api/ai",
			body:     []byte(`{"message": "When is my next EXAM?", "history": [{"sender": "user", "text": "hi"}]}`),
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, chat.Reply{Reply: chat.CannedReply("exam")}),
		},
	})
}

// metricValue reads one series from /metrics; absent series count as 0.
func metricValue(t *testing.T, app testApp, series string) float64 {
	req, rec := newRequest(http.MethodGet, "/metrics")
	app.serve(req, rec)
	require.Equal(t, http.StatusOK, rec.Code)

	scanner := bufio.NewScanner(strings.NewReader(rec.Body.String()))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, series+" ") {
			v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(line, series)), 64)
			require.NoError(t, err)
			return v
		}
	}
	return 0
}
