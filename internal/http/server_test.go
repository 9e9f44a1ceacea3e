package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autostream-agent/server/internal/agent/model"
	errx "github.com/autostream-agent/server/internal/core/error"
)

// fakeService records calls and returns canned results.
type fakeService struct {
	lastInput  model.TurnInput
	turnResult *model.TurnResult
	turnErr    error
	resetErr   error
	resetID    string
}

func (f *fakeService) ProcessTurn(ctx context.Context, in model.TurnInput) (*model.TurnResult, error) {
	f.lastInput = in
	if f.turnErr != nil {
		return nil, f.turnErr
	}
	return f.turnResult, nil
}

func (f *fakeService) ResetSession(ctx context.Context, sessionID string) error {
	f.resetID = sessionID
	return f.resetErr
}

func newTestServer(t *testing.T, svc *fakeService) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(svc, prometheus.NewRegistry()))
	t.Cleanup(srv.Close)
	return srv
}

func postTurn(t *testing.T, srv *httptest.Server, sessionID string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(
		srv.URL+"/v1/sessions/"+sessionID+"/turns",
		"application/json",
		bytes.NewBufferString(body),
	)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestPostTurn(t *testing.T) {
	svc := &fakeService{
		turnResult: &model.TurnResult{
			Reply:         "Basic is $29/month.",
			Intent:        model.IntentProductInquiry,
			HistoryLength: 2,
		},
	}
	srv := newTestServer(t, svc)

	resp := postTurn(t, srv, "s1", `{"message":"how much is Basic?"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result model.TurnResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "Basic is $29/month.", result.Reply)
	assert.Equal(t, model.IntentProductInquiry, result.Intent)

	assert.Equal(t, "s1", svc.lastInput.SessionID)
	assert.Equal(t, "how much is Basic?", svc.lastInput.Message)
}

func TestPostTurnPassesCredential(t *testing.T) {
	svc := &fakeService{turnResult: &model.TurnResult{Reply: "ok"}}
	srv := newTestServer(t, svc)

	resp := postTurn(t, srv, "s1", `{"message":"hi","credential":"key-123"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "key-123", svc.lastInput.Credential)
}

func TestPostTurnMalformedBody(t *testing.T) {
	svc := &fakeService{}
	srv := newTestServer(t, svc)

	resp := postTurn(t, srv, "s1", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPostTurnInvalidInput(t *testing.T) {
	svc := &fakeService{turnErr: errx.InvalidInput("message must not be empty")}
	srv := newTestServer(t, svc)

	resp := postTurn(t, srv, "s1", `{"message":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, errx.InvalidInputMessage, body["error"])
}

func TestPostTurnCollaboratorFailure(t *testing.T) {
	svc := &fakeService{turnErr: errx.WrapCollaborator("classifier", io.ErrUnexpectedEOF)}
	srv := newTestServer(t, svc)

	resp := postTurn(t, srv, "s1", `{"message":"hi"}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestDeleteSession(t *testing.T) {
	svc := &fakeService{}
	srv := newTestServer(t, svc)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/v1/sessions/s1/", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "s1", svc.resetID)
}

func TestDeleteUnknownSession(t *testing.T) {
	svc := &fakeService{resetErr: errx.SessionNotFound("nope")}
	srv := newTestServer(t, svc)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/v1/sessions/nope/", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &fakeService{})

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeService{})

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
