package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
	"github.com/voiceops-lab/mnemosyne/pkg/repository/guard"
	"github.com/voiceops-lab/mnemosyne/pkg/repository/memory"
	"github.com/voiceops-lab/mnemosyne/pkg/usecase"

	httpctrl "github.com/voiceops-lab/mnemosyne/pkg/controller/http"
)

const testTenant = types.TenantID("acme")

func newTestServer(t *testing.T) (*httpctrl.Server, string) {
	t.Helper()

	registry := model.NewTenantRegistry()
	registry.Register(&model.Tenant{ID: testTenant, Name: "Acme Corp"})

	repo := guard.New(memory.New())
	uc := usecase.New(repo, registry, []byte("test-secret-0123456789abcdef"))

	token, err := uc.IssueToken(context.Background(), testTenant)
	gt.NoError(t, err).Required()

	return httpctrl.New(uc), token
}

func doJSON(t *testing.T, server *httpctrl.Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		gt.NoError(t, err).Required()
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func processCallBody(callID string) map[string]any {
	return map[string]any{
		"subject": "+15551234567",
		"call_id": callID,
		"transcript": []map[string]string{
			{"speaker": "user", "text": "I need help with my bill, the invoice has a wrong charge"},
			{"speaker": "assistant", "text": "Let me check that invoice for you"},
		},
	}
}

func TestHealthEndpointNeedsNoAuth(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/health", "", nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)
	gt.String(t, rec.Body.String()).Contains(`"status":"ok"`)
}

func TestMissingCredentialIsUnauthorized(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/v1/profile/+15551234567", "", nil)
	gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
}

func TestInvalidCredentialIsUnauthorized(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/v1/profile/+15551234567", "not.a.jwt", nil)
	gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
}

func TestProcessCall(t *testing.T) {
	server, token := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/calls", token, processCallBody("call-1"))
	gt.Number(t, rec.Code).Equal(http.StatusCreated)

	var resp struct {
		SummaryID  string   `json:"summary_id"`
		Summary    string   `json:"summary"`
		Topics     []string `json:"topics"`
		Provenance string   `json:"provenance"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.String(t, resp.SummaryID).NotEqual("")
	gt.String(t, resp.Summary).NotEqual("")
	gt.Value(t, resp.Provenance).Equal("fallback")

	found := false
	for _, topic := range resp.Topics {
		if topic == "billing" {
			found = true
		}
	}
	gt.Bool(t, found).True()
}

func TestProcessCallDuplicateIsConflict(t *testing.T) {
	server, token := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/calls", token, processCallBody("call-1"))
	gt.Number(t, rec.Code).Equal(http.StatusCreated)

	rec = doJSON(t, server, http.MethodPost, "/api/v1/calls", token, processCallBody("call-1"))
	gt.Number(t, rec.Code).Equal(http.StatusConflict)
}

func TestProcessCallValidation(t *testing.T) {
	server, token := newTestServer(t)

	body := map[string]any{"subject": "", "call_id": "call-1", "transcript": []map[string]string{}}
	rec := doJSON(t, server, http.MethodPost, "/api/v1/calls", token, body)
	gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
}

func TestGetContext(t *testing.T) {
	server, token := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/calls", token, processCallBody("call-1"))
	gt.Number(t, rec.Code).Equal(http.StatusCreated)

	rec = doJSON(t, server, http.MethodGet, "/api/v1/context/+15551234567", token, nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		Context      string `json:"context"`
		SummaryCount int    `json:"summary_count"`
		Partial      bool   `json:"partial"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Number(t, resp.SummaryCount).Equal(1)
	gt.Bool(t, resp.Partial).False()
	gt.String(t, resp.Context).Contains("CALLER PROFILE:")
	gt.String(t, resp.Context).Contains("RECENT CALLS:")
}

func TestGetContextUnknownSubject(t *testing.T) {
	server, token := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/v1/context/+15550000000", token, nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		Context      string `json:"context"`
		SummaryCount int    `json:"summary_count"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Number(t, resp.SummaryCount).Equal(0)
	gt.Value(t, resp.Context).Equal("No previous call history found.")
}

func TestGetContextInvalidSummariesParam(t *testing.T) {
	server, token := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/v1/context/+15551234567?summaries=abc", token, nil)
	gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
}

func TestGetProfileUnknownSubject(t *testing.T) {
	server, token := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/v1/profile/+15550000000", token, nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		Subject    string `json:"subject"`
		TotalCalls int    `json:"total_calls"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Value(t, resp.Subject).Equal("+15550000000")
	gt.Number(t, resp.TotalCalls).Equal(0)
}

func TestGetPersonality(t *testing.T) {
	server, token := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/calls", token, processCallBody("call-1"))
	gt.Number(t, rec.Code).Equal(http.StatusCreated)

	rec = doJSON(t, server, http.MethodGet, "/api/v1/personality/+15551234567", token, nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		CallCount         int    `json:"call_count"`
		SatisfactionTrend string `json:"satisfaction_trend"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Number(t, resp.CallCount).Equal(1)
	gt.Value(t, resp.SatisfactionTrend).Equal("stable")
}

func TestListSummaries(t *testing.T) {
	server, token := newTestServer(t)

	for _, callID := range []string{"call-1", "call-2"} {
		rec := doJSON(t, server, http.MethodPost, "/api/v1/calls", token, processCallBody(callID))
		gt.Number(t, rec.Code).Equal(http.StatusCreated)
	}

	rec := doJSON(t, server, http.MethodGet, "/api/v1/summaries/+15551234567?limit=1", token, nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		Summaries []json.RawMessage `json:"summaries"`
		Total     int               `json:"total"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Number(t, resp.Total).Equal(1)
}

func TestMemoriesEndpoints(t *testing.T) {
	server, token := newTestServer(t)

	body := map[string]any{
		"subject": "+15551234567",
		"kind":    "preference",
		"key":     "preferred_contact_window",
		"value":   map[string]any{"window": "mornings"},
	}
	rec := doJSON(t, server, http.MethodPost, "/api/v1/memories", token, body)
	gt.Number(t, rec.Code).Equal(http.StatusCreated)

	rec = doJSON(t, server, http.MethodGet, "/api/v1/memories/+15551234567", token, nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		Memories []struct {
			Key  string `json:"key"`
			Kind string `json:"kind"`
		} `json:"memories"`
		Total int `json:"total"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Number(t, resp.Total).Equal(1)
	gt.Value(t, resp.Memories[0].Key).Equal("preferred_contact_window")
	gt.Value(t, resp.Memories[0].Kind).Equal("preference")
}

func TestPutMemoryInvalidKind(t *testing.T) {
	server, token := newTestServer(t)

	body := map[string]any{
		"subject": "+15551234567",
		"kind":    "vibe",
		"key":     "something",
	}
	rec := doJSON(t, server, http.MethodPost, "/api/v1/memories", token, body)
	gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
}
