package factgen

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/rift-rewind/internal/platform/logging"
	"github.com/riskibarqy/rift-rewind/internal/usecase"
	"github.com/stretchr/testify/require"
)

func TestClient_RetrieveAndGenerate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("missing bearer token")
		}
		body, _ := io.ReadAll(r.Body)
		var req generateRequest
		if err := sonic.Unmarshal(body, &req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Filter.PUUID != "p1" || req.Filter.Year != 2024 || req.NumberOfResults != 15 {
			t.Errorf("unexpected request: %+v", req)
		}
		if req.KnowledgeBaseID != "kb-1" || req.Input == "" {
			t.Errorf("unexpected request: %+v", req)
		}
		_, _ = w.Write([]byte(`{"output":{"text":"[{\"fact\":\"a\"}]"}}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient:      server.Client(),
		Endpoint:        server.URL,
		Token:           "secret",
		KnowledgeBaseID: "kb-1",
		Logger:          logging.NewNop(),
	})

	got, err := client.RetrieveAndGenerate(t.Context(), "p1", 2024, 15)
	require.NoError(t, err)
	require.Equal(t, `[{"fact":"a"}]`, got)
}

func TestClient_RetrieveAndGenerate_Errors(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})
	_, err := client.RetrieveAndGenerate(t.Context(), "p1", 2024, 15)
	require.ErrorIs(t, err, usecase.ErrDependencyUnavailable)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"bad filter"}`))
	}))
	t.Cleanup(server.Close)

	client = NewClient(ClientConfig{HTTPClient: server.Client(), Endpoint: server.URL, Logger: logging.NewNop()})
	_, err = client.RetrieveAndGenerate(t.Context(), "p1", 2024, 15)
	require.ErrorContains(t, err, "status=400")
}
