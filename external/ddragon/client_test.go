package ddragon

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/riskibarqy/rift-rewind/internal/platform/logging"
	"github.com/riskibarqy/rift-rewind/internal/usecase"
	"github.com/stretchr/testify/require"
)

func staticDataServer(t *testing.T, hits *atomic.Int32, failPath string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	respond := func(path, body string) {
		mux.HandleFunc("GET "+path, func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			if r.URL.Path == failPath {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte(body))
		})
	}
	respond("/cdn/14.24.1/data/en_US/item.json", `{"data":{"3157":{"name":"Zhonya's Hourglass"},"1001":{"name":"Boots"}}}`)
	respond("/cdn/14.1.1/data/en_US/item.json", `{"data":{"3157":{"name":"Zhonya's (old)"},"4645":{"name":"Shadowflame"}}}`)
	respond("/cdn/14.24.1/data/en_US/summoner.json", `{"data":{"SummonerFlash":{"key":"4","name":"Flash"},"SummonerDot":{"key":"14","name":"Ignite"}}}`)
	respond("/cdn/14.24.1/data/en_US/runesReforged.json", `[{"id":8100,"key":"Domination","name":"Domination"},{"id":8200,"name":"Sorcery"}]`)
	respond("/docs/lol/queues.json", `[
		{"queueId":0,"map":"Custom games","description":null,"notes":null},
		{"queueId":420,"map":"Summoner's Rift","description":"5v5 Ranked Solo games","notes":null},
		{"queueId":1700,"map":"Rings of Wrath","description":null,"notes":"Arena"},
		{"queueId":2,"map":"Summoner's Rift","description":"5v5 Blind Pick games","notes":"Deprecated in patch 7.19"}
	]`)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestPatches(t *testing.T) {
	t.Parallel()

	latest, first := Patches(2024)
	if latest != "14.24.1" || first != "14.1.1" {
		t.Fatalf("unexpected patches: got=%s,%s want=14.24.1,14.1.1", latest, first)
	}
}

func TestClient_Lookups(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := staticDataServer(t, &hits, "")
	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		QueuesURL:  server.URL + "/docs/lol/queues.json",
		Logger:     logging.NewNop(),
	})

	got, err := client.Lookups(t.Context(), 2024)
	require.NoError(t, err)

	require.Equal(t, "Zhonya's Hourglass", got.Item(3157))
	require.Equal(t, "Shadowflame", got.Item(4645))
	require.Equal(t, "Flash", got.Spell(4))
	require.Equal(t, "Ignite", got.Spell(14))
	require.Equal(t, "Sorcery", got.RuneStyle(8200))
	require.Equal(t, "Custom games", got.Mode(0))
	require.Equal(t, "Summoner's Rift: 5v5 Ranked Solo games", got.Mode(420))
	require.Equal(t, "Rings of Wrath (Arena)", got.Mode(1700))
	require.Equal(t, "Summoner's Rift: 5v5 Blind Pick games (Deprecated in patch 7.19)", got.Mode(2))
	require.Equal(t, "999", got.Mode(999))

	// second load is served from cache
	_, err = client.Lookups(t.Context(), 2024)
	require.NoError(t, err)
	require.Equal(t, int32(5), hits.Load())
}

func TestClient_Lookups_AnyTableFailureFailsLoad(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := staticDataServer(t, &hits, "/cdn/14.24.1/data/en_US/summoner.json")
	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		QueuesURL:  server.URL + "/docs/lol/queues.json",
		Logger:     logging.NewNop(),
	})

	_, err := client.Lookups(t.Context(), 2024)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
