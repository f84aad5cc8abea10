package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// TranslateRequest is a request captured by a LibreTranslateServer.
type TranslateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key"`
}

// TranslateFunc answers a translation request with text or a non-200 status.
type TranslateFunc func(req TranslateRequest) (string, int)

// LibreTranslateServer is an in-process LibreTranslate API stand-in.
type LibreTranslateServer struct {
	URL    string
	server *httptest.Server

	mu       sync.Mutex
	requests []TranslateRequest
}

// NewLibreTranslateServer starts a server answering /translate with fn and /languages
// with the supported targets.
func NewLibreTranslateServer(t testing.TB, fn TranslateFunc) *LibreTranslateServer {
	t.Helper()

	ls := &LibreTranslateServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /translate", func(w http.ResponseWriter, r *http.Request) {
		var req TranslateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"bad json"}`, http.StatusBadRequest)
			return
		}
		ls.mu.Lock()
		ls.requests = append(ls.requests, req)
		ls.mu.Unlock()

		text, status := fn(req)
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": text})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"translatedText": text})
	})
	mux.HandleFunc("GET /languages", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"code":"en","name":"English"},{"code":"es","name":"Spanish"}]`))
	})
	ls.server = httptest.NewServer(mux)
	ls.URL = ls.server.URL
	t.Cleanup(ls.server.Close)
	return ls
}

// Requests returns the captured translation requests.
func (ls *LibreTranslateServer) Requests() []TranslateRequest {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return append([]TranslateRequest(nil), ls.requests...)
}

// Echo translates by prefixing the target code, e.g. "[es] hello".
func Echo(req TranslateRequest) (string, int) {
	return "[" + req.Target + "] " + req.Q, http.StatusOK
}
