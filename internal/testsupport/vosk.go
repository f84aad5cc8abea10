package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

// VoskWord is one word of a scripted recognizer result.
type VoskWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Conf  float64 `json:"conf"`
}

// VoskFinal renders a final result carrying words, the way the Vosk server does.
func VoskFinal(words ...VoskWord) string {
	texts := make([]string, 0, len(words))
	for _, w := range words {
		texts = append(texts, w.Word)
	}
	payload := struct {
		Result []VoskWord `json:"result,omitempty"`
		Text   string     `json:"text"`
	}{Result: words, Text: strings.Join(texts, " ")}
	data, _ := json.Marshal(payload)
	return string(data)
}

// VoskText renders a final result with text but no word timings.
func VoskText(text string) string {
	data, _ := json.Marshal(map[string]string{"text": text})
	return string(data)
}

// VoskScript controls how a VoskServer answers.
type VoskScript struct {
	// Finals maps the 1-based binary frame number to the final result sent in
	// reply. Frames without an entry get a partial result.
	Finals map[int]string
	// Flush is the reply to the end-of-stream message. Defaults to an empty final.
	Flush string
	// DropAfter closes the connection without replying once this many frames
	// arrived. Zero disables it.
	DropAfter int
}

// VoskServer is an in-process stand-in for a Vosk websocket server.
type VoskServer struct {
	URL    string
	server *httptest.Server
	script VoskScript

	mu       sync.Mutex
	frames   int
	bytes    int
	config   string
	sessions int
	flushed  bool
}

// NewVoskServer starts a scripted recognizer server and registers cleanup.
func NewVoskServer(t testing.TB, script VoskScript) *VoskServer {
	t.Helper()

	if script.Flush == "" {
		script.Flush = VoskText("")
	}
	vs := &VoskServer{script: script}
	upgrader := websocket.Upgrader{}
	vs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		vs.mu.Lock()
		vs.sessions++
		vs.mu.Unlock()
		vs.serve(conn)
	}))
	vs.URL = "ws" + strings.TrimPrefix(vs.server.URL, "http")
	t.Cleanup(vs.server.Close)
	return vs
}

func (vs *VoskServer) serve(conn *websocket.Conn) {
	for {
		kind, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if kind == websocket.TextMessage {
			text := string(message)
			switch {
			case strings.Contains(text, `"config"`):
				vs.mu.Lock()
				vs.config = text
				vs.mu.Unlock()
			case strings.Contains(text, `"eof"`):
				vs.mu.Lock()
				vs.flushed = true
				vs.mu.Unlock()
				if err := conn.WriteMessage(websocket.TextMessage, []byte(vs.script.Flush)); err != nil {
					return
				}
			}
			continue
		}

		vs.mu.Lock()
		vs.frames++
		vs.bytes += len(message)
		frame := vs.frames
		vs.mu.Unlock()

		if vs.script.DropAfter > 0 && frame >= vs.script.DropAfter {
			return
		}
		reply, ok := vs.script.Finals[frame]
		if !ok {
			reply = `{"partial" : ""}`
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
			return
		}
	}
}

// Frames returns the number of audio frames received across all sessions.
func (vs *VoskServer) Frames() int {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.frames
}

// Bytes returns the number of audio bytes received across all sessions.
func (vs *VoskServer) Bytes() int {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.bytes
}

// Config returns the last configuration message received.
func (vs *VoskServer) Config() string {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.config
}

// Sessions returns the number of websocket connections accepted.
func (vs *VoskServer) Sessions() int {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.sessions
}

// Flushed reports whether an end-of-stream message was received.
func (vs *VoskServer) Flushed() bool {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.flushed
}
