package recognizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"subgen/internal/logging"
	"subgen/internal/services"
)

// eofMessage is matched literally by the Vosk server.
const eofMessage = `{"eof" : 1}`

const defaultResponseTimeout = 2 * time.Minute

// WebsocketOptions configures a WebsocketEngine.
type WebsocketOptions struct {
	URL         string
	DialTimeout time.Duration
	// ResponseTimeout bounds the wait for each server reply.
	ResponseTimeout time.Duration
	Logger          *slog.Logger
}

// WebsocketEngine opens sessions against a Vosk websocket server.
type WebsocketEngine struct {
	url             string
	dialer          *websocket.Dialer
	responseTimeout time.Duration
	logger          *slog.Logger
}

// NewWebsocket returns an engine for the Vosk server at opts.URL. No
// connection is made until a session is requested.
func NewWebsocket(opts WebsocketOptions) *WebsocketEngine {
	dialTimeout := opts.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 10 * time.Second
	}
	responseTimeout := opts.ResponseTimeout
	if responseTimeout <= 0 {
		responseTimeout = defaultResponseTimeout
	}
	return &WebsocketEngine{
		url:             opts.URL,
		dialer:          &websocket.Dialer{HandshakeTimeout: dialTimeout},
		responseTimeout: responseTimeout,
		logger:          logging.NewComponentLogger(opts.Logger, "recognizer"),
	}
}

// NewSession dials the server and sends the stream configuration.
func (e *WebsocketEngine) NewSession(ctx context.Context, sampleRate int) (Session, error) {
	conn, _, err := e.dialer.DialContext(ctx, e.url, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrRecognizer, "recognize", "dial", e.url, err)
	}
	config := fmt.Sprintf(`{"config":{"sample_rate":%d,"words":1}}`, sampleRate)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(config)); err != nil {
		_ = conn.Close()
		return nil, services.Wrap(services.ErrRecognizer, "recognize", "configure", "", err)
	}
	logging.WithContext(ctx, e.logger).Debug("recognizer session opened",
		logging.String("url", e.url),
		logging.Int("sample_rate", sampleRate),
	)
	return &websocketSession{conn: conn, timeout: e.responseTimeout}, nil
}

// Check dials the server and closes the connection immediately.
func (e *WebsocketEngine) Check(ctx context.Context) error {
	conn, _, err := e.dialer.DialContext(ctx, e.url, nil)
	if err != nil {
		return services.Wrap(services.ErrRecognizer, "recognize", "dial", e.url, err)
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return conn.Close()
}

// Close is a no-op; sessions own their connections.
func (e *WebsocketEngine) Close() error {
	return nil
}

type websocketSession struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	timeout time.Duration
	partial Partial
	final   Final
	flushed bool
	closed  bool
}

func (s *websocketSession) Feed(ctx context.Context, chunk []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.flushed {
		return false, services.Wrap(services.ErrRecognizer, "recognize", "feed", "session already finished", nil)
	}
	reply, err := s.roundTrip(ctx, websocket.BinaryMessage, chunk)
	if err != nil {
		return false, services.Wrap(services.ErrRecognizer, "recognize", "feed", "", err)
	}
	partial, final, isFinal, err := decodeResult(reply)
	if err != nil {
		return false, services.Wrap(services.ErrRecognizer, "recognize", "feed", "", err)
	}
	if isFinal {
		s.final = final
		s.partial = Partial{}
		return true, nil
	}
	s.partial = partial
	return false, nil
}

func (s *websocketSession) Partial() (Partial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.partial, nil
}

func (s *websocketSession) Final() (Final, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.final, nil
}

func (s *websocketSession) Flush(ctx context.Context) (Final, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.flushed {
		return Final{}, services.Wrap(services.ErrRecognizer, "recognize", "flush", "session already finished", nil)
	}
	s.flushed = true
	reply, err := s.roundTrip(ctx, websocket.TextMessage, []byte(eofMessage))
	if err != nil {
		return Final{}, services.Wrap(services.ErrRecognizer, "recognize", "flush", "", err)
	}
	final, err := decodeFinal(reply)
	if err != nil {
		return Final{}, services.Wrap(services.ErrRecognizer, "recognize", "flush", "", err)
	}
	return final, nil
}

func (s *websocketSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	_ = s.conn.SetWriteDeadline(time.Now().Add(time.Second))
	_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return s.conn.Close()
}

// roundTrip writes one message and reads the server's reply. Cancelling ctx
// unblocks the pending read.
func (s *websocketSession) roundTrip(ctx context.Context, kind int, payload []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	deadline := time.Now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = s.conn.SetWriteDeadline(deadline)
	_ = s.conn.SetReadDeadline(deadline)
	stop := context.AfterFunc(ctx, func() {
		_ = s.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	if err := s.conn.WriteMessage(kind, payload); err != nil {
		return nil, err
	}
	for {
		msgType, reply, err := s.conn.ReadMessage()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, errors.Join(ctxErr, err)
			}
			return nil, err
		}
		if msgType == websocket.TextMessage {
			return reply, nil
		}
	}
}
