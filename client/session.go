package client

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/collabboard/collabboard/internal/logx"
)

// Conn is the slice of *websocket.Conn the session uses. Tests inject an
// in-memory implementation.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Dialer opens one physical connection to a room endpoint.
type Dialer func(url string) (Conn, error)

func gorillaDial(url string) (Conn, error) {
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return c, nil
}

type SessionConfig struct {
	Dialer   Dialer       // defaults to gorilla/websocket
	OnReady  func()       // fired exactly once per physical connection
	OnFrame  func([]byte) // every complete inbound frame, arrival order
	OnStatus func(Status) // every status transition
}

// Session owns one duplex connection to a room endpoint and keeps it alive:
// reconnect with bounded backoff on unexpected closure, a join handshake
// sent at most once per physical connection, and silent drop of sends while
// not open. Callers needing delivery guarantees must resend after a
// reconnect themselves; the session never queues.
type Session struct {
	url      string
	dial     Dialer
	after    func(time.Duration, func()) *time.Timer
	onReady  func()
	onFrame  func([]byte)
	onStatus func(Status)

	mu     sync.Mutex
	state  connState
	conn   Conn
	gen    uint64
	timer  *time.Timer
	closed bool
}

func NewSession(url string, cfg SessionConfig) *Session {
	dial := cfg.Dialer
	if dial == nil {
		dial = gorillaDial
	}
	return &Session{
		url:      url,
		dial:     dial,
		after:    time.AfterFunc,
		onReady:  cfg.OnReady,
		onFrame:  cfg.OnFrame,
		onStatus: cfg.OnStatus,
		state:    newConnState(),
	}
}

// Open begins connecting. It returns immediately; OnStatus and OnReady
// report progress.
func (s *Session) Open() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.state = newConnState()
	s.mu.Unlock()

	s.notify(StatusConnecting)
	go s.attempt()
}

func (s *Session) attempt() {
	conn, err := s.dial(s.url)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		if err == nil {
			conn.Close()
		}
		return
	}

	if err != nil {
		st, eff := transition(s.state, evDialFail)
		s.state = st
		s.scheduleLocked(eff.reconnectIn)
		s.mu.Unlock()
		logx.L.Warn("dial failed",
			zap.String("url", s.url),
			zap.Duration("retry_in", eff.reconnectIn),
			zap.Error(err))
		return
	}

	st, eff := transition(s.state, evDialOK)
	s.state = st
	s.conn = conn
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	if eff.notifyStatus {
		s.notify(StatusOpen)
	}
	if eff.ready && s.onReady != nil {
		s.onReady()
	}
	go s.readLoop(conn, gen)
}

// scheduleLocked arms the reconnect timer, replacing any pending one so at
// most one dial attempt is ever outstanding.
func (s *Session) scheduleLocked(d time.Duration) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = s.after(d, s.retry)
}

func (s *Session) retry() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.attempt()
}

func (s *Session) readLoop(conn Conn, gen uint64) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			s.lost(conn, gen, err)
			return
		}
		if !s.current(gen) {
			return
		}
		if s.onFrame != nil {
			s.onFrame(msg)
		}
	}
}

func (s *Session) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.gen == gen
}

func (s *Session) lost(conn Conn, gen uint64, err error) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.conn = nil
	st, eff := transition(s.state, evConnLost)
	s.state = st
	s.scheduleLocked(eff.reconnectIn)
	s.mu.Unlock()

	conn.Close()
	logx.L.Info("connection lost",
		zap.String("url", s.url),
		zap.Duration("retry_in", eff.reconnectIn),
		zap.Error(err))
	if eff.notifyStatus {
		s.notify(StatusConnecting)
	}
}

// Send writes one text frame. If the connection is not open the frame is
// dropped; there is no retry queue.
func (s *Session) Send(frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.status != StatusOpen || s.conn == nil {
		logx.L.Debug("send dropped, not connected", zap.String("url", s.url))
		return
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		logx.L.Warn("send failed", zap.Error(err))
	}
}

// Join sends the join handshake if it has not yet been sent on the current
// physical connection. Reports whether the frame went out; after a
// reconnect the handshake is owed again.
func (s *Session) Join(frame []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state.status != StatusOpen || s.state.joined || s.conn == nil {
		return false
	}
	s.state.joined = true
	if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		logx.L.Warn("join send failed", zap.Error(err))
	}
	return true
}

// Close tears the session down: the pending reconnect timer is cancelled,
// the connection is closed, and no further frames are delivered. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	st, eff := transition(s.state, evCloseRequested)
	s.state = st
	if eff.cancelTimer && s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	s.notify(StatusClosed)
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.status
}

func (s *Session) notify(st Status) {
	if s.onStatus != nil {
		s.onStatus(st)
	}
}
