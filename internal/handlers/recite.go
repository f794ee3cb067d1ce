package handlers

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/quran-reader-api/internal/arabic"
	"github.com/quran-reader-api/internal/cache"
	"github.com/quran-reader-api/internal/logging"
	"github.com/quran-reader-api/internal/matcher"
	"github.com/quran-reader-api/internal/models"
	"github.com/quran-reader-api/internal/recitation"
	"github.com/quran-reader-api/internal/services"
)

const (
	reciteWriteWait  = 10 * time.Second
	recitePongWait   = 60 * time.Second
	recitePingPeriod = 54 * time.Second
	reciteMaxMessage = 64 * 1024
	reciteSendBuffer = 32

	// correctWordScore marks a spoken word as correct in the correction view.
	correctWordScore = 0.8
)

// Inbound recitation message types.
const (
	msgStart     = "start"
	msgResult    = "result"
	msgError     = "error"
	msgRestarted = "restarted"
	msgStop      = "stop"
	msgTarget    = "target"
)

// ReciteMessage is a client event on the recitation socket.
type ReciteMessage struct {
	Type       string `json:"type"`
	Transcript string `json:"transcript,omitempty"`
	IsFinal    bool   `json:"isFinal,omitempty"`
	Error      string `json:"error,omitempty"`
	Surah      int    `json:"surah,omitempty"`
	Ayah       int    `json:"ayah,omitempty"`
}

// WordCorrection scores one recited word against the target verse.
type WordCorrection struct {
	Expected string  `json:"expected"`
	Spoken   string  `json:"spoken"`
	Score    float64 `json:"score"`
	Correct  bool    `json:"correct"`
}

// Correction is the word-by-word comparison of a transcript with the target verse.
type Correction struct {
	SurahNumber int              `json:"surahNumber"`
	AyahNumber  int              `json:"ayahNumber"`
	Score       float64          `json:"score"`
	Words       []WordCorrection `json:"words"`
}

// ReciteEvent is a server message on the recitation socket.
type ReciteEvent struct {
	Type       string               `json:"type"` // "state", "navigate", "correction", "error"
	State      recitation.State     `json:"state,omitempty"`
	Command    recitation.Command   `json:"command,omitempty"`
	DelayMs    int64                `json:"delayMs,omitempty"`
	Reason     string               `json:"reason,omitempty"`
	Navigation *models.LocateResult `json:"navigation,omitempty"`
	Correction *Correction          `json:"correction,omitempty"`
	Error      string               `json:"error,omitempty"`
}

func stateEvent(t recitation.Transition) ReciteEvent {
	return ReciteEvent{
		Type:    "state",
		State:   t.To,
		Command: t.Command,
		DelayMs: t.Delay.Milliseconds(),
		Reason:  t.Reason,
	}
}

// ReciteHandler runs live recitation sessions over WebSocket
type ReciteHandler struct {
	locator  *services.Locator
	corpus   *services.Corpus
	scorer   matcher.PositionalScorer
	cfg      recitation.Config
	clock    cache.Clock
	tick     time.Duration
	upgrader websocket.Upgrader
}

// NewReciteHandler creates a new recitation handler. allowedOrigins follows
// the CORS configuration; "*" accepts any origin.
func NewReciteHandler(locator *services.Locator, corpus *services.Corpus, cfg recitation.Config, allowedOrigins []string) *ReciteHandler {
	return &ReciteHandler{
		locator: locator,
		corpus:  corpus,
		cfg:     cfg,
		clock:   cache.SystemClock{},
		tick:    time.Second,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(allowed, "*") {
			return true
		}
		return slices.Contains(allowed, origin)
	}
}

// Recite handles GET /recite. The session id comes from the X-Session-ID
// header or, for browsers, the "session" query parameter.
func (h *ReciteHandler) Recite(c echo.Context) error {
	sid := sessionID(c)
	if sid == "" {
		sid = strings.TrimSpace(c.QueryParam("session"))
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the HTTP error.
		logging.Warn("websocket upgrade failed", "err", err)
		return nil
	}

	rs := &reciteSession{
		h:         h,
		conn:      conn,
		sessionID: sid,
		machine:   recitation.NewSession(h.cfg, h.clock),
		send:      make(chan ReciteEvent, reciteSendBuffer),
		done:      make(chan struct{}),
	}
	rs.run(c.Request().Context())
	return nil
}

// RegisterRoutes registers the recitation socket
func (h *ReciteHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/recite", h.Recite)
}

type reciteSession struct {
	h         *ReciteHandler
	conn      *websocket.Conn
	sessionID string
	machine   *recitation.Session

	send chan ReciteEvent
	done chan struct{}

	// touched only by the read loop
	currentSurah int
	target       *models.VerseRef
}

func (s *reciteSession) run(ctx context.Context) {
	log := logging.With("component", "recite", "session", s.sessionID)
	log.Debug("recitation connected")

	go s.writePump()
	go s.watchdog()
	defer func() {
		close(s.done)
		s.conn.Close()
		log.Debug("recitation disconnected")
	}()

	s.conn.SetReadLimit(reciteMaxMessage)
	s.conn.SetReadDeadline(time.Now().Add(recitePongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(recitePongWait))
	})

	for {
		var msg ReciteMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("recitation socket closed", "err", err)
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(recitePongWait))
		s.handle(ctx, msg)
	}
}

func (s *reciteSession) push(ev ReciteEvent) {
	select {
	case s.send <- ev:
	case <-s.done:
	}
}

func (s *reciteSession) pushTransition(t recitation.Transition) {
	if t.Changed() {
		s.push(stateEvent(t))
	}
}

func (s *reciteSession) handle(ctx context.Context, msg ReciteMessage) {
	switch msg.Type {
	case msgStart:
		if models.ValidSurah(msg.Surah) {
			s.currentSurah = msg.Surah
		}
		s.pushTransition(s.machine.Start())
	case msgResult:
		s.pushTransition(s.machine.Result())
		s.onTranscript(ctx, msg)
	case msgError:
		s.pushTransition(s.machine.Error(recitation.ErrorKind(msg.Error)))
	case msgRestarted:
		s.pushTransition(s.machine.Restarted())
	case msgStop:
		s.pushTransition(s.machine.Stop())
	case msgTarget:
		if !models.ValidSurah(msg.Surah) || msg.Ayah < 1 {
			s.push(ReciteEvent{Type: "error", Error: "target must name a valid surah and ayah"})
			return
		}
		s.currentSurah = msg.Surah
		s.target = &models.VerseRef{Surah: msg.Surah, Ayah: msg.Ayah}
	default:
		s.push(ReciteEvent{Type: "error", Error: "unknown message type " + msg.Type})
	}
}

func (s *reciteSession) onTranscript(ctx context.Context, msg ReciteMessage) {
	text := strings.TrimSpace(msg.Transcript)
	if text == "" {
		return
	}

	if s.target != nil {
		if corr, ok := s.correct(ctx, *s.target, text); ok {
			s.push(ReciteEvent{Type: "correction", Correction: corr})
		}
	}

	if !msg.IsFinal {
		return
	}
	res, err := s.h.locator.Locate(ctx, s.sessionID, models.LocateRequest{Text: text, CurrentSurah: s.currentSurah})
	if err != nil {
		logging.Warn("recitation locate failed", "session", s.sessionID, "err", err)
		return
	}
	if res.Kind == models.LocateNone {
		return
	}
	if res.Navigates() {
		s.currentSurah = res.SurahNumber
		s.target = &models.VerseRef{Surah: res.SurahNumber, Ayah: res.AyahNumber}
	}
	s.push(ReciteEvent{Type: "navigate", Navigation: &res})
}

func (s *reciteSession) correct(ctx context.Context, ref models.VerseRef, spoken string) (*Correction, bool) {
	ch, err := s.h.corpus.Load(ctx, ref.Surah)
	if err != nil {
		logging.Warn("correction chapter unavailable", "surah", ref.Surah, "err", err)
		return nil, false
	}
	idx := slices.IndexFunc(ch.Verses, func(v models.Verse) bool { return v.NumberInSurah == ref.Ayah })
	if idx < 0 {
		return nil, false
	}
	expected := ch.Verses[idx].Text

	scores := s.h.scorer.WordScores(expected, spoken)
	expWords := arabic.Tokenize(expected)
	spkWords := arabic.Tokenize(spoken)
	words := make([]WordCorrection, len(scores))
	for i, score := range scores {
		words[i] = WordCorrection{
			Expected: expWords[i],
			Spoken:   spkWords[i],
			Score:    score,
			Correct:  score >= correctWordScore,
		}
	}
	return &Correction{
		SurahNumber: ref.Surah,
		AyahNumber:  ref.Ayah,
		Score:       s.h.scorer.Score(expected, spoken),
		Words:       words,
	}, true
}

func (s *reciteSession) watchdog() {
	ticker := time.NewTicker(s.h.tick)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.pushTransition(s.machine.Tick(s.h.clock.Now()))
		}
	}
}

func (s *reciteSession) writePump() {
	ticker := time.NewTicker(recitePingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(reciteWriteWait))
			if err := s.conn.WriteJSON(ev); err != nil {
				s.conn.Close()
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(reciteWriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.conn.Close()
				return
			}
		}
	}
}
