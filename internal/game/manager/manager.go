package manager

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"HoldemServer/internal/auth"
	"HoldemServer/internal/game/dealer"
	"HoldemServer/internal/game/engine"
	"HoldemServer/internal/game/table"
	"HoldemServer/internal/history"
	"HoldemServer/internal/utils"
	"HoldemServer/internal/websocket"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrPlayerNotFound   = errors.New("player not found in session")
	ErrAlreadyStarted   = errors.New("session already started")
	ErrSessionFull      = errors.New("session is full")
	ErrAlreadySeated    = errors.New("name already seated in session")
	ErrNotEnoughPlayers = errors.New("need at least 2 players")
	ErrNotStarted       = errors.New("session not started")
	ErrFinished         = errors.New("session finished")
	ErrInvalidSettings  = errors.New("invalid session settings")
	ErrInvalidName      = errors.New("display name required")
)

const (
	MinPlayers = 2
	MaxPlayers = 10

	// DefaultTableName 建桌时没给名字就用它
	DefaultTableName = "Table"
)

type PlayerKind string

const (
	Human PlayerKind = "human"
	Bot   PlayerKind = "bot"
)

// ParsePlayerKind 默认是 bot
func ParsePlayerKind(s string) PlayerKind {
	if strings.EqualFold(strings.TrimSpace(s), string(Human)) {
		return Human
	}
	return Bot
}

// Settings 建桌参数
type Settings struct {
	Name          string
	MaxPlayers    int
	StartingChips int64
	SmallBlind    int64
	BigBlind      int64
}

func (s Settings) validate() error {
	switch {
	case s.MaxPlayers < MinPlayers || s.MaxPlayers > MaxPlayers:
		return fmt.Errorf("%w: max_players must be %d-%d", ErrInvalidSettings, MinPlayers, MaxPlayers)
	case s.StartingChips <= 0:
		return fmt.Errorf("%w: starting_chips must be positive", ErrInvalidSettings)
	case s.SmallBlind <= 0 || s.BigBlind < s.SmallBlind:
		return fmt.Errorf("%w: blinds must satisfy 0 < small <= big", ErrInvalidSettings)
	}
	return nil
}

// Options are the server-wide knobs shared by every session.
type Options struct {
	TurnTimeout time.Duration
	MaxStrikes  int
	LogTail     int
	LogLimit    int

	// Now and Deck are swapped in tests.
	Now  func() time.Time
	Deck func() *dealer.Deck
}

func (o *Options) defaults() {
	if o.TurnTimeout <= 0 {
		o.TurnTimeout = 30 * time.Second
	}
	if o.MaxStrikes <= 0 {
		o.MaxStrikes = 3
	}
	if o.LogTail <= 0 {
		o.LogTail = 50
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

type seat struct {
	ID   string
	Name string
	Kind PlayerKind
}

// Room 一个对局；只在 GameManager 的锁内访问
type Room struct {
	ID        string
	Name      string
	Settings  Settings
	CreatedAt time.Time

	players []seat
	seatOf  map[string]int
	eng     *engine.Engine

	started  bool
	finished bool
	winner   int

	strikes    map[string]int
	lastAction time.Time
	lastHand   *engine.HandResult
}

func (r *Room) ids() []string {
	out := make([]string, len(r.players))
	for i, p := range r.players {
		out[i] = p.ID
	}
	return out
}

func (r *Room) phaseName() string {
	switch {
	case r.finished:
		return "finished"
	case !r.started:
		return "waiting"
	}
	return r.eng.Phase().String()
}

// GameManager 管理所有对局。一把锁保护整个注册表，所有入口都是短临界区；
// 历史写入和推送在解锁之后做
type GameManager struct {
	mu     sync.Mutex
	rooms  map[string]*Room
	hub    websocket.HubInterface
	repo   history.Repo
	tokens *auth.Issuer
	opts   Options
}

// NewGameManager wires the registry. hub may be nil (no push), repo nil
// means an in-memory history.
func NewGameManager(hub websocket.HubInterface, repo history.Repo, tokens *auth.Issuer, opts Options) *GameManager {
	opts.defaults()
	if repo == nil {
		repo = history.NewMemoryRepo(history.DefaultKeep)
	}
	return &GameManager{
		rooms:  make(map[string]*Room),
		hub:    hub,
		repo:   repo,
		tokens: tokens,
		opts:   opts,
	}
}

// effects 是锁内产生、锁外执行的副作用
type effects struct {
	sessionID string
	results   []engine.HandResult
	notify    []string
	event     string
	payload   map[string]any
}

func (m *GameManager) room(id string) (*Room, error) {
	r, ok := m.rooms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return r, nil
}

// Create registers an empty, unstarted session.
func (m *GameManager) Create(s Settings) (string, error) {
	if err := s.validate(); err != nil {
		return "", err
	}
	if strings.TrimSpace(s.Name) == "" {
		s.Name = DefaultTableName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	r := &Room{
		ID:        id,
		Name:      s.Name,
		Settings:  s,
		CreatedAt: m.opts.Now(),
		seatOf:    make(map[string]int),
		strikes:   make(map[string]int),
		winner:    -1,
		eng: engine.New(engine.Config{
			SmallBlind: s.SmallBlind,
			BigBlind:   s.BigBlind,
			LogLimit:   m.opts.LogLimit,
			Deck:       m.opts.Deck,
		}),
	}
	m.rooms[id] = r
	utils.Log.Info("session created", "session", id, "name", s.Name, "max", s.MaxPlayers,
		"blinds", fmt.Sprintf("%d/%d", s.SmallBlind, s.BigBlind))
	return id, nil
}

// Summary 大厅列表的一行
type Summary struct {
	SessionID   string `json:"session_id"`
	Name        string `json:"name"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
	Phase       string `json:"phase"`
	Pot         int64  `json:"pot"`
}

func (m *GameManager) List() []Summary {
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	sort.Slice(rooms, func(i, j int) bool {
		if !rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
		}
		return rooms[i].ID < rooms[j].ID
	})
	out := make([]Summary, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, Summary{
			SessionID:   r.ID,
			Name:        r.Name,
			PlayerCount: len(r.players),
			MaxPlayers:  r.Settings.MaxPlayers,
			Phase:       r.phaseName(),
			Pot:         r.eng.Pot(),
		})
	}
	m.mu.Unlock()
	return out
}

// JoinResult 入座结果，令牌只在这里发一次
type JoinResult struct {
	PlayerID  string `json:"player_id"`
	SessionID string `json:"session_id"`
	Seat      int    `json:"seat_position"`
	Token     string `json:"auth_token"`
}

// Join seats a new player. Every seat starts with the same stack as the
// first one.
func (m *GameManager) Join(ctx context.Context, sessionID, name string, kind PlayerKind) (JoinResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return JoinResult{}, ErrInvalidName
	}

	m.mu.Lock()
	r, err := m.room(sessionID)
	if err != nil {
		m.mu.Unlock()
		return JoinResult{}, err
	}
	switch {
	case r.started:
		err = ErrAlreadyStarted
	case len(r.players) >= r.Settings.MaxPlayers:
		err = ErrSessionFull
	}
	for _, p := range r.players {
		if strings.EqualFold(p.Name, name) {
			err = fmt.Errorf("%w: %s", ErrAlreadySeated, name)
		}
	}
	if err != nil {
		m.mu.Unlock()
		return JoinResult{}, err
	}

	chips := r.Settings.StartingChips
	if seats := r.eng.Seats(); len(seats) > 0 {
		chips = seats[0].Chips
	}
	id := fmt.Sprintf("%s_%s", name, uuid.NewString())
	tok, err := m.tokens.Issue(id, sessionID)
	if err != nil {
		m.mu.Unlock()
		return JoinResult{}, err
	}

	idx := r.eng.Seat(id, name, chips)
	r.players = append(r.players, seat{ID: id, Name: name, Kind: kind})
	r.seatOf[id] = idx
	r.eng.Annotate(fmt.Sprintf("%s joins (seat %d)", name, idx))

	eff := &effects{
		sessionID: sessionID,
		notify:    r.ids(),
		event:     websocket.EventPlayerJoined,
		payload:   map[string]any{"session_id": sessionID, "player_id": id, "name": name, "seat": idx},
	}
	m.mu.Unlock()

	utils.Log.Info("player joined", "session", sessionID, "player", id, "kind", kind, "seat", idx)
	m.flush(ctx, eff)
	return JoinResult{PlayerID: id, SessionID: sessionID, Seat: idx, Token: tok}, nil
}

// Start deals the first hand.
func (m *GameManager) Start(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	r, err := m.room(sessionID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if r.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	if len(r.players) < MinPlayers {
		m.mu.Unlock()
		return ErrNotEnoughPlayers
	}

	r.started = true
	r.lastAction = m.opts.Now()
	r.eng.Annotate(fmt.Sprintf("Game started with %d players", len(r.players)))
	results := r.eng.StartNewHand()
	eff := m.settle(r, results)
	eff.event = websocket.EventGameStarted
	m.mu.Unlock()

	utils.Log.Info("session started", "session", sessionID, "players", len(r.players))
	m.flush(ctx, eff)
	return nil
}

// settle 记录结算并判断整局是否结束；调用方持有锁
func (m *GameManager) settle(r *Room, results []engine.HandResult) *effects {
	for i := range results {
		res := results[i]
		r.lastHand = &res
	}
	eff := &effects{
		sessionID: r.ID,
		results:   results,
		notify:    r.ids(),
		event:     websocket.EventStateChanged,
	}

	// 只在两手之间判断；全下的座位筹码还在底池里
	if !r.finished && r.eng.Phase() == table.Showdown && r.eng.Playable() <= 1 {
		r.finished = true
		r.winner = overallWinner(r.eng)
		if r.winner >= 0 {
			w := r.players[r.winner]
			r.eng.Annotate(fmt.Sprintf("%s wins the game", w.Name))
			eff.event = websocket.EventGameFinished
			utils.Log.Info("session finished", "session", r.ID, "winner", w.ID)
		}
	}

	eff.payload = map[string]any{
		"session_id":  r.ID,
		"phase":       r.phaseName(),
		"hand_number": r.eng.HandNumber(),
		"pot":         r.eng.Pot(),
	}
	if r.started && !r.finished && r.eng.Phase() != table.Showdown {
		eff.payload["turn"] = r.players[r.eng.Turn()].ID
	}
	return eff
}

// overallWinner is the one seat that can still play, or the biggest stack
// when nobody can.
func overallWinner(e *engine.Engine) int {
	best := -1
	for i, p := range e.Seats() {
		if p.Chips > 0 && !e.Ejected(i) {
			return i
		}
		if best < 0 || p.Chips > e.Seats()[best].Chips {
			best = i
		}
	}
	return best
}

// flush 在锁外写历史、推送状态变化；失败只记日志
func (m *GameManager) flush(ctx context.Context, eff *effects) {
	if eff == nil {
		return
	}
	for _, res := range eff.results {
		rec := history.Record{SessionID: eff.sessionID, HandResult: res, At: m.opts.Now()}
		if err := m.repo.Append(ctx, rec); err != nil {
			utils.Log.Error("history append failed", "session", eff.sessionID, "hand", res.HandNumber, "err", err)
		}
		utils.Log.Info("hand settled", "session", eff.sessionID, "hand", res.HandNumber,
			"player", res.PlayerID, "amount", res.Amount, "desc", res.Description)
	}
	if m.hub != nil && len(eff.notify) > 0 && eff.event != "" {
		m.hub.BroadcastToPlayers(eff.notify, websocket.OutgoingMessage{Event: eff.event, Data: eff.payload})
	}
}

// History returns the most recent settled hands of a session.
func (m *GameManager) History(ctx context.Context, sessionID string, n int) ([]history.Record, error) {
	m.mu.Lock()
	_, err := m.room(sessionID)
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return m.repo.Recent(ctx, sessionID, n)
}
