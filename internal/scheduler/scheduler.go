// Package scheduler runs the periodic chain refreshes and turns engine
// snapshots and chat commands into Telegram traffic.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"

	"KickRelay/internal/apperr"
	"KickRelay/internal/model"
	"KickRelay/internal/notifier"
	"KickRelay/internal/recorder"
)

// Game is the engine surface the scheduler drives.
type Game interface {
	Kick(move model.Move) error
	Snapshot() model.Snapshot
	RefreshFee(ctx context.Context) error
	RefreshStats(ctx context.Context) error
	Subscribe(fn func(model.Snapshot)) func()
}

// Sender delivers chat messages. *notifier.TelegramNotifier satisfies it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Game     Game
	Notifier Sender
	Recorder recorder.Recorder
	Ctx      context.Context

	outbox      chan string
	mu          sync.Mutex
	last        model.Snapshot
	lastOutcome uint64
	stopped     bool
	unsubscribe func()
	wg          sync.WaitGroup
}

// NewScheduler creates a new Scheduler. tn may be nil to disable notifications.
func NewScheduler(ctx context.Context, game Game, tn Sender, rec recorder.Recorder) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Game:     game,
		Notifier: tn,
		Recorder: rec,
		Ctx:      ctx,
		outbox:   make(chan string, 32),
	}
}

// RegisterAll registers the fee and stats refresh tasks.
func (s *Scheduler) RegisterAll(feeCron, statsCron string) error {
	if _, err := s.Cron.AddFunc(feeCron, s.refreshFee); err != nil {
		return fmt.Errorf("register fee task: %w", err)
	}
	if _, err := s.Cron.AddFunc(statsCron, s.refreshStats); err != nil {
		return fmt.Errorf("register stats task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler and the notification feed.
func (s *Scheduler) Start() {
	s.mu.Lock()
	s.last = s.Game.Snapshot()
	s.mu.Unlock()
	s.unsubscribe = s.Game.Subscribe(s.onSnapshot)

	s.wg.Add(1)
	go s.drain()

	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	<-s.Cron.Stop().Done()
	s.mu.Lock()
	s.stopped = true
	close(s.outbox)
	s.mu.Unlock()
	s.wg.Wait()
	log.Println("[INFO] scheduler stopped")
}

// RefreshNow runs both refresh tasks immediately.
func (s *Scheduler) RefreshNow() {
	s.refreshFee()
	s.refreshStats()
}

func (s *Scheduler) refreshFee() {
	if err := s.Game.RefreshFee(s.Ctx); err != nil {
		log.Printf("[ERROR] fee refresh: %v", err)
	}
}

func (s *Scheduler) refreshStats() {
	if err := s.Game.RefreshStats(s.Ctx); err != nil {
		log.Printf("[ERROR] stats refresh: %v", err)
	}
}

// onSnapshot queues a message for every transaction change and new result.
func (s *Scheduler) onSnapshot(snap model.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	prev := s.last
	s.last = snap
	var msgs []string
	if snap.TxStatus != prev.TxStatus || (snap.GameState == model.StateProcessing && prev.GameState != model.StateProcessing) {
		if msg := notifier.FormatTxUpdate(snap); msg != "" {
			msgs = append(msgs, msg)
		}
	}
	if snap.GameState == model.StateResult && snap.LastOutcome != nil && snap.LastOutcome.SequenceNumber != s.lastOutcome {
		s.lastOutcome = snap.LastOutcome.SequenceNumber
		msgs = append(msgs, notifier.FormatOutcome(snap))
	}

	for _, m := range msgs {
		select {
		case s.outbox <- m:
		default:
			log.Printf("[WARN] notification dropped, outbox full")
		}
	}
}

func (s *Scheduler) drain() {
	defer s.wg.Done()
	for msg := range s.outbox {
		s.trySend(msg)
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(strings.ToLower(command))
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	// "/kick@SomeBot left" in group chats
	cmd, _, _ := strings.Cut(fields[0], "@")

	switch cmd {
	case "/kick", "kick":
		if len(fields) < 2 {
			return "Usage: /kick left|center|right"
		}
		move, err := model.ParseMove(fields[1])
		if err != nil {
			return "Usage: /kick left|center|right"
		}
		if err := s.Game.Kick(move); err != nil {
			return "⚠️ " + apperr.UserMessage(err)
		}
		return fmt.Sprintf("🥅 Kick %s requested (fee %s)", move, s.Game.Snapshot().FeeDisplay)
	case "/stats", "stats":
		return notifier.FormatStats(s.Game.Snapshot())
	case "/status", "status":
		return notifier.FormatStatus(s.Game.Snapshot())
	case "/history", "history":
		return s.history()
	case "/refresh", "refresh":
		s.RefreshNow()
		return notifier.FormatStatus(s.Game.Snapshot())
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) history() string {
	rounds, err := s.Recorder.RecentRounds(5)
	if err != nil {
		log.Printf("[ERROR] load history: %v", err)
		return "History unavailable."
	}
	if len(rounds) == 0 {
		return "No rounds recorded yet."
	}
	var b strings.Builder
	b.WriteString("📜 <b>Recent rounds</b>\n\n")
	for _, r := range rounds {
		fmt.Fprintf(&b, "#%d %s: aimed %s, keeper %s (%s)\n",
			r.SequenceNumber, strings.ToUpper(r.Result), r.PlayerMove, r.OracleMove, r.Timestamp.Format("01-02 15:04"))
	}
	return b.String()
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
