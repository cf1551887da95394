package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"SMCSentinel/internal/collector"
	"SMCSentinel/internal/model"
	"SMCSentinel/internal/notifier"
	"SMCSentinel/internal/recorder"
)

// Notifier delivers messages with retries.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

const sendRetries = 3

// Scheduler runs the periodic analysis and answers commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  Notifier
	Recorder  recorder.Recorder
	Symbols   []string
	Ctx       context.Context

	logger zerolog.Logger

	mu          sync.Mutex
	lastSignals map[string]model.Signal
	failing     map[string]bool
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, n Notifier, rec recorder.Recorder, symbols []string, logger zerolog.Logger) *Scheduler {
	logger = logger.With().Str("component", "scheduler").Logger()
	cl := cronLogger{logger}
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds(), cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		Collector:   col,
		Notifier:    n,
		Recorder:    rec,
		Symbols:     symbols,
		Ctx:         ctx,
		logger:      logger,
		lastSignals: map[string]model.Signal{},
		failing:     map[string]bool{},
	}
}

// RestoreSignals seeds the change detector from recorded history so a restart does not
// repeat the last notification.
func (s *Scheduler) RestoreSignals() error {
	signals, err := s.Recorder.LastSignals()
	if err != nil {
		return fmt.Errorf("restore signals: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for symbol, sig := range signals {
		s.lastSignals[symbol] = sig
	}
	s.logger.Info().Int("symbols", len(signals)).Msg("restored last signals")
	return nil
}

// Register registers the analysis task.
func (s *Scheduler) Register(analysisCron string) error {
	if _, err := s.Cron.AddFunc(analysisCron, s.analysisTask); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Strs("symbols", s.Symbols).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// RunNow executes the analysis task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.analysisTask()
}

func (s *Scheduler) analysisTask() {
	s.logger.Info().Msg("running analysis task")
	for _, res := range s.Collector.AnalyzeAll(s.Ctx, s.Symbols) {
		if res.Err != nil {
			if s.markFailing(res.Symbol, true) {
				s.trySend(fmt.Sprintf("❌ %s", notifier.FormatError(res.Symbol, res.Err)))
			}
			continue
		}
		s.markFailing(res.Symbol, false)
		s.record(res.Report)

		if prev, changed := s.updateSignal(res.Symbol, res.Report.Score.Signal); changed {
			s.logger.Info().Str("symbol", res.Symbol).Str("from", string(prev)).
				Str("to", string(res.Report.Score.Signal)).Msg("signal changed")
			s.trySend(notifier.FormatSignalChange(prev, res.Report))
		}
	}
}

// updateSignal stores the latest signal and reports whether it differs from the previous one.
// The first signal for a symbol counts as a change.
func (s *Scheduler) updateSignal(symbol string, sig model.Signal) (model.Signal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, seen := s.lastSignals[symbol]
	s.lastSignals[symbol] = sig
	return prev, !seen || prev != sig
}

// markFailing records the failure state and reports whether it just flipped to failing.
func (s *Scheduler) markFailing(symbol string, failed bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	was := s.failing[symbol]
	s.failing[symbol] = failed
	return failed && !was
}

func (s *Scheduler) record(r *model.Report) {
	if _, err := s.Recorder.RecordReport(r); err != nil {
		s.logger.Error().Err(err).Str("symbol", r.Symbol).Msg("record report")
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp(s.Symbols)
	}
	// Commands in groups arrive as /cmd@BotName.
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")

	switch name {
	case "/analyze":
		symbols := s.Symbols
		if len(fields) > 1 {
			symbols = []string{strings.ToUpper(fields[1])}
		}
		return s.analyzeOnDemand(ctx, symbols)
	case "/symbols":
		return fmt.Sprintf("👀 Watching: %s", strings.Join(s.Symbols, ", "))
	default:
		return notifier.FormatHelp(s.Symbols)
	}
}

func (s *Scheduler) analyzeOnDemand(ctx context.Context, symbols []string) string {
	var parts []string
	for _, res := range s.Collector.AnalyzeAll(ctx, symbols) {
		if res.Err != nil {
			parts = append(parts, notifier.FormatError(res.Symbol, res.Err))
			continue
		}
		s.record(res.Report)
		parts = append(parts, notifier.FormatReport(res.Report))
	}
	return strings.Join(parts, "\n\n")
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		s.logger.Error().Err(err).Msg("send notification")
	}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
