package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"SMACrossover/internal/notifier"
	"SMACrossover/internal/recorder"
	"SMACrossover/internal/runner"

	"github.com/robfig/cron/v3"
)

// Sender delivers a formatted message. *notifier.TelegramNotifier satisfies it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the periodic backtest task and chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   *runner.Runner
	Notifier Sender
	Recorder recorder.Recorder
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler. notifier may be nil, in which case
// reports are only logged.
func NewScheduler(ctx context.Context, r *runner.Runner, n Sender, rec recorder.Recorder) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   r,
		Notifier: n,
		Recorder: rec,
		Ctx:      ctx,
	}
}

// Register adds the backtest task on the given cron spec (with seconds field).
func (s *Scheduler) Register(backtestCron string) error {
	if _, err := s.Cron.AddFunc(backtestCron, s.backtestTask); err != nil {
		return fmt.Errorf("register backtest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the backtest task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.backtestTask()
}

func (s *Scheduler) backtestTask() {
	log.Println("[INFO] running backtest task")
	s.trySend(s.runReport(s.Runner))
}

func (s *Scheduler) runReport(r *runner.Runner) string {
	res, err := r.Run(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] backtest: %v", err)
		return notifier.FormatError("Backtest", err)
	}
	return notifier.FormatReport(res)
}

const helpText = "Available commands:\n" +
	"• /backtest [short long]: run the backtest now\n" +
	"• /last [n]: show recent recorded runs"

const backtestUsage = "Usage: /backtest [short long]"

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, cmd notifier.Command) string {
	switch cmd.Name {
	case "backtest":
		r := s.Runner
		switch len(cmd.Args) {
		case 0:
		case 2:
			short, err1 := strconv.Atoi(cmd.Args[0])
			long, err2 := strconv.Atoi(cmd.Args[1])
			if err1 != nil || err2 != nil {
				return backtestUsage
			}
			params := s.Runner.Engine.Params
			params.ShortWindow, params.LongWindow = short, long
			alt, err := s.Runner.WithParams(params)
			if err != nil {
				return notifier.FormatError("Backtest", err)
			}
			r = alt
		default:
			return backtestUsage
		}
		return s.runReport(r)
	case "last":
		limit := 5
		if len(cmd.Args) > 0 {
			if n, err := strconv.Atoi(cmd.Args[0]); err == nil && n > 0 {
				limit = n
			}
		}
		runs, err := s.Recorder.ListRuns(ctx, limit)
		if err != nil {
			log.Printf("[ERROR] list runs: %v", err)
			return notifier.FormatError("Listing runs", err)
		}
		return notifier.FormatRuns(runs)
	default:
		return helpText
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		log.Printf("[INFO] report:\n%s", text)
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
