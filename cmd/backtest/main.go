package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"SMACrossover/internal/app"
	"SMACrossover/internal/config"
	"SMACrossover/internal/notifier"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	flag.StringVar(&cfgPath, "config", cfgPath, "path to config file")
	short := flag.Int("short", 0, "override strategy.short_window")
	long := flag.Int("long", 0, "override strategy.long_window")
	csvPath := flag.String("csv", "", "override export.csv_path")
	notify := flag.Bool("notify", false, "send the report to Telegram")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if *short > 0 {
		cfg.Strategy.ShortWindow = *short
	}
	if *long > 0 {
		cfg.Strategy.LongWindow = *long
	}
	if *csvPath != "" {
		cfg.Export.CSVPath = *csvPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	rec := app.NewRecorder(cfg)
	defer rec.Close()

	r, err := app.NewRunner(cfg, rec)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := r.Run(ctx)
	if err != nil {
		log.Printf("[ERROR] backtest: %v", err)
		rec.Close()
		os.Exit(1)
	}
	report := notifier.FormatReport(res)
	log.Printf("[INFO] report:\n%s", report)

	if *notify {
		if !cfg.TelegramEnabled() {
			log.Println("[WARN] -notify set but Telegram is not configured")
			return
		}
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		if err := tn.SendWithRetry(ctx, report, 3); err != nil {
			log.Printf("[ERROR] send report: %v", err)
		}
	}
}
