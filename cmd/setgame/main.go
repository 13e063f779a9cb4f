package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vctt94/bisonbotkit/logging"
	"github.com/vctt94/bisonbotkit/utils"

	"github.com/gmoalemm/setgame/pkg/set"
	"github.com/gmoalemm/setgame/pkg/ui"
)

func main() {
	var (
		datadir       string
		debugLevel    string
		players       int
		humans        int
		deckSize      int
		tableSize     int
		featureSize   int
		turnTimeoutMs int
		warningMs     int
		pointMs       int
		penaltyMs     int
		tableDelayMs  int
		hints         bool
		seed          int64
		headless      bool
	)
	flag.StringVar(&datadir, "datadir", "", "Directory for logs (defaults to the app data dir)")
	flag.StringVar(&debugLevel, "debuglevel", "info", "Logging level: trace, debug, info, warn, error")
	flag.IntVar(&players, "players", 2, "Number of players")
	flag.IntVar(&humans, "humans", 2, "Number of human players; the rest are bots")
	flag.IntVar(&deckSize, "decksize", 81, "Number of distinct cards")
	flag.IntVar(&tableSize, "tablesize", 12, "Number of table slots")
	flag.IntVar(&featureSize, "featuresize", 3, "Cards per legal set")
	flag.IntVar(&turnTimeoutMs, "turntimeoutms", 60000, "Round timer in ms (>0 countdown, 0 elapsed, <0 none)")
	flag.IntVar(&warningMs, "turntimeoutwarningms", 5000, "Countdown warning threshold in ms")
	flag.IntVar(&pointMs, "pointfreezems", 1000, "Freeze after a legal set in ms")
	flag.IntVar(&penaltyMs, "penaltyfreezems", 3000, "Freeze after an illegal set in ms")
	flag.IntVar(&tableDelayMs, "tabledelayms", 100, "Per-card animation delay in ms")
	flag.BoolVar(&hints, "hints", false, "Log the legal sets on the table once after each deal or accepted set")
	flag.Int64Var(&seed, "seed", 0, "Deterministic RNG seed for shuffles (0 = random)")
	flag.BoolVar(&headless, "headless", false, "Run without the terminal UI (bots only)")
	flag.Parse()

	if datadir == "" {
		datadir = utils.AppDataDir("setgame", false)
	}
	logDir := filepath.Join(datadir, "logs")
	if err := os.MkdirAll(logDir, 0700); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory: %v\n", err)
		os.Exit(1)
	}

	logBackend, err := logging.NewLogBackend(logging.LogConfig{
		LogFile:     filepath.Join(logDir, "setgame.log"),
		DebugLevel:  debugLevel,
		MaxLogFiles: 5,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	cfg := set.Config{
		Players:            players,
		Humans:             humans,
		DeckSize:           deckSize,
		TableSize:          tableSize,
		FeatureSize:        featureSize,
		TurnTimeout:        time.Duration(turnTimeoutMs) * time.Millisecond,
		TurnTimeoutWarning: time.Duration(warningMs) * time.Millisecond,
		PointFreeze:        time.Duration(pointMs) * time.Millisecond,
		PenaltyFreeze:      time.Duration(penaltyMs) * time.Millisecond,
		TableDelay:         time.Duration(tableDelayMs) * time.Millisecond,
		Hints:              hints,
		Seed:               seed,
	}
	if headless {
		cfg.Humans = 0
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	oracle := set.NewOracle(cfg.FeatureSize, cfg.DeckSize)
	logUI := set.NewLogUI(logBackend.Logger("UI"))
	quit := make(chan struct{})

	var (
		sink   set.UI
		events chan set.GameEvent
	)
	if headless {
		sink = logUI
	} else {
		events = make(chan set.GameEvent, 256)
		sink = set.MultiUI{logUI, set.NewEventUI(events)}
	}

	table := set.NewTable(set.TableConfig{
		Players:     cfg.Players,
		DeckSize:    cfg.DeckSize,
		TableSize:   cfg.TableSize,
		FeatureSize: cfg.FeatureSize,
		TableDelay:  cfg.TableDelay,
		Log:         logBackend.Logger("TABL"),
		UI:          sink,
		Oracle:      oracle,
		Quit:        quit,
	})

	dealer := set.NewDealer(set.DealerConfig{
		Config:    cfg,
		Table:     table,
		Oracle:    oracle,
		UI:        sink,
		Log:       logBackend.Logger("DELR"),
		PlayerLog: logBackend.Logger("PLYR"),
		Quit:      quit,
	})

	if headless {
		ctx, stop := signal.NotifyContext(context.Background(),
			os.Interrupt, syscall.SIGTERM)
		defer stop()
		dealer.Run(ctx)
		return
	}

	agents := dealer.Players()
	model := ui.New(ui.Config{
		Players:   cfg.Players,
		TableSize: cfg.TableSize,
		Columns:   4,
		Keys:      ui.DefaultKeys(),
		Events:    events,
		Oracle:    oracle,
		OnKey: func(player, slot int) {
			if player < len(agents) && agents[player].Human() {
				agents[player].KeyPressed(slot)
			}
		},
		OnQuit: dealer.Terminate,
	})

	prog := tea.NewProgram(model, tea.WithAltScreen())

	done := make(chan struct{})
	go func() {
		defer close(done)
		dealer.Run(context.Background())
	}()

	if _, err := prog.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "ui error: %v\n", err)
	}

	dealer.Terminate()
	<-done
}
