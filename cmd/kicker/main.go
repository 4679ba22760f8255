package main

import (
	"context"
	"flag"
	"log"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/sync/errgroup"

	"KickRelay/internal/chain"
	"KickRelay/internal/config"
	"KickRelay/internal/game"
	"KickRelay/internal/notifier"
	"KickRelay/internal/pending"
	"KickRelay/internal/poller"
	"KickRelay/internal/receipt"
	"KickRelay/internal/recorder"
	"KickRelay/internal/scheduler"
	"KickRelay/internal/server"
	"KickRelay/internal/submitter"
	"KickRelay/internal/telemetry"
	"KickRelay/internal/wallet"
)

const sessionCheckInterval = 15 * time.Second

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	flag.StringVar(&cfgPath, "config", cfgPath, "path to the YAML config file")
	interactive := flag.Bool("interactive", false, "kick from the terminal")
	flag.Parse()

	log.Println("[INFO] KickRelay starting...")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		log.Printf("[WARN] tracing disabled: %v", err)
	}
	defer shutdownTracing(context.Background())

	client, err := ethclient.DialContext(ctx, cfg.Chain.RPCURL)
	if err != nil {
		log.Fatalf("[FATAL] dial rpc: %v", err)
	}
	defer client.Close()

	contractAddr := common.HexToAddress(cfg.Chain.ContractAddress)
	contract, err := chain.NewContract(contractAddr, client)
	if err != nil {
		log.Fatalf("[FATAL] init contract: %v", err)
	}

	w, err := wallet.FromHex(cfg.Wallet.PrivateKey)
	if err != nil {
		log.Fatalf("[FATAL] load wallet: %v", err)
	}
	log.Printf("[INFO] player address: %s", w.Address().Hex())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	store, err := pending.NewStore(cfg.State.PendingFile)
	if err != nil {
		log.Fatalf("[FATAL] load pending kick: %v", err)
	}

	sub := submitter.New(
		submitter.NewBoundStrategy(contractAddr, contract.ABI(), client, w),
		submitter.NewRawStrategy(contractAddr, contract, client, w, cfg.Engine.FallbackGasLimit),
	)

	engine := game.New(game.Config{
		ChainID:      big.NewInt(cfg.Chain.ChainID),
		FeeSymbol:    cfg.Chain.FeeSymbol,
		ExplorerURL:  cfg.Chain.ExplorerURL,
		ResultDwell:  cfg.Engine.ResultDwell,
		DebugLogSize: cfg.Engine.DebugLogSize,
	}, game.Deps{
		Player:    w.Address(),
		Reader:    contract,
		Submitter: sub,
		Watcher:   receipt.NewWatcher(client, cfg.Engine.ReceiptInterval, cfg.Engine.ReceiptTimeout),
		Extractor: contract,
		Poller:    poller.New(contract, cfg.Engine.PollInterval, cfg.Engine.PollTimeout),
		Recorder:  rec,
		Pending:   store,
	})
	defer engine.Close()

	syncSession(ctx, client, w, engine)

	var tn *notifier.TelegramNotifier
	var sender scheduler.Sender
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	}

	sched := scheduler.NewScheduler(ctx, engine, sender, rec)
	if err := sched.RegisterAll(cfg.Schedule.FeeCron, cfg.Schedule.StatsCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.RefreshNow()
	sched.Start()
	defer sched.Stop()

	if err := engine.Resume(); err != nil {
		log.Printf("[WARN] resume pending kick: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticker := time.NewTicker(sessionCheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				syncSession(gctx, client, w, engine)
			}
		}
	})
	if tn != nil {
		g.Go(func() error {
			tn.StartPolling(gctx, sched.HandleCommand)
			return nil
		})
		log.Println("[INFO] Telegram polling started")
	}
	if cfg.HTTP.ListenAddr != "" {
		srv := server.New(engine, rec, cfg.HTTP.JWTSecret)
		g.Go(func() error {
			return srv.ListenAndServe(gctx, cfg.HTTP.ListenAddr)
		})
	}

	if *interactive {
		runInteractive(gctx, engine)
		stop()
	} else {
		log.Println("[INFO] KickRelay is running. Press Ctrl+C to stop.")
	}

	if err := g.Wait(); err != nil {
		log.Printf("[ERROR] %v", err)
	}
	log.Println("[INFO] KickRelay stopped")
}

// syncSession re-reads the provider chain id and hands the readiness value
// to the engine. A failed read marks the session as syncing.
func syncSession(ctx context.Context, client *ethclient.Client, w *wallet.Wallet, engine *game.Engine) {
	id, err := client.ChainID(ctx)
	if err != nil {
		log.Printf("[WARN] read chain id: %v", err)
		w.Attach(nil)
	} else {
		w.Attach(id)
	}
	engine.UpdateSession(w.Session())
}
