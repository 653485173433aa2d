package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	appbilling "github.com/retailpos/backend/internal/application/billing"
	appcatalog "github.com/retailpos/backend/internal/application/catalog"
	"github.com/retailpos/backend/internal/domain/billing"
	"github.com/retailpos/backend/internal/infrastructure/config"
	"github.com/retailpos/backend/internal/infrastructure/ledger"
	"github.com/retailpos/backend/internal/infrastructure/logger"
	"github.com/retailpos/backend/internal/infrastructure/persistence"
	"github.com/retailpos/backend/internal/infrastructure/syncdoc"
	"go.uber.org/zap"
)

// The terminal binary is an interactive billing screen for one store.
// It pairs with another terminal through the sync relay and checks out
// against either a remote backend (staging.remote_url) or a local
// database.
func main() {
	var (
		storeIDArg string
		sessionID  string
	)
	flag.StringVar(&storeIDArg, "store", "", "Store ID (required)")
	flag.StringVar(&sessionID, "join", "", "Existing sync session to join as sender")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: "stderr",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	storeID, err := uuid.Parse(storeIDArg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "A valid -store UUID is required")
		os.Exit(1)
	}

	gateway, resolver, cleanup, err := buildBackend(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize backend", zap.Error(err))
	}
	defer cleanup()

	store := buildSyncStore(cfg, log)
	relay := appbilling.NewSyncRelay(store, log,
		appbilling.WithGraceWindow(cfg.Sync.GraceWindow))
	orchestrator := appbilling.NewCheckoutOrchestrator(gateway, log)
	controller := appbilling.NewSessionController(storeID, resolver, relay, orchestrator, log)
	defer controller.Dispose()

	ctx := context.Background()

	if sessionID != "" {
		session, err := controller.StartSync(ctx, sessionID)
		if err != nil {
			log.Fatal("Failed to join session", zap.Error(err))
		}
		fmt.Printf("joined session %s as %s\n", session.SessionID, session.Role)
	}

	fmt.Println("commands: scan <barcode> | qty <product-id> <n> | remove <product-id> | clear |")
	fmt.Println("          sync [session-id] | stop | state | checkout <cash|card|upi> | quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "scan":
			if len(fields) != 2 {
				fmt.Println("usage: scan <barcode>")
				continue
			}
			report(controller.ScanBarcode(ctx, fields[1]))

		case "qty":
			if len(fields) != 3 {
				fmt.Println("usage: qty <product-id> <n>")
				continue
			}
			productID, err := uuid.Parse(fields[1])
			if err != nil {
				fmt.Println("invalid product id")
				continue
			}
			qty, err := strconv.ParseInt(fields[2], 10, 64)
			if err != nil {
				fmt.Println("invalid quantity")
				continue
			}
			report(controller.UpdateQuantity(productID, qty))

		case "remove":
			if len(fields) != 2 {
				fmt.Println("usage: remove <product-id>")
				continue
			}
			productID, err := uuid.Parse(fields[1])
			if err != nil {
				fmt.Println("invalid product id")
				continue
			}
			report(controller.RemoveLine(productID))

		case "clear":
			report(controller.Clear())

		case "sync":
			joinID := ""
			if len(fields) > 1 {
				joinID = fields[1]
			}
			session, err := controller.StartSync(ctx, joinID)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Printf("session %s role %s\n", session.SessionID, session.Role)

		case "stop":
			controller.StopSync()
			fmt.Println("sync stopped")

		case "state":
			raw, err := json.MarshalIndent(controller.State(), "", "  ")
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println(string(raw))

		case "checkout":
			if len(fields) != 2 {
				fmt.Println("usage: checkout <cash|card|upi>")
				continue
			}
			bill, err := controller.Checkout(ctx, billing.PaymentMethod(fields[1]))
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Printf("bill %s total %s (%d lines)\n",
				bill.ID, bill.TotalAmount.StringFixed(2), len(bill.Lines))

		case "quit", "exit":
			return

		default:
			fmt.Println("unknown command:", fields[0])
		}
	}
}

func report(err error) {
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("ok")
}

// buildBackend wires the staging gateway and product resolver, remote or
// local depending on configuration
func buildBackend(cfg *config.Config, log *zap.Logger) (appbilling.StagingGateway, appbilling.ProductResolver, func(), error) {
	if cfg.Staging.RemoteURL != "" {
		gateway := ledger.NewHTTPGateway(ledger.HTTPGatewayConfig{
			BaseURL: cfg.Staging.RemoteURL,
			Timeout: cfg.Staging.Timeout,
		}, log)
		log.Info("Using remote staging backend", zap.String("url", cfg.Staging.RemoteURL))
		return gateway, gateway, func() {}, nil
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}

	storeRepo := persistence.NewGormStoreRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	stagingRepo := persistence.NewGormStagingCartRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	gateway := appbilling.NewStagingCartService(stagingRepo, productRepo, txScope, log)
	resolver := appcatalog.NewStockLedgerService(storeRepo, productRepo, log)
	log.Info("Using in-process staging backend", zap.String("database", cfg.Database.DBName))

	cleanup := func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}
	return gateway, resolver, cleanup, nil
}

// buildSyncStore connects the Redis-backed session store, falling back to
// an in-process store when Redis is unreachable. The fallback keeps the
// terminal usable; cross-device sync needs Redis.
func buildSyncStore(cfg *config.Config, log *zap.Logger) syncdoc.Store {
	store, err := syncdoc.NewRedisStore(syncdoc.RedisStoreConfig{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DocumentTTL: cfg.Sync.DocumentTTL,
	}, log)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-process sync store", zap.Error(err))
		return syncdoc.NewMemoryStore()
	}
	return store
}
