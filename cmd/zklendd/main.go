package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zklend/config"
	"zklend/core/events"
	"zklend/crypto"
	"zklend/gateway"
	"zklend/native/governance"
	"zklend/native/lending"
	"zklend/observability/logging"
	"zklend/state"
	"zklend/storage"
)

func main() {
	var (
		configPath = flag.String("config", "./config.toml", "path to the TOML configuration file")
		env        = flag.String("env", "", "deployment environment label attached to log lines")
	)
	flag.Parse()

	log := logging.Setup("zklendd", *env)
	if err := run(*configPath, log); err != nil {
		log.Error("node stopped", "err", err)
		os.Exit(1)
	}
}

func run(configPath string, log *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open database at %s: %w", cfg.DataDir, err)
	}
	defer db.Close()

	manager := state.NewManager(db)

	lendingEscrow := crypto.ModuleAddress("lending-pool")
	collateralEscrow := crypto.ModuleAddress("collateral-pool")
	collateralAsset := crypto.ModuleAddress("collateral-asset")

	lendingEngine := lending.NewEngine(lendingEscrow, collateralEscrow, cfg.Lending)
	lendingEngine.SetState(manager)
	lendingEngine.SetTransfer(manager)
	lendingEngine.SetPoolID(cfg.PoolID)
	lendingEngine.SetCollateralAsset(collateralAsset)
	lendingEngine.SetEmitter(&logEmitter{log: log})

	govEngine := governance.NewEngine()
	govEngine.SetState(manager)
	govEngine.SetRoster(manager.InstitutionalRoster(cfg.PoolID))
	govEngine.SetEmitter(&logEmitter{log: log})

	if err := applyGenesis(cfg, manager, lendingEngine, lendingEscrow, log); err != nil {
		return fmt.Errorf("apply genesis: %w", err)
	}

	server := gateway.NewServer(lendingEngine, govEngine, manager, cfg.PoolID, log)
	httpServer := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("gateway listening", "addr", cfg.ListenAddress, "pool", cfg.PoolID)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

// applyGenesis initialises the protocol singletons and seeds the configured
// records the first time the node starts against an empty store. A store that
// already holds protocol state is left untouched.
func applyGenesis(cfg config.Config, manager *state.Manager, engine *lending.Engine, lendingEscrow crypto.Address, log *slog.Logger) error {
	existing, err := manager.ProtocolState()
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	protocol, _, err := engine.Initialize()
	if err != nil {
		return err
	}

	if cfg.Genesis.InitialLiquidity > 0 {
		protocol.TotalLiquidity = cfg.Genesis.InitialLiquidity
		if err := manager.PutProtocolState(protocol); err != nil {
			return err
		}
		liquidity := new(big.Int).SetUint64(cfg.Genesis.InitialLiquidity)
		if err := manager.Mint(lendingEscrow, liquidity); err != nil {
			return err
		}
	}

	if err := manager.PutLendingPool(cfg.PoolID, &lending.LendingPool{
		PoolAuthority:    lendingEscrow,
		TotalLiquidity:   cfg.Genesis.InitialLiquidity,
		BaseInterestRate: cfg.Lending.BaseInterestRate,
	}); err != nil {
		return err
	}

	if len(cfg.Genesis.InstitutionalWhitelist) > 0 {
		whitelist := make([]crypto.Address, 0, len(cfg.Genesis.InstitutionalWhitelist))
		for _, raw := range cfg.Genesis.InstitutionalWhitelist {
			addr, err := crypto.DecodeAddress(raw)
			if err != nil {
				return fmt.Errorf("whitelist entry %q: %w", raw, err)
			}
			whitelist = append(whitelist, addr)
		}
		if err := manager.PutInstitutionalPool(cfg.PoolID, &lending.InstitutionalLendingPool{
			PoolOwner: lendingEscrow,
			Whitelist: whitelist,
		}); err != nil {
			return err
		}
	}

	for _, seed := range cfg.Genesis.Delegations {
		delegator, err := crypto.DecodeAddress(seed.Delegator)
		if err != nil {
			return fmt.Errorf("delegation delegator %q: %w", seed.Delegator, err)
		}
		delegate, err := crypto.DecodeAddress(seed.Delegate)
		if err != nil {
			return fmt.Errorf("delegation delegate %q: %w", seed.Delegate, err)
		}
		if err := manager.PutDelegation(&lending.DelegatedBorrower{
			Delegator:       delegator,
			Delegate:        delegate,
			MaxBorrowAmount: seed.MaxAmount,
		}); err != nil {
			return err
		}
	}

	log.Info("genesis applied",
		"pool", cfg.PoolID,
		"liquidity", cfg.Genesis.InitialLiquidity,
		"whitelist", len(cfg.Genesis.InstitutionalWhitelist),
		"delegations", len(cfg.Genesis.Delegations),
	)
	return nil
}

// logEmitter surfaces engine events as structured log lines.
type logEmitter struct {
	log *slog.Logger
}

func (l *logEmitter) Emit(p events.Payload) {
	if l == nil || l.log == nil || p == nil {
		return
	}
	evt := p.Event()
	args := make([]any, 0, len(evt.Attributes)*2)
	for key, value := range evt.Attributes {
		args = append(args, key, value)
	}
	l.log.With(args...).Info("ledger event", "type", evt.Type)
}
