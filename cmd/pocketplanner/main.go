package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/config"
	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/core"
	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/identity"
	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/ledger"
	applog "github.com/Karpemurli/Pocket-Planner-Management-System/internal/log"
	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/report"
	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/salary"
	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/services"
	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/store"
	memstore "github.com/Karpemurli/Pocket-Planner-Management-System/internal/store/memory"
	sqlstore "github.com/Karpemurli/Pocket-Planner-Management-System/internal/store/sqlite"
)

func main() {
	// Load .env file for local development (ignore errors in production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	logger.Info("Starting pocketplanner", applog.FieldBackend, cfg.StoreBackend)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx := context.Background()

	var kv store.KV
	switch cfg.StoreBackend {
	case "sqlite":
		sq, err := sqlstore.New(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open sqlite store", applog.FieldError, err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer sq.Close()
		kv = sq
	default:
		kv = memstore.New()
	}

	salaries := salary.New(kv)
	transactions := ledger.New(kv)
	engine := report.New(salaries, transactions)
	finance := services.NewFinanceService(salaries, transactions, engine, cfg.CacheSize, cfg.CacheTTL)
	resolver := identity.New(kv)

	// Absorb any leftover legacy salary keys before serving reads
	if err := salaries.MigrateLegacyKeys(ctx); err != nil {
		logger.Error("Legacy salary migration failed", applog.FieldError, err)
		os.Exit(1)
	}

	user, err := resolver.Current(ctx)
	if err != nil {
		if errors.Is(err, core.ErrNoCurrentUser) {
			logger.Info("No user signed in")
			fmt.Println("No user is signed in. Register a user first.")
			return
		}
		logger.Error("Failed to resolve current user", applog.FieldError, err)
		os.Exit(1)
	}

	now := time.Now()
	overview, err := finance.MonthOverview(ctx, user.Email, now.Year(), int(now.Month()))
	if err != nil {
		logger.Error("Failed to build month overview", applog.FieldError, err, applog.FieldOwner, user.Email)
		os.Exit(1)
	}

	fmt.Printf("%s (%s)\n", user.Username, user.Email)
	fmt.Printf("Period: %s\n", core.PeriodOf(overview.Year, overview.Month))
	fmt.Printf("Salary:         %s\n", core.FormatAmount(overview.Salary))
	fmt.Printf("Total expenses: %s (%d transactions)\n", core.FormatAmount(overview.TotalExpenses), overview.Count)
	fmt.Printf("Balance:        %s\n", core.FormatAmount(overview.Balance))
	fmt.Printf("Top category:   %s (%s)\n", overview.TopCategory.Name, core.FormatAmount(overview.TopCategory.Amount))
}
