package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teraju-hris/leave-backend-go/internal/config"
	appHTTP "github.com/teraju-hris/leave-backend-go/internal/handler/http"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/cron"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/database"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/jwt"
	"github.com/teraju-hris/leave-backend-go/internal/repository/postgresql"
	"github.com/teraju-hris/leave-backend-go/internal/service/file"
	holidayService "github.com/teraju-hris/leave-backend-go/internal/service/holiday"
	"github.com/teraju-hris/leave-backend-go/internal/service/leave"
	workerService "github.com/teraju-hris/leave-backend-go/internal/service/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	// Validate already checked both
	level, _ := cfg.SlogLevel()
	loc, _ := cfg.Location()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolOptions{MaxConns: cfg.Database.MaxConns})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(context.Background()); err != nil {
			slog.Error("Error running migrations", "error", err)
			os.Exit(1)
		}
	}

	now := func() time.Time { return time.Now().In(loc) }

	transactor := postgresql.NewTransactor(db)
	workerRepo := postgresql.NewWorkerRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	tenurePolicyRepo := postgresql.NewTenurePolicyRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	fileService := file.NewFileService(cfg.Attachment.MaxBytes)

	dayCalculator := leave.NewDayCalculator()
	balanceCalculator := leave.NewBalanceCalculator(leave.NewPolicyResolver())
	balanceService := leave.NewBalanceService(leaveTypeRepo, tenurePolicyRepo, leaveBalanceRepo, balanceCalculator)
	requestService := leave.NewRequestService(leaveRequestRepo, holidayRepo, balanceService, dayCalculator)
	leaveService := leave.NewLeaveService(
		transactor,
		leaveTypeRepo,
		tenurePolicyRepo,
		leaveRequestRepo,
		workerRepo,
		balanceService,
		requestService,
		dayCalculator,
		now,
	)
	workerSvc := workerService.NewWorkerService(transactor, workerRepo, balanceService, now)
	holidaySvc := holidayService.NewHolidayService(holidayRepo)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AllowedOrigins: cfg.App.CORSAllowedOrigins,
			Env:            cfg.App.Env,
			LogLevel:       level,
		},
		JWTService,
		appHTTP.NewWorkerHandler(workerSvc),
		appHTTP.NewLeaveHandler(leaveService, fileService),
		appHTTP.NewHolidayHandler(holidaySvc, now),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := cron.NewScheduler()
	cron.NewBalanceJobs(transactor, workerRepo, balanceService, now).
		RegisterJobs(scheduler, cfg.Cron.BalanceRefreshInterval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}
