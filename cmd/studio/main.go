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

	"github.com/google/uuid"

	"github.com/example/studio-booking/internal/application"
	"github.com/example/studio-booking/internal/config"
	httptransport "github.com/example/studio-booking/internal/http"
	"github.com/example/studio-booking/internal/persistence"
	"github.com/example/studio-booking/internal/persistence/memory"
	"github.com/example/studio-booking/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	var bookings persistence.BookingRepository
	if cfg.SQLiteDSN == "memory" {
		bookings = memory.NewStore()
		logger.Info("using in-memory booking store")
	} else {
		store, err := sqlite.Open(cfg.SQLiteDSN)
		if err != nil {
			logger.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer func() {
			if cerr := store.Close(); cerr != nil {
				logger.Error("failed to close store", "error", cerr)
			}
		}()

		if err := store.Migrate(context.Background()); err != nil {
			logger.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		bookings = store
	}

	bookingService := application.NewBookingService(bookings, uuid.NewString, time.Now, logger)
	staffService := application.NewStaffService(cfg.Staff, cfg.PasscodeHash, logger)

	if cfg.SeedFile != "" {
		seeds, err := config.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			logger.Error("failed to load seed file", "error", err, "path", cfg.SeedFile)
			os.Exit(1)
		}
		bookingService.Seed(ctx, seedParams(seeds))
	}

	authHandler := httptransport.NewAuthHandler(staffService, logger)
	bookingHandler := httptransport.NewBookingHandler(bookingService, logger)
	calendarHandler := httptransport.NewCalendarHandler(bookingService, time.Local, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:     authHandler,
		Bookings: bookingHandler,
		Calendar: calendarHandler,
	})

	protected := httptransport.RequireStaff(staffService, logger, "/login", "/calendar.ics")(router)
	handler := httptransport.RequestLogger(logger)(protected)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("studio booking API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func seedParams(seeds []config.SeedBooking) []application.CreateBookingParams {
	params := make([]application.CreateBookingParams, 0, len(seeds))
	for _, seed := range seeds {
		params = append(params, application.CreateBookingParams{
			Principal: application.Principal{Staff: seed.CreatedBy},
			Input: application.BookingInput{
				Kind:      seed.Type,
				ClassName: seed.ClassName,
				Teacher:   seed.Teacher,
				StartTime: seed.StartTime,
				EndTime:   seed.EndTime,
				Color:     seed.Color,
				Date:      seed.Date,
				DayOfWeek: seed.DayOfWeek,
				Duration:  seed.Duration,
			},
		})
	}
	return params
}
