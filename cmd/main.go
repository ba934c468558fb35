package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rorymcdaniel/temperature-checker/internal/config"
	"github.com/rorymcdaniel/temperature-checker/internal/handlers"
	"github.com/rorymcdaniel/temperature-checker/internal/logger"
	"github.com/rorymcdaniel/temperature-checker/internal/models"
	"github.com/rorymcdaniel/temperature-checker/internal/notify"
	"github.com/rorymcdaniel/temperature-checker/internal/repository"
	"github.com/rorymcdaniel/temperature-checker/internal/repository/db"
	"github.com/rorymcdaniel/temperature-checker/internal/server"
	"github.com/rorymcdaniel/temperature-checker/internal/service"
	"github.com/rorymcdaniel/temperature-checker/internal/weather"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	command := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.Get(cfg.LogLevel)

	database, err := db.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(database)
	services := service.NewService(repos,
		weather.NewClient(),
		notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID),
		cfg, log,
	)

	ctx := context.Background()

	switch command {
	case "check":
		if err := services.Checker.Run(ctx); err != nil {
			log.Fatalw("temperature check failed", "err", err)
		}
	case "status":
		if err := printStatus(ctx, services); err != nil {
			log.Fatalw("status failed", "err", err)
		}
	case "open", "closed":
		if err := services.Admin.SetWindowState(ctx, models.WindowState(command)); err != nil {
			log.Fatalw("set window state failed", "err", err)
		}
		fmt.Printf("Window state set to: %s\n", command)
	case "mode":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Mode must be 'cooling' or 'heating'")
			os.Exit(1)
		}
		mode := models.Mode(os.Args[2])
		if err := services.Admin.SetMode(ctx, mode); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("Mode set to: %s\n", mode)
	case "reset":
		if err := services.Admin.ResetNotifications(ctx); err != nil {
			log.Fatalw("reset failed", "err", err)
		}
		fmt.Println("Notification state reset - notifications can be sent immediately")
	case "serve":
		serve(cfg, services, log)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  temperature-checker check          # Run one temperature check")
	fmt.Println("  temperature-checker status         # Show current status")
	fmt.Println("  temperature-checker open           # Set windows to open")
	fmt.Println("  temperature-checker closed         # Set windows to closed")
	fmt.Println("  temperature-checker mode cooling   # Set mode to cooling")
	fmt.Println("  temperature-checker mode heating   # Set mode to heating")
	fmt.Println("  temperature-checker reset          # Reset notification state")
	fmt.Println("  temperature-checker serve          # Start the admin HTTP API")
}

func printStatus(ctx context.Context, services *service.Service) error {
	status, err := services.Admin.Status(ctx)
	if err != nil {
		return err
	}

	st := status.State
	fmt.Printf("Window State: %s\n", st.WindowState)
	fmt.Printf("Mode: %s\n", st.Mode)
	fmt.Printf("Last Notification: %s\n", orNone(string(st.LastNotificationType)))
	fmt.Printf("Last Notification Time: %s\n", orNoneTime(st.LastNotificationTime))
	fmt.Printf("Last Updated: %s\n", orNoneTime(st.UpdatedAt))

	if len(status.Readings) > 0 {
		fmt.Println("\nRecent Temperature Readings:")
		for _, r := range status.Readings {
			fmt.Printf("  %s: %.1f°F (High: %.1f°F, Low: %.1f°F)\n",
				r.Timestamp.Format(time.RFC3339), r.CurrentTemp, r.DailyHigh, r.DailyLow)
		}
	}

	if len(status.Notifications) > 0 {
		fmt.Println("\nRecent Notifications:")
		for _, n := range status.Notifications {
			mark := "✗"
			if n.Sent {
				mark = "✓"
			}
			fmt.Printf("  %s: %s at %.1f°F %s\n",
				n.Timestamp.Format(time.RFC3339), n.Type, n.CurrentTemp, mark)
		}
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

func orNoneTime(t time.Time) string {
	if t.IsZero() {
		return "None"
	}
	return t.Format(time.RFC3339)
}

// serve runs the admin HTTP API until SIGINT/SIGTERM.
func serve(cfg *config.Config, services *service.Service, log *logger.Logger) {
	apiHandler := handlers.NewHandler(services, log)

	srv := &server.Server{}
	go func() {
		if err := srv.Run(cfg.Port, apiHandler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
	log.Infow("admin server started", "port", cfg.Port)

	waitForShutdown(srv, log)
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
