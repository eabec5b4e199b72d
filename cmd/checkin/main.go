package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/mattn/go-sqlite3"

	"eventtix/internal/config"
	"eventtix/internal/models"
	"eventtix/internal/repositories"
	"eventtix/internal/services"
)

func main() {
	eventID := flag.String("event", "", "Event id to check guests into")
	framesDir := flag.String("frames", "", "Directory of camera feeds (one subdirectory per device)")
	flag.Parse()

	if *eventID == "" {
		log.Fatal("-event is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := sql.Open("sqlite3", cfg.Storage.ScanLogPath)
	if err != nil {
		log.Fatal("Failed to open scan journal:", err)
	}
	defer db.Close()

	scanLog := repositories.NewScanLogRepository(db)
	if err := scanLog.Initialize(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := services.NewAPIClient(services.APIConfig{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: cfg.API.Timeout,
	})

	handler := func(code string) {
		record := &models.ScanRecord{EventID: *eventID, Code: code}

		result, err := api.CheckInTicket(ctx, *eventID, code)
		switch {
		case err != nil:
			record.Result = models.ScanRejected
			record.Detail = "check-in request failed"
			fmt.Printf("❌ %s — could not reach the check-in service\n", code)
		case result.Accepted:
			record.Result = models.ScanAccepted
			record.Detail = result.TicketName
			fmt.Printf("✅ %s — %s (%s)\n", code, result.GuestName, result.TicketName)
		default:
			record.Result = models.ScanRejected
			record.Detail = result.Reason
			fmt.Printf("🚫 %s — %s\n", code, result.Reason)
		}

		if err := scanLog.Record(record); err != nil {
			log.Printf("failed to journal scan: %v", err)
		}
	}

	var scanner *services.CheckInScanner
	if *framesDir != "" {
		source := services.NewDirectoryCameraSource(*framesDir, cfg.Scanner.FrameInterval)
		scanner = services.NewCheckInScanner(source, services.NewQRDecoder(), handler,
			services.WithCooldown(cfg.Scanner.Cooldown))
		if err := scanner.Start(ctx); err != nil {
			fmt.Printf("⚠️  %s\n", scanner.ErrorMessage())
			fmt.Println("   Falling back to manual entry.")
		} else {
			defer scanner.Stop()
			fmt.Printf("📷 Scanning on device %q (%d found)\n", scanner.ActiveDevice(), len(scanner.Devices()))
		}
	} else {
		// No camera configured; manual entry still needs the suppression
		// window so a double-typed code is not submitted twice.
		scanner = services.NewCheckInScanner(nil, nil, handler,
			services.WithCooldown(cfg.Scanner.Cooldown))
	}

	accepted, err := scanLog.CountAccepted(*eventID)
	if err == nil && accepted > 0 {
		fmt.Printf("   %d guests already checked in this session\n", accepted)
	}

	go func() {
		fmt.Println("Type a code to check in manually (Ctrl+C to quit):")
		stdin := bufio.NewScanner(os.Stdin)
		for stdin.Scan() {
			if code := strings.TrimSpace(stdin.Text()); code != "" {
				scanner.SubmitManual(code)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	fmt.Println("\n👋 Check-in session ended")
}
