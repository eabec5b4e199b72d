package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"eventtix/internal/config"
	"eventtix/internal/models"
	"eventtix/internal/services"
)

func main() {
	bookingID := flag.String("booking", "", "Booking id to show tickets for")
	pdfPath := flag.String("pdf", "", "Also download the ticket PDF to this path")
	flag.Parse()

	if *bookingID == "" {
		log.Fatal("-booking is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	ctx := context.Background()
	api := services.NewAPIClient(services.APIConfig{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: cfg.API.Timeout,
	})

	booking, err := api.GetBooking(ctx, *bookingID, true)
	if err != nil {
		log.Fatal("Failed to fetch booking:", err)
	}

	fmt.Printf("🎟  Booking %s (%s)\n", booking.BookingID, booking.Status)
	for _, item := range booking.Items {
		fmt.Printf("   %s × %d  %s\n", item.TicketName, item.Quantity, models.FormatINR(item.Subtotal))
		if item.QRCode != "" {
			fmt.Printf("      QR: %s\n", item.QRCode)
		}
	}
	fmt.Printf("   Total paid: %s\n", models.FormatINR(booking.Amounts.GrandTotal))

	if *pdfPath != "" {
		if err := api.DownloadTicketPDF(ctx, *bookingID, *pdfPath); err != nil {
			log.Fatal("Failed to download ticket PDF:", err)
		}
		fmt.Printf("📄 Ticket PDF saved to %s\n", *pdfPath)
	}
}
