package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"eventtix/internal/config"
	"eventtix/internal/models"
	"eventtix/internal/services"
)

func main() {
	eventID := flag.String("event", "", "Event id to book tickets for")
	tickets := flag.String("tickets", "", "Selection as id=qty pairs, e.g. vip=2,ga=4")
	name := flag.String("name", "", "Buyer name")
	email := flag.String("email", "", "Buyer email")
	phone := flag.String("phone", "", "Buyer phone")
	address := flag.String("address", "", "Buyer address line 1")
	city := flag.String("city", "", "Buyer city")
	state := flag.String("state", "", "Buyer state")
	pincode := flag.String("pincode", "", "Buyer pincode")
	flag.Parse()

	if *eventID == "" || *tickets == "" {
		log.Fatal("both -event and -tickets are required")
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

	event, err := api.GetEvent(ctx, *eventID)
	if err != nil {
		log.Fatal("Failed to fetch event:", err)
	}
	fmt.Printf("🎫 %s\n   %s\n", event.Title, event.WhenWhere())

	list, err := api.GetEventTickets(ctx, *eventID)
	if err != nil {
		log.Fatal("Failed to fetch tickets:", err)
	}

	wizard := services.NewBookingWizard(api, event, list)
	for _, pair := range strings.Split(*tickets, ",") {
		id, qty, err := parseSelection(pair)
		if err != nil {
			log.Fatal(err)
		}
		stored := wizard.SetQuantity(id, qty)
		if stored != qty {
			fmt.Printf("⚠️  %s: requested %d, clamped to %d\n", id, qty, stored)
		}
	}

	totals := wizard.Totals()
	for _, line := range wizard.Selection() {
		fmt.Printf("   %s × %d  %s\n", line.Ticket.Name, line.Quantity, models.FormatINR(line.Subtotal()))
	}
	fmt.Printf("   Grand total: %s\n", models.FormatINR(totals.GrandTotal))

	if err := wizard.ProceedToCheckout(); err != nil {
		log.Fatal("Cannot proceed to checkout:", err)
	}

	wizard.SetBuyerDetails(models.BuyerDetails{
		Name:         *name,
		Email:        *email,
		Phone:        *phone,
		AddressLine1: *address,
		City:         *city,
		State:        *state,
		Pincode:      *pincode,
	})

	booking, err := wizard.Submit(ctx)
	if err != nil {
		log.Fatal("Booking failed: ", services.SubmitErrorMessage(err))
	}
	fmt.Printf("✅ Booking confirmed: %s (%s)\n", booking.BookingID, booking.Status)

	renderer := services.NewReceiptRenderer()
	path, err := renderer.RenderToFile(cfg.Receipt.OutputDir, event, models.BuyerDetails{
		Name:  *name,
		Email: *email,
	}, wizard.Selection(), totals, booking.BookingID)
	if err != nil {
		log.Fatal("Failed to render receipt:", err)
	}
	fmt.Printf("🧾 Receipt saved to %s\n", path)
}

func parseSelection(pair string) (string, int, error) {
	parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("invalid selection %q, expected id=qty", pair)
	}
	qty, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("invalid quantity in %q", pair)
	}
	return parts[0], qty, nil
}
