package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"eventtix/internal/models"
)

// Receipt canvas layout. Width is fixed; height grows with the number of line
// items so long orders never truncate.
const (
	receiptWidth   = 720
	receiptMargin  = 32
	headerHeight   = 110
	buyerHeight    = 64
	lineRowHeight  = 30
	summaryHeight  = 5*26 + 20
	barcodeHeight  = 96
	footerHeight   = 40
)

// ReceiptRenderer draws booking receipts as PNG images, entirely locally.
type ReceiptRenderer struct{}

// NewReceiptRenderer creates a new receipt renderer
func NewReceiptRenderer() *ReceiptRenderer {
	return &ReceiptRenderer{}
}

// Render draws a receipt for a confirmed booking and returns the encoded PNG.
// The pseudo-barcode is seeded by the booking reference, so the same reference
// always renders the same image. Any failure returns an error and no bytes;
// callers never see a partially drawn receipt.
func (r *ReceiptRenderer) Render(event *models.Event, buyer models.BuyerDetails, lines []SelectionLine, totals models.PricingBreakdown, reference string) ([]byte, error) {
	if event == nil {
		return nil, fmt.Errorf("receipt: event is required")
	}
	if reference == "" {
		return nil, fmt.Errorf("receipt: booking reference is required")
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("receipt: no line items to render")
	}

	height := headerHeight + buyerHeight + len(lines)*lineRowHeight + summaryHeight + barcodeHeight + footerHeight + 3*receiptMargin
	dc := gg.NewContext(receiptWidth, height)

	// Background
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	r.drawHeader(dc, event)
	y := float64(headerHeight + receiptMargin)
	y = r.drawBuyer(dc, buyer, y)
	y = r.drawLines(dc, lines, y)
	y = r.drawSummary(dc, totals, y)
	y = r.drawBarcode(dc, reference, y)

	dc.SetRGB(0.45, 0.45, 0.45)
	dc.DrawStringAnchored("Ref: "+reference, receiptWidth/2, y+16, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("receipt: failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderToFile renders the receipt and writes it under dir. The file only
// appears once the full image encoded successfully.
func (r *ReceiptRenderer) RenderToFile(dir string, event *models.Event, buyer models.BuyerDetails, lines []SelectionLine, totals models.PricingBreakdown, reference string) (string, error) {
	data, err := r.Render(event, buyer, lines, totals, reference)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("receipt-%s.png", reference))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("receipt: failed to write %s: %w", path, err)
	}
	return path, nil
}

// drawHeader fills the dark title band with the event title and date/venue line.
func (r *ReceiptRenderer) drawHeader(dc *gg.Context, event *models.Event) {
	dc.SetRGB(0.12, 0.12, 0.2)
	dc.DrawRectangle(0, 0, receiptWidth, headerHeight)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	title := event.Title
	if title == "" {
		title = "Event"
	}
	dc.DrawStringAnchored(title, receiptMargin, 40, 0, 0.5)
	dc.SetRGB(0.8, 0.8, 0.85)
	dc.DrawStringAnchored(event.WhenWhere(), receiptMargin, 70, 0, 0.5)
}

func (r *ReceiptRenderer) drawBuyer(dc *gg.Context, buyer models.BuyerDetails, y float64) float64 {
	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawStringAnchored("Booked by", receiptMargin, y, 0, 0.5)
	dc.SetRGB(0.35, 0.35, 0.35)
	dc.DrawStringAnchored(buyer.Name, receiptMargin, y+22, 0, 0.5)
	dc.DrawStringAnchored(buyer.Email, receiptMargin, y+42, 0, 0.5)
	return y + buyerHeight
}

func (r *ReceiptRenderer) drawLines(dc *gg.Context, lines []SelectionLine, y float64) float64 {
	dc.SetRGB(0.75, 0.75, 0.75)
	dc.DrawLine(receiptMargin, y, receiptWidth-receiptMargin, y)
	dc.Stroke()
	y += 12

	for _, line := range lines {
		dc.SetRGB(0.1, 0.1, 0.1)
		label := fmt.Sprintf("%s × %d", line.Ticket.Name, line.Quantity)
		dc.DrawStringAnchored(label, receiptMargin, y+lineRowHeight/2, 0, 0.5)
		dc.DrawStringAnchored(models.FormatINR(line.Subtotal()), receiptWidth-receiptMargin, y+lineRowHeight/2, 1, 0.5)
		y += lineRowHeight
	}

	dc.SetRGB(0.75, 0.75, 0.75)
	dc.DrawLine(receiptMargin, y, receiptWidth-receiptMargin, y)
	dc.Stroke()
	return y + 12
}

func (r *ReceiptRenderer) drawSummary(dc *gg.Context, totals models.PricingBreakdown, y float64) float64 {
	rows := []struct {
		label  string
		amount float64
		strong bool
	}{
		{"Base amount", totals.BaseAmount, false},
		{"Convenience fee (20%)", totals.ConvenienceFee, false},
		{"IGST (9%)", totals.IGST, false},
		{"CGST (9%)", totals.CGST, false},
		{"Grand total", totals.GrandTotal, true},
	}

	for _, row := range rows {
		if row.strong {
			dc.SetRGB(0, 0, 0)
		} else {
			dc.SetRGB(0.35, 0.35, 0.35)
		}
		dc.DrawStringAnchored(row.label, receiptMargin, y+13, 0, 0.5)
		dc.DrawStringAnchored(models.FormatINR(row.amount), receiptWidth-receiptMargin, y+13, 1, 0.5)
		y += 26
	}
	return y + 20
}

// drawBarcode renders the decorative barcode band. Bar widths and gaps derive
// from the reference's character codes, so the pattern is reproducible but
// not scannable.
func (r *ReceiptRenderer) drawBarcode(dc *gg.Context, reference string, y float64) float64 {
	const barTop = 8
	barBottom := float64(barcodeHeight - 28)

	dc.SetRGB(0, 0, 0)
	x := float64(receiptMargin)
	i := 0
	for x < receiptWidth-receiptMargin-6 {
		c := int(reference[i%len(reference)])
		width := float64(c%4 + 1)
		gap := float64((c/4)%3 + 2)
		dc.DrawRectangle(x, y+barTop, width, barBottom-barTop)
		dc.Fill()
		x += width + gap
		i++
	}

	return y + barcodeHeight
}
