package services

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventtix/internal/models"
)

func receiptFixture(lineCount int) (*models.Event, models.BuyerDetails, []SelectionLine, models.PricingBreakdown) {
	event := &models.Event{Title: "Test Fest", VenueName: "Palace Grounds", City: "Bengaluru"}
	buyer := models.BuyerDetails{Name: "Asha Rao", Email: "asha@example.com"}

	var lines []SelectionLine
	for i := 0; i < lineCount; i++ {
		lines = append(lines, SelectionLine{
			Ticket:   &models.Ticket{ID: "t", Name: "General", Price: 500, Available: 10},
			Quantity: 2,
		})
	}
	return event, buyer, lines, ComputeTotals(lines)
}

func TestReceipt_RendersValidPNG(t *testing.T) {
	event, buyer, lines, totals := receiptFixture(2)

	data, err := NewReceiptRenderer().Render(event, buyer, lines, totals, "bk-123")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err, "output should be a decodable PNG")
	assert.Equal(t, receiptWidth, img.Bounds().Dx())
}

func TestReceipt_HeightGrowsWithLineItems(t *testing.T) {
	r := NewReceiptRenderer()

	event, buyer, short, shortTotals := receiptFixture(1)
	_, _, long, longTotals := receiptFixture(8)

	shortData, err := r.Render(event, buyer, short, shortTotals, "bk-123")
	require.NoError(t, err)
	longData, err := r.Render(event, buyer, long, longTotals, "bk-123")
	require.NoError(t, err)

	shortImg, err := png.Decode(bytes.NewReader(shortData))
	require.NoError(t, err)
	longImg, err := png.Decode(bytes.NewReader(longData))
	require.NoError(t, err)

	expected := shortImg.Bounds().Dy() + 7*lineRowHeight
	assert.Equal(t, expected, longImg.Bounds().Dy(), "height grows proportionally to line count")
}

func TestReceipt_DeterministicForSameReference(t *testing.T) {
	r := NewReceiptRenderer()
	event, buyer, lines, totals := receiptFixture(3)

	first, err := r.Render(event, buyer, lines, totals, "REF-ABC-001")
	require.NoError(t, err)
	second, err := r.Render(event, buyer, lines, totals, "REF-ABC-001")
	require.NoError(t, err)
	assert.Equal(t, first, second, "same reference renders identical bytes")

	other, err := r.Render(event, buyer, lines, totals, "REF-XYZ-999")
	require.NoError(t, err)
	assert.NotEqual(t, first, other, "barcode pattern follows the reference")
}

func TestReceipt_RejectsIncompleteInput(t *testing.T) {
	r := NewReceiptRenderer()
	event, buyer, lines, totals := receiptFixture(1)

	_, err := r.Render(nil, buyer, lines, totals, "bk-1")
	assert.Error(t, err)

	_, err = r.Render(event, buyer, lines, totals, "")
	assert.Error(t, err)

	_, err = r.Render(event, buyer, nil, totals, "bk-1")
	assert.Error(t, err)
}

func TestReceipt_RenderToFile(t *testing.T) {
	dir := t.TempDir()
	event, buyer, lines, totals := receiptFixture(1)

	path, err := NewReceiptRenderer().RenderToFile(dir, event, buyer, lines, totals, "bk-42")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "receipt-bk-42.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestReceipt_NoFileOnRenderFailure(t *testing.T) {
	dir := t.TempDir()
	event, buyer, _, totals := receiptFixture(0)

	_, err := NewReceiptRenderer().RenderToFile(dir, event, buyer, nil, totals, "bk-42")
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no partial file may be left behind")
}
