package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"directstay/internal/app/dto"
)

func TestWriteRateSchedule(t *testing.T) {
	schedule := dto.RateSchedule{
		PropertyID:     "villa",
		Currency:       "USD",
		NumberOfNights: 2,
		Subtotal:       dto.MoneyDTO{Amount: 30000, Currency: "USD"},
		DailyRates: []dto.DailyRate{
			{Date: "2025-07-04", Rate: dto.MoneyDTO{Amount: 17200, Currency: "USD"}, Label: "Fourth of July"},
			{Date: "2025-07-05", Rate: dto.MoneyDTO{Amount: 12800, Currency: "USD"}},
		},
	}
	var buf bytes.Buffer
	if err := WriteRateSchedule(&buf, schedule); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(scheduleSheet)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header, 2 nights and subtotal rows, got %d", len(rows))
	}
	if rows[1][0] != "2025-07-04" || rows[1][1] != "172" || rows[1][3] != "Fourth of July" {
		t.Fatalf("unexpected first night row %v", rows[1])
	}
	if rows[3][0] != "Subtotal" || rows[3][1] != "300" || rows[3][3] != "2 nights" {
		t.Fatalf("unexpected subtotal row %v", rows[3])
	}
}
