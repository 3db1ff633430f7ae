package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"directstay/internal/app/dto"
)

const (
	scheduleSheet = "Rates"
	ContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var scheduleHeaders = []string{"Date", "Rate", "Currency", "Label"}

// WriteRateSchedule renders one row per night followed by the subtotal row. Amounts are major units.
func WriteRateSchedule(w io.Writer, schedule dto.RateSchedule) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), scheduleSheet); err != nil {
		return err
	}
	for i, header := range scheduleHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(scheduleSheet, cell, header); err != nil {
			return err
		}
	}

	row := 2
	for _, rate := range schedule.DailyRates {
		values := []any{rate.Date, major(rate.Rate.Amount), rate.Rate.Currency, rate.Label}
		if err := setRow(f, row, values); err != nil {
			return err
		}
		row++
	}
	label := "Subtotal"
	if schedule.Fallback {
		label = "Subtotal (listing rate)"
	}
	summary := []any{label, major(schedule.Subtotal.Amount), schedule.Currency, fmt.Sprintf("%d nights", schedule.NumberOfNights)}
	if err := setRow(f, row, summary); err != nil {
		return err
	}
	if err := f.SetColWidth(scheduleSheet, "A", "A", 24); err != nil {
		return err
	}
	return f.Write(w)
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(scheduleSheet, cell, &values)
}

func major(cents int64) float64 {
	return float64(cents) / 100
}
