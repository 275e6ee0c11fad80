package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/micro-ha/nocontact/internal/model"
)

// ContentType is the media type of generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const timeFormat = "2006-01-02 15:04"

var deviceHeader = []string{"Phone Number", "Location", "Threshold", "Monitoring", "Status", "Message", "Last Activity"}

var alertHeader = []string{"Time", "Type", "Method", "Status", "Contact", "Device Phone", "Message"}

// Devices renders the device list as a single-sheet workbook.
func Devices(items []model.DeviceView) ([]byte, error) {
	rows := make([][]any, 0, len(items))
	for _, item := range items {
		monitoring := "Paused"
		if item.Active {
			monitoring = "Active"
		}
		rows = append(rows, []any{
			item.PhoneNumber,
			item.Location,
			item.ThresholdHours.String(),
			monitoring,
			string(item.Status.State),
			item.Status.Message,
			formatTime(item.LastActivityAt),
		})
	}
	return render("Devices", deviceHeader, []float64{18, 24, 12, 12, 12, 24, 20}, rows)
}

// Alerts renders alert history as a single-sheet workbook.
func Alerts(items []model.AlertRecord) ([]byte, error) {
	rows := make([][]any, 0, len(items))
	for _, item := range items {
		at := item.DisplayAt()
		rows = append(rows, []any{
			formatTime(&at),
			item.AlertType,
			item.MethodLabel(),
			item.Status,
			contactLabel(item),
			deref(item.DevicePhoneNumber),
			item.Message,
		})
	}
	return render("Alerts", alertHeader, []float64{18, 14, 12, 10, 26, 18, 48}, rows)
}

func render(sheet string, header []string, widths []float64, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("set header style: %w", err)
		}
		if col < len(widths) {
			name, err := excelize.ColumnNumberToName(col + 1)
			if err != nil {
				return nil, err
			}
			if err := f.SetColWidth(sheet, name, name, widths[col]); err != nil {
				return nil, err
			}
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(timeFormat)
}

func contactLabel(item model.AlertRecord) string {
	switch {
	case item.ContactEmail != nil && item.ContactPhone != nil:
		return *item.ContactEmail + " / " + *item.ContactPhone
	case item.ContactEmail != nil:
		return *item.ContactEmail
	default:
		return deref(item.ContactPhone)
	}
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
