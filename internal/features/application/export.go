package application

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

var exportColumns = []string{
	"Number", "Type", "Requester", "Status", "Step", "Due At", "Submitted At", "Created At", "Updated At",
}

// ExportExcel renders the caller's visible applications into an XLSX
// workbook. The same visibility filter as List applies, so the export never
// leaks bundles the caller could not see in the portal.
func (s *ApplicationServiceImpl) ExportExcel(ctx context.Context, userID, roleID int64) ([]byte, string, error) {
	bundles, err := s.List(ctx, userID, roleID, TabAll)
	if err != nil {
		return nil, "", err
	}

	lookup, err := s.Types.Lookup(ctx)
	if err != nil {
		return nil, "", err
	}

	userNames := map[int64]string{}
	if users, err := s.Users.ListUsers(ctx); err == nil {
		for _, u := range users {
			userNames[u.ID] = u.Name
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Applications"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, bundle := range bundles {
		app := bundle.Application

		typeName := fmt.Sprintf("#%d", app.TypeID)
		if typ := lookup(app.TypeID); typ != nil {
			typeName = typ.Name.En
		}
		requester := fmt.Sprintf("#%d", app.RequesterID)
		if name, ok := userNames[app.RequesterID]; ok && name != "" {
			requester = name
		}

		step := ""
		if app.CurrentStepIndex >= 0 {
			step = fmt.Sprintf("%d", app.CurrentStepIndex+1)
		}

		values := []any{
			app.Number,
			typeName,
			requester,
			string(app.Status),
			step,
			formatExportTime(app.DueAt),
			formatExportTime(app.SubmittedAt),
			app.CreatedAt.Format("2006-01-02 15:04:05"),
			app.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range exportColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("applications_%s.xlsx", s.now().Format("20060102_150405"))
	return buffer.Bytes(), filename, nil
}

func formatExportTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
