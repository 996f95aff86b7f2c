// Package export renders activity feeds into downloadable workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/heartmarshall/apptracker/internal/domain"
)

// ContentTypeXLSX is the MIME type of the produced workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const activitySheet = "Activity"

var activityHeadings = []any{
	"Date", "Kind", "ID", "User", "Content", "Type", "Priority", "Attachment", "Visible",
}

// WriteActivityXLSX writes items as a single-sheet workbook, one row per item,
// in the order given.
func WriteActivityXLSX(w io.Writer, items []domain.ActivityItem) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", activitySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(activitySheet, "A1", &activityHeadings); err != nil {
		return fmt.Errorf("write headings: %w", err)
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell for row %d: %w", i+2, err)
		}
		row := activityRow(item)
		if err := f.SetSheetRow(activitySheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(activitySheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func activityRow(item domain.ActivityItem) []any {
	attachment := ""
	if item.HasAttachment {
		attachment = item.AttachmentFilename
	}
	return []any{
		item.CreatedAt.UTC().Format(time.RFC3339),
		item.ActivityType.String(),
		item.ID,
		item.UserName,
		item.Content,
		item.Type,
		item.Priority.String(),
		attachment,
		item.IsVisible,
	}
}
