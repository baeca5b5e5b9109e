package serviceImp

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"catering/pkg/notify"
)

const exportSheet = "Proposals"

var exportHeader = []any{"Ref", "Client", "Email", "Event Date", "Guests", "Proteins", "Version", "Status", "Estimated Cost", "Generator", "Created"}

// Export writes the latest version of every proposal as an xlsx workbook.
func (s *proposalSvc) Export(ctx context.Context, w io.Writer) error {
	rows, err := s.Proposals.ListLatest(ctx)
	if err != nil {
		return err
	}
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return err
	}
	for i, p := range rows {
		var client, email, eventDate, proteins string
		guests := 0
		if r := p.Request; r != nil {
			client, email, guests = r.Name, r.Email, r.GuestCount
			proteins = strings.Join(r.Proteins, ", ")
			if r.EventDate != nil {
				eventDate = r.EventDate.Format("2006-01-02")
			}
		}
		row := []any{
			notify.Ref(p.RequestID), client, email, eventDate, guests, proteins,
			p.Version, p.Status, p.EstimatedCost, p.Generator, p.CreatedAt.Format("2006-01-02 15:04"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}
	style, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err == nil && len(rows) > 0 {
		_ = f.SetCellStyle(exportSheet, "I2", fmt.Sprintf("I%d", len(rows)+1), style)
	}
	_ = f.SetColWidth(exportSheet, "B", "C", 24)
	_ = f.SetColWidth(exportSheet, "F", "F", 32)
	return f.Write(w)
}
