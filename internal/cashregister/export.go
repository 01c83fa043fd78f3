package cashregister

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"fret-backend/internal/register"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

var reportHeader = []string{
	"Date", "Caissier", "Solde initial", "Dépôts", "Retraits", "Solde final", "Transactions", "Statut",
}

func render(format register.ExportFormat, r register.DateRange, days []register.Day) ([]byte, error) {
	switch format {
	case register.ExportCSV:
		return renderCSV(days)
	case register.ExportXLSX:
		return renderXLSX(r, days)
	case register.ExportPDF:
		return renderPDF(r, days)
	}
	return nil, register.ErrInvalidFormat
}

func status(d register.Day) string {
	if d.IsClosed {
		return "Fermée"
	}
	return "Ouverte"
}

func cashierLabel(d register.Day) string {
	if d.CashierName != "" {
		return d.CashierName
	}
	return "#" + strconv.FormatUint(uint64(d.CashierID), 10)
}

func dayRow(d register.Day) []string {
	return []string{
		d.OperationDate.String(),
		cashierLabel(d),
		d.StartingBalance.StringFixed(2),
		d.TotalDeposits.StringFixed(2),
		d.TotalWithdrawals.StringFixed(2),
		d.EndingBalance.StringFixed(2),
		strconv.Itoa(d.NumberOfTransactions),
		status(d),
	}
}

func totalsRow(t register.Totals) []string {
	return []string{
		"TOTAL",
		fmt.Sprintf("%d caisse(s)", t.Days),
		"",
		t.TotalDeposits.StringFixed(2),
		t.TotalWithdrawals.StringFixed(2),
		t.EndingBalances.StringFixed(2),
		strconv.Itoa(t.NumberOfTransactions),
		"",
	}
}

func renderCSV(days []register.Day) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{reportHeader}
	for _, d := range days {
		rows = append(rows, dayRow(d))
	}
	rows = append(rows, totalsRow(register.Aggregate(days)))

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderXLSX(r register.DateRange, days []register.Day) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Recettes"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Rapport des recettes du %s au %s", r.Start, r.End)
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return nil, err
	}

	header := make([]any, len(reportHeader))
	for i, h := range reportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A3", &header); err != nil {
		return nil, err
	}

	row := 4
	for _, d := range days {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []any{
			d.OperationDate.String(),
			cashierLabel(d),
			d.StartingBalance.InexactFloat64(),
			d.TotalDeposits.InexactFloat64(),
			d.TotalWithdrawals.InexactFloat64(),
			d.EndingBalance.InexactFloat64(),
			d.NumberOfTransactions,
			status(d),
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
		row++
	}

	t := register.Aggregate(days)
	cell, _ := excelize.CoordinatesToCellName(1, row)
	totals := []any{
		"TOTAL",
		fmt.Sprintf("%d caisse(s)", t.Days),
		"",
		t.TotalDeposits.InexactFloat64(),
		t.TotalWithdrawals.InexactFloat64(),
		t.EndingBalances.InexactFloat64(),
		t.NumberOfTransactions,
		"",
	}
	if err := f.SetSheetRow(sheet, cell, &totals); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "A", "H", 16); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var pdfWidths = []float64{28, 50, 32, 32, 32, 32, 30, 24}

func renderPDF(r register.DateRange, days []register.Day) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Rapport des recettes"), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Rapport des recettes du %s au %s", r.Start, r.End)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	line := func(cells []string, bold, fill bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		for i, c := range cells {
			align := "R"
			if i < 2 || i == len(cells)-1 {
				align = "L"
			}
			pdf.CellFormat(pdfWidths[i], 7, tr(c), "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFillColor(230, 230, 230)
	line(reportHeader, true, true)
	for _, d := range days {
		line(dayRow(d), false, false)
	}
	line(totalsRow(register.Aggregate(days)), true, true)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
