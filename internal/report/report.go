package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/petteraas52-ux/Surat-sub000/internal/roster"
)

var headers = []string{"First name", "Last name", "Checked in", "Absence", "Allergies"}

// DaySheet renders a department's roster for one day as an XLSX
// workbook: one row per child with attendance state, the absence label
// and allergies. Returns the encoded file bytes.
func DaySheet(departmentName, date string, list []roster.Child) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetCellValue(sheet, "A1", fmt.Sprintf("%s — %s", departmentName, date)); err != nil {
		return nil, err
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, child := range list {
		values := []any{
			child.FirstName,
			child.LastName,
			checkedInText(child.CheckedIn),
			roster.AbsenceLabel(child),
			joinAllergies(child.Allergies),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+3)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func checkedInText(in bool) string {
	if in {
		return "yes"
	}
	return "no"
}

func joinAllergies(allergies []string) string {
	out := ""
	for i, a := range allergies {
		if i > 0 {
			out += ", "
		}
		out += a
	}
	return out
}
