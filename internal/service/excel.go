package service

import (
	"bytes"
	"fmt"

	"school/backend/internal/repository/postgres/attendance"
	"school/backend/internal/repository/postgres/fine"

	"github.com/xuri/excelize/v2"
)

// AttendanceReportExcel renders a monthly class report into an xlsx
// workbook and returns it with a download filename.
func AttendanceReportExcel(report attendance.ReportResponse) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	sheet := "Sheet1"

	headers := []string{"Student ID", "Student Name", "UDISE", "Total Days", "Present", "Absent", "Leave", "Attendance %"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
	}

	rowNum := 2
	for _, row := range report.Report {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), row.StudentID)
		if row.StudentName != nil {
			f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), *row.StudentName)
		}
		if row.Udise != nil {
			f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), *row.Udise)
		}
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), row.TotalDays)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), row.Present)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), row.Absent)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), row.Leave)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", rowNum), fmt.Sprintf("%.1f", row.AttendancePercentage))
		rowNum++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("error writing excel file: %w", err)
	}

	filename := fmt.Sprintf("attendance_report_class%d_%d_%02d.xlsx", report.ClassID, report.Year, report.Month)

	return buf, filename, nil
}

// ClassFinesExcel renders a class fine rollup, one row per fine record
// with a totals row at the bottom.
func ClassFinesExcel(response fine.ClassFinesResponse) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	sheet := "Sheet1"

	headers := []string{"Student Name", "UDISE", "Date", "Fine", "Paid", "Pending", "Status"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
	}

	rowNum := 2
	for _, student := range response.Fines {
		for _, record := range student.FineRecords {
			if student.StudentName != nil {
				f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), *student.StudentName)
			}
			if student.Udise != nil {
				f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), *student.Udise)
			}
			f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), record.Date.Format("2006-01-02"))
			f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), record.FineAmount)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), record.PaidAmount)
			f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), record.PendingAmount)
			if record.Status != nil {
				f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), *record.Status)
			}
			rowNum++
		}
	}

	f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), "TOTAL")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), response.ClassTotals.TotalFine)
	f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), response.ClassTotals.TotalPaid)
	f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), response.ClassTotals.TotalPending)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("error writing excel file: %w", err)
	}

	return buf, "class_fines.xlsx", nil
}
