// Package export renders attendance record sets as downloadable CSV and PDF
// documents. Both writers are total over their input; an empty record set is
// valid.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"rollcall/internal/attendance"
)

// placeholder stands in for absent optional fields.
const placeholder = "N/A"

var columns = []string{
	"#", "Name", "Matric Number", "Course", "Date", "Time", "Status",
	"Latitude", "Longitude", "Accuracy", "Location", "Record ID",
}

// WriteCSV writes a header row plus one row per record, preserving input
// order. Output is a pure function of the records.
func WriteCSV(w io.Writer, records []attendance.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, rec := range records {
		if err := cw.Write(csvRow(i+1, rec)); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(ordinal int, rec attendance.Record) []string {
	return []string{
		strconv.Itoa(ordinal),
		rec.Name,
		rec.MatricNo,
		rec.Course,
		rec.SubmittedAt.Format("2006-01-02"),
		rec.SubmittedAt.Format("15:04:05"),
		statusLabel(rec.Active),
		floatOrPlaceholder(rec.Latitude),
		floatOrPlaceholder(rec.Longitude),
		floatOrPlaceholder(rec.Accuracy),
		stringOrPlaceholder(rec.LocationName),
		rec.ID,
	}
}

// Filename builds the attachment name for an export generated at t.
func Filename(t time.Time, ext string) string {
	return fmt.Sprintf("attendance_records_%s.%s", t.Format("20060102_150405"), ext)
}

func statusLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

func floatOrPlaceholder(v *float64) string {
	if v == nil {
		return placeholder
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func stringOrPlaceholder(v *string) string {
	if v == nil || *v == "" {
		return placeholder
	}
	return *v
}
