// Package export encodes the flat trip export as JSON, CSV, or YAML.
// It is shared by the HTTP /export route and the export CLI command.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/trippacks/internal/domain"
)

// Format names an output encoding.
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
	YAML Format = "yaml"
)

// Formats lists every supported format.
var Formats = []Format{JSON, CSV, YAML}

// ParseFormat resolves s to a Format. An empty string means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", JSON:
		return JSON, nil
	case CSV:
		return CSV, nil
	case YAML, "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want json, csv, or yaml)", s)
	}
}

// ContentType returns the HTTP media type of f.
func (f Format) ContentType() string {
	switch f {
	case CSV:
		return "text/csv"
	case YAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_number", "from_to", "state", "received_date", "submitted_date",
	"hub_start", "hub_end", "stop_index", "location", "arrival_hub", "date_completed",
}

// Write encodes rows to w in format f. JSON and YAML always produce a list,
// so an empty export is "[]" rather than null.
func Write(w io.Writer, f Format, rows []domain.ExportRow) error {
	if rows == nil {
		rows = []domain.ExportRow{}
	}
	switch f {
	case CSV:
		return writeCSV(w, rows)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("export.Write: yaml: %w", err)
		}
		return enc.Close()
	case JSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("export.Write: json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("export.Write: unsupported format %q", f)
	}
}

func writeCSV(w io.Writer, rows []domain.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders); err != nil {
		return fmt.Errorf("export.Write: csv: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(csvRecord(r)); err != nil {
			return fmt.Errorf("export.Write: csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export.Write: csv: %w", err)
	}
	return nil
}

// csvRecord encodes a domain.ExportRow as a flat string slice. A trip without
// stops leaves every stop column empty rather than writing zeros.
func csvRecord(r domain.ExportRow) []string {
	rec := []string{
		strconv.FormatInt(r.TripID, 10),
		r.TripNumber,
		r.FromTo,
		r.State,
		r.ReceivedDate,
		r.SubmittedDate,
		strconv.FormatInt(r.HubStart, 10),
		strconv.FormatInt(r.HubEnd, 10),
		"", "", "", "",
	}
	if r.StopIndex != 0 || r.Location != "" {
		rec[8] = strconv.FormatInt(r.StopIndex, 10)
		rec[9] = r.Location
		rec[10] = strconv.FormatInt(r.ArrivalHub, 10)
		rec[11] = r.DateCompleted
	}
	return rec
}
