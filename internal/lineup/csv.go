package lineup

import "strings"

// StageRow is one parsed row of a stages CSV.
type StageRow struct {
	Name string `json:"name"`
}

// SetRow is one parsed row of a sets CSV. ArtistNames holds the raw
// comma-separated value; splitting happens during import.
type SetRow struct {
	Name        string `json:"name,omitempty"`
	StageName   string `json:"stage_name,omitempty"`
	ArtistNames string `json:"artist_names"`
	TimeStart   string `json:"time_start,omitempty"`
	TimeEnd     string `json:"time_end,omitempty"`
	Description string `json:"description,omitempty"`
}

// ParseStagesCSV parses the stages CSV format (single required column: name).
func ParseStagesCSV(text string) []StageRow {
	var rows []StageRow
	for _, record := range parseCSV(text) {
		rows = append(rows, StageRow{Name: record["name"]})
	}
	return rows
}

// ParseSetsCSV parses the sets CSV format. Missing columns come back as
// empty strings.
func ParseSetsCSV(text string) []SetRow {
	var rows []SetRow
	for _, record := range parseCSV(text) {
		rows = append(rows, SetRow{
			Name:        record["name"],
			StageName:   record["stage_name"],
			ArtistNames: record["artist_names"],
			TimeStart:   record["time_start"],
			TimeEnd:     record["time_end"],
			Description: record["description"],
		})
	}
	return rows
}

// parseCSV maps each data line onto the header row positionally. The first
// non-blank line is the header.
func parseCSV(text string) []map[string]string {
	var header []string
	var records []map[string]string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := splitCSVLine(line)
		if header == nil {
			header = make([]string, len(fields))
			for i, h := range fields {
				header[i] = strings.ToLower(strings.TrimSpace(h))
			}
			continue
		}

		record := make(map[string]string, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(fields) {
				record[name] = fields[i]
			} else {
				record[name] = ""
			}
		}
		records = append(records, record)
	}

	return records
}

// splitCSVLine splits on commas outside double quotes and strips wrapping
// quotes from each field. Unbalanced quotes are not validated; the quote
// state simply carries to the end of the line.
func splitCSVLine(line string) []string {
	var fields []string
	var field strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(field.String()))

	return fields
}
