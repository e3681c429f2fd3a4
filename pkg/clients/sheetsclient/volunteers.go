package sheetsclient

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agendaccp/agenda-ccp/pkg/cpf"
)

// Expected column names in the volunteer roster sheet
var volunteerFields = []string{
	"Nome",
	"CPF",
	"Status",
}

// VolunteerRow is one roster row, as typed in the sheet
type VolunteerRow struct {
	Row    int // 1-based sheet row
	Name   string
	CPF    string
	Status string
}

// ListVolunteerRows reads the roster tab of a spreadsheet
func (c *Client) ListVolunteerRows(spreadsheetID, tab string) ([]VolunteerRow, error) {
	values, err := c.GetValues(spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteer data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	rows, err := parseVolunteerRows(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse volunteers: %w", err)
	}
	return rows, nil
}

// parseVolunteerRows converts raw spreadsheet data into rows, skipping rows
// without a name. Header matching ignores case and surrounding spaces.
func parseVolunteerRows(raw [][]interface{}) ([]VolunteerRow, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	fieldIndexes := make(map[string]int)
	for _, field := range volunteerFields {
		index := -1
		for i, cell := range raw[0] {
			if cellStr, ok := cell.(string); ok && strings.EqualFold(strings.TrimSpace(cellStr), field) {
				index = i
				break
			}
		}
		if index == -1 && field != "Status" {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
		fieldIndexes[field] = index
	}

	getField := func(field string, row []interface{}) string {
		index := fieldIndexes[field]
		if index < 0 || index >= len(row) {
			return ""
		}
		return cellString(row[index])
	}

	rows := make([]VolunteerRow, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		name := getField("Nome", raw[i])
		if name == "" {
			continue
		}
		rows = append(rows, VolunteerRow{
			Row:    i + 1,
			Name:   name,
			CPF:    padCPF(getField("CPF", raw[i])),
			Status: getField("Status", raw[i]),
		})
	}

	return rows, nil
}

func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// padCPF restores the leading zeros Sheets drops when a CPF column is typed
// as a number. Only bare digit strings shorter than a CPF are padded.
func padCPF(value string) string {
	if value == "" || len(value) >= cpf.Length {
		return value
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return value
		}
	}
	return strings.Repeat("0", cpf.Length-len(value)) + value
}
