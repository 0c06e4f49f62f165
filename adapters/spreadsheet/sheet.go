// Package spreadsheet reads infrastructure requirement sheets (xlsx) into
// workloads and UnifiedResources, and writes the blank template.
package spreadsheet

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"

	"multicloud-cost/core/types"
	"multicloud-cost/internal/errors"
)

// Column is one field of the requirement sheet
type Column struct {
	Key      string
	Header   string
	Required bool
	Width    float64
}

// Columns is the fixed 16-column layout, in template order
var Columns = []Column{
	{Key: "slNo", Header: "Sl No", Width: 8},
	{Key: "site", Header: "Site", Width: 10},
	{Key: "category", Header: "Category", Width: 12},
	{Key: "workloadType", Header: "Workload Type", Required: true, Width: 14},
	{Key: "applicationName", Header: "Application Name", Required: true, Width: 24},
	{Key: "softwares", Header: "Softwares", Width: 20},
	{Key: "osName", Header: "OS Name", Width: 18},
	{Key: "cpuName", Header: "CPU Name", Width: 14},
	{Key: "physicalCores", Header: "Physical Cores", Required: true, Width: 14},
	{Key: "totalThreads", Header: "Total Threads", Width: 13},
	{Key: "ramGB", Header: "RAM GB", Required: true, Width: 10},
	{Key: "bootSpaceGB", Header: "Boot Space GB", Width: 14},
	{Key: "dataSpaceGB", Header: "Data Space GB", Width: 14},
	{Key: "fileStorageGB", Header: "File Storage GB", Width: 15},
	{Key: "loadBalanced", Header: "Load Balanced", Width: 13},
	{Key: "haRequired", Header: "HA Required", Width: 12},
}

// header aliases seen in hand-made sheets, keyed by folded form
var headerAliases = map[string]string{
	"serialno":     "slNo",
	"sno":          "slNo",
	"software":     "softwares",
	"os":           "osName",
	"cpu":          "cpuName",
	"instancetype": "cpuName",
	"cores":        "physicalCores",
	"threads":      "totalThreads",
	"vcpus":        "totalThreads",
	"ram":          "ramGB",
	"memorygb":     "ramGB",
	"bootgb":       "bootSpaceGB",
	"datagb":       "dataSpaceGB",
	"filegb":       "fileStorageGB",
	"lb":           "loadBalanced",
	"ha":           "haRequired",
}

// fold lowercases and drops everything but letters and digits,
// so "RAM (GB)", "ram_gb" and "ramGB" all match.
func fold(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func columnKey(header string) (string, bool) {
	f := fold(header)
	if f == "" {
		return "", false
	}
	for _, c := range Columns {
		if fold(c.Key) == f || fold(c.Header) == f {
			return c.Key, true
		}
	}
	key, ok := headerAliases[f]
	return key, ok
}

// ReadWorkloads parses the first sheet of an xlsx document.
// Rows with slNo <= 0 are skipped; a sheet without data rows is rejected.
func ReadWorkloads(r io.Reader) ([]types.Workload, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "failed to read spreadsheet", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Input("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "failed to read spreadsheet rows", err).
			WithContext("sheet", sheets[0])
	}
	if len(rows) == 0 {
		return nil, errors.Input("spreadsheet is empty").WithContext("sheet", sheets[0])
	}

	index := make(map[string]int)
	for i, h := range rows[0] {
		if key, ok := columnKey(h); ok {
			if _, dup := index[key]; !dup {
				index[key] = i
			}
		}
	}
	var missing []error
	for _, c := range Columns {
		if _, ok := index[c.Key]; c.Required && !ok {
			missing = append(missing, errors.Inputf("missing required column %q", c.Header))
		}
	}
	if err := errors.Collect(missing...); err != nil {
		return nil, errors.Wrap(errors.TypeInput, "spreadsheet header does not match the template", err)
	}

	var workloads []types.Workload
	var invalid []error
	for n, row := range rows[1:] {
		line := n + 2
		cell := func(key string) string {
			i, ok := index[key]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		slNo := 0
		if _, ok := index["slNo"]; ok {
			// a serial that is not a number marks a notes row
			v, _ := number(cell("slNo"))
			slNo = int(v)
		} else if cell("applicationName") != "" {
			// sheets without a serial column number their rows
			slNo = n + 1
		}
		if slNo <= 0 {
			continue
		}

		num := func(key string) float64 {
			v, err := number(cell(key))
			if err != nil {
				invalid = append(invalid, errors.Inputf("row %d, column %q: %v", line, columnHeader(key), err))
			}
			return v
		}
		workloads = append(workloads, types.Workload{
			SlNo:            slNo,
			Site:            cell("site"),
			Category:        cell("category"),
			WorkloadType:    cell("workloadType"),
			ApplicationName: cell("applicationName"),
			Softwares:       cell("softwares"),
			OSName:          cell("osName"),
			CPUName:         cell("cpuName"),
			PhysicalCores:   num("physicalCores"),
			TotalThreads:    num("totalThreads"),
			RAMGB:           num("ramGB"),
			BootSpaceGB:     num("bootSpaceGB"),
			DataSpaceGB:     num("dataSpaceGB"),
			FileStorageGB:   num("fileStorageGB"),
			LoadBalanced:    types.ToBool(cell("loadBalanced")),
			HARequired:      types.ToBool(cell("haRequired")),
		})
	}

	if err := errors.Collect(invalid...); err != nil {
		return nil, errors.Wrap(errors.TypeInput, "spreadsheet has invalid numeric cells", err).
			WithContext("sheet", sheets[0])
	}
	if len(workloads) == 0 {
		return nil, errors.Input("spreadsheet has no data rows").WithContext("sheet", sheets[0])
	}
	return workloads, nil
}

// number parses a numeric cell. Blanks are 0; text and negative values are
// rejected.
func number(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if f < 0 {
		return 0, fmt.Errorf("%s is negative", s)
	}
	return f, nil
}

func columnHeader(key string) string {
	for _, c := range Columns {
		if c.Key == key {
			return c.Header
		}
	}
	return key
}

// WriteTemplate writes the blank 16-column requirement sheet with one example row
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Requirements"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Internal("failed to name template sheet", err)
	}

	headers := make([]interface{}, len(Columns))
	for i, c := range Columns {
		headers[i] = c.Header
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return errors.Internal("failed to write template header", err)
	}

	example := []interface{}{1, "DC", "Prod", "App", "billing-api", "nginx, java", "Ubuntu 22.04", "m5.xlarge", 2, 4, 16, 50, 100, 0, "Yes", "No"}
	if err := f.SetSheetRow(sheet, "A2", &example); err != nil {
		return errors.Internal("failed to write template example row", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Internal("failed to create header style", err)
	}
	last, err := excelize.CoordinatesToCellName(len(Columns), 1)
	if err != nil {
		return errors.Internal("failed to address header row", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return errors.Internal("failed to style header row", err)
	}
	for i, c := range Columns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return errors.Internal("failed to address column", err)
		}
		if err := f.SetColWidth(sheet, col, col, c.Width); err != nil {
			return errors.Internal("failed to size column", err)
		}
	}

	return f.Write(w)
}

// TemplateBytes returns the template as an xlsx buffer
func TemplateBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTemplate(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
