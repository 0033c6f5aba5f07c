package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"invoicer/internal/port"
)

// Goods sheet layout: 4, 6 and 8 digit codes with their descriptions in
// F/H, I/J and K/M, the GST rate in N. Data starts on row 6.
const (
	goodsFirstRow = 5
	goodsRateCol  = 13
)

var goodsCodeCols = [][2]int{{10, 12}, {8, 9}, {5, 7}}

// Services sheet layout: 4 and 6 digit SAC codes in A/B and C/D, rate text
// in E. Data starts on row 4.
const (
	servicesFirstRow = 3
	servicesRateCol  = 4
)

var servicesCodeCols = [][2]int{{2, 3}, {0, 1}}

var (
	ratePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
	digitsOnly  = regexp.MustCompile(`^\d{4,8}$`)
)

// readWorkbook collects one entry per code. The first rate seen for a code wins.
func readWorkbook(f *excelize.File, goodsSheet, servicesSheet string) ([]port.HSNEntry, error) {
	if goodsSheet == "" {
		goodsSheet = f.GetSheetName(0)
	}
	c := &collector{seen: make(map[string]bool)}

	rows, err := f.GetRows(goodsSheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", goodsSheet, err)
	}
	c.addRows(rows, goodsFirstRow, goodsRateCol, goodsCodeCols)

	if servicesSheet == "" {
		return c.entries, nil
	}
	if idx, err := f.GetSheetIndex(servicesSheet); err != nil || idx < 0 {
		return c.entries, nil
	}
	rows, err = f.GetRows(servicesSheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", servicesSheet, err)
	}
	c.addRows(rows, servicesFirstRow, servicesRateCol, servicesCodeCols)
	return c.entries, nil
}

type collector struct {
	seen    map[string]bool
	entries []port.HSNEntry
}

func (c *collector) addRows(rows [][]string, first, rateCol int, codeCols [][2]int) {
	for i := first; i < len(rows); i++ {
		row := rows[i]
		rate, ok := parseRate(cell(row, rateCol))
		if !ok {
			continue
		}
		for _, cols := range codeCols {
			code := strings.TrimSpace(cell(row, cols[0]))
			if !digitsOnly.MatchString(code) || c.seen[code] {
				continue
			}
			c.seen[code] = true
			c.entries = append(c.entries, port.HSNEntry{
				Code:        code,
				Description: strings.TrimSpace(cell(row, cols[1])),
				GSTRate:     rate,
			})
		}
	}
}

// parseRate reads the first percentage of a rate cell. "Exempt" and "Nil"
// are zero; bare numbers are accepted as percentages.
func parseRate(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return 0, false
	case "exempt", "nil":
		return 0, true
	}
	if m := ratePattern.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		return v, err == nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	// Percentage-formatted cells can surface as fractions.
	if v > 0 && v < 1 {
		v *= 100
	}
	return v, true
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
