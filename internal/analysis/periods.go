package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"tradelens/internal/normalize"
	"tradelens/internal/table"
)

var monthTokens = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseCustomMonth parses the export's "mon--yyyy" month format, e.g.
// "mar--2021" becomes 2021-03-01.
func ParseCustomMonth(s string) (time.Time, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(s))
	cleaned = strings.ReplaceAll(cleaned, "--", "-")
	parts := strings.SplitN(cleaned, "-", 2)
	if len(parts) != 2 {
		return time.Time{}, false
	}
	month, ok := monthTokens[strings.TrimSpace(parts[0])]
	if !ok {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || year < 1 {
		return time.Time{}, false
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	"02-01-2006",
	"02.01.2006",
	"2006-01",
	"Jan 2006",
	"January 2006",
	"Jan-2006",
}

// ParseDate parses a date string, supporting the custom "mon--yyyy" token
// format in addition to standard layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if strings.Contains(s, "--") {
		return ParseCustomMonth(s)
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// FiscalYearLabel buckets a date into its April-boundary fiscal year:
// months January–March belong to the fiscal year starting the previous
// calendar year. March 2021 yields "FY 2020-21".
func FiscalYearLabel(d time.Time) string {
	start := d.Year()
	if d.Month() <= time.March {
		start = d.Year() - 1
	}
	return fmt.Sprintf("FY %d-%02d", start, (start+1)%100)
}

// QuarterLabel renders "2021Q1" style calendar quarters.
func QuarterLabel(d time.Time) string {
	return fmt.Sprintf("%dQ%d", d.Year(), (int(d.Month())-1)/3+1)
}

// MonthLabel renders "2021-03" style month periods.
func MonthLabel(d time.Time) string {
	return d.Format("2006-01")
}

// PeriodAverages holds the mean of the target column per bucket at all four
// granularities.
type PeriodAverages struct {
	Monthly      *table.Table
	Quarterly    *table.Table
	FiscalYear   *table.Table
	CalendarYear *table.Table
}

// FullPeriodicAnalysis parses the date column (custom "mon--yyyy" rows
// included), buckets rows into month, quarter, calendar-year, and
// fiscal-year periods, and reports the mean of the numeric target per bucket
// for all four granularities at once. Unparsable dates are dropped.
func FullPeriodicAnalysis(t *table.Table, dateCol, valueCol string) (*PeriodAverages, string) {
	if !t.HasColumn(dateCol) || !t.HasColumn(valueCol) {
		return nil, "Required columns not found"
	}

	dateIdx := t.ColumnIndex(dateCol)
	valueIdx := t.ColumnIndex(valueCol)

	monthly := make(map[string][]float64)
	quarterly := make(map[string][]float64)
	fiscal := make(map[string][]float64)
	calendar := make(map[string][]float64)

	for _, row := range t.Rows {
		d, ok := ParseDate(row[dateIdx].String())
		if !ok {
			continue
		}
		v := normalize.CoerceFloat(row[valueIdx])
		monthly[MonthLabel(d)] = append(monthly[MonthLabel(d)], v)
		quarterly[QuarterLabel(d)] = append(quarterly[QuarterLabel(d)], v)
		fiscal[FiscalYearLabel(d)] = append(fiscal[FiscalYearLabel(d)], v)
		cy := strconv.Itoa(d.Year())
		calendar[cy] = append(calendar[cy], v)
	}

	res := &PeriodAverages{
		Monthly:      bucketMeans(monthly, "Month_Period", "Monthly Avg"),
		Quarterly:    bucketMeans(quarterly, "Quarter", "Quarterly Avg"),
		FiscalYear:   bucketMeans(fiscal, "Financial Year", "FY Avg"),
		CalendarYear: bucketMeans(calendar, "Calendar Year", "CY Avg"),
	}
	return res, "All time-based averages computed"
}

func bucketMeans(buckets map[string][]float64, keyCol, avgCol string) *table.Table {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := table.New(keyCol, avgCol)
	for _, k := range keys {
		out.AppendRow(table.Text(k), table.Number(mean(buckets[k])))
	}
	return out
}
