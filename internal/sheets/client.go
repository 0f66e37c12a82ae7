package sheets

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pmurley/dembot/internal/models"
	"github.com/pmurley/dembot/pkg/logger"
)

const (
	dateLayout = "01/02/2006"
	timeLayout = "3:04 PM"

	// The overflow column uses this literal to mark an unfilled slot.
	overflowUnavailable = "Not available"
)

// Client fetches the moderator schedule from a public Google Sheet using
// the CSV export endpoint.
type Client struct {
	exportURL  string
	httpClient *http.Client
	loc        *time.Location
	log        *logger.Logger
}

func NewClient(spreadsheetID, gid string, log *logger.Logger) (*Client, error) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return nil, fmt.Errorf("failed to load Eastern timezone: %w", err)
	}

	return &Client{
		exportURL: fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s", spreadsheetID, gid),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		loc: loc,
		log: log,
	}, nil
}

// LoadSchedule fetches the sheet and builds a date-indexed schedule.
// A sheet with no data rows yields an empty index; malformed rows are
// logged and skipped. Only an unreachable sheet is an error.
func (c *Client) LoadSchedule() (models.ScheduleIndex, error) {
	data, err := c.fetchCSV()
	if err != nil {
		return nil, err
	}

	index := make(models.ScheduleIndex)
	if len(data) < 2 { // header only, or nothing at all
		return index, nil
	}

	cols := resolveColumns(data[0])

	for i := 1; i < len(data); i++ {
		entries, err := c.parseRow(data[i], cols, i+1)
		if err != nil {
			c.log.Warn("Skipping schedule row: ", err)
			continue
		}
		for _, entry := range entries {
			addToIndex(index, entry)
		}
	}

	return index, nil
}

func (c *Client) fetchCSV() ([][]string, error) {
	resp, err := c.httpClient.Get(c.exportURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrSourceUnavailable, resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1

	var data [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read CSV: %v", ErrSourceUnavailable, err)
		}
		data = append(data, record)
	}

	return data, nil
}

// columns holds the resolved index of each field in the sheet. The sheet
// headers carry instructions for the humans filling it in ("Shift Start
// Time (All times Eastern)"), so columns are matched by prefix.
type columns struct {
	name     int
	handle   int
	date     int
	start    int
	end      int
	lead     int
	overflow int
}

func resolveColumns(header []string) columns {
	// Positional fallback matching the sheet as it has always been laid out.
	cols := columns{name: 0, handle: 1, date: 2, start: 3, end: 4, lead: 5, overflow: 6}

	for i, h := range header {
		switch h = strings.TrimSpace(h); {
		case strings.HasPrefix(h, "Name"):
			cols.name = i
		case strings.HasPrefix(h, "Discord"):
			cols.handle = i
		case strings.HasPrefix(h, "Date"):
			cols.date = i
		case strings.HasPrefix(h, "Shift Start"):
			cols.start = i
		case strings.HasPrefix(h, "Shift End"):
			cols.end = i
		case strings.HasPrefix(h, "Support/Lead"):
			cols.lead = i
		case strings.HasPrefix(h, "Overflow"):
			cols.overflow = i
		}
	}

	return cols
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseRow converts one sheet row into its schedule entries: a Mod entry
// always, a Lead Mod entry when the lead column is filled, an Overflow
// entry when the overflow column is filled and not marked unavailable.
// All entries from one row share the same shift window.
func (c *Client) parseRow(row []string, cols columns, line int) ([]models.ScheduleEntry, error) {
	dateStr := field(row, cols.date)
	if dateStr == "" {
		return nil, &RowParseError{Line: line, Field: "date", Value: dateStr, Err: fmt.Errorf("empty")}
	}

	date, err := time.ParseInLocation(dateLayout, dateStr, c.loc)
	if err != nil {
		return nil, &RowParseError{Line: line, Field: "date", Value: dateStr, Err: err}
	}

	startStr := field(row, cols.start)
	startClock, err := time.Parse(timeLayout, startStr)
	if err != nil {
		return nil, &RowParseError{Line: line, Field: "start time", Value: startStr, Err: err}
	}

	endStr := field(row, cols.end)
	endClock, err := time.Parse(timeLayout, endStr)
	if err != nil {
		return nil, &RowParseError{Line: line, Field: "end time", Value: endStr, Err: err}
	}

	start := time.Date(date.Year(), date.Month(), date.Day(),
		startClock.Hour(), startClock.Minute(), 0, 0, c.loc)
	end := time.Date(date.Year(), date.Month(), date.Day(),
		endClock.Hour(), endClock.Minute(), 0, 0, c.loc)

	// An end at or before the start means the shift runs past midnight.
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}

	name := field(row, cols.name)
	handle := field(row, cols.handle)

	entries := []models.ScheduleEntry{{
		ModeratorName: name,
		DiscordHandle: handle,
		Start:         start,
		End:           end,
		Role:          models.RoleMod,
	}}

	if lead := field(row, cols.lead); lead != "" {
		entries = append(entries, models.ScheduleEntry{
			ModeratorName: lead,
			Start:         start,
			End:           end,
			Role:          models.RoleLeadMod,
		})
	}

	if overflow := field(row, cols.overflow); overflow != "" && overflow != overflowUnavailable {
		entries = append(entries, models.ScheduleEntry{
			ModeratorName: overflow,
			Start:         start,
			End:           end,
			Role:          models.RoleOverflow,
		})
	}

	return entries, nil
}

// addToIndex buckets an entry under every calendar date its window
// touches, so overnight shifts are found from either day.
func addToIndex(index models.ScheduleIndex, entry models.ScheduleEntry) {
	startKey := models.DateKey(entry.Start)
	index[startKey] = append(index[startKey], entry)

	if endKey := models.DateKey(entry.End); endKey != startKey {
		index[endKey] = append(index[endKey], entry)
	}
}
