package site

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/colmmasters/teamrecords/internal/logger"
	"github.com/colmmasters/teamrecords/internal/record"
)

// Row is one spreadsheet feed row, keyed by header column name.
type Row map[string]string

// FeedURLs holds the spreadsheet CSV export URL per logical feed. Empty
// entries disable that feed.
type FeedURLs struct {
	Events   string
	Schedule string
	Board    string
	Content  string
}

// Data is everything the website consumes: the canonical record array plus
// the optional feed sections. A feed that failed or was disabled is simply
// empty.
type Data struct {
	Records  []record.Record `json:"records"`
	Events   []Row           `json:"events"`
	Schedule []Row           `json:"schedule"`
	Board    []Row           `json:"board"`
	Content  []Row           `json:"content"`
}

// Client loads site data over HTTP.
type Client struct {
	http       *http.Client
	recordsURL string
	feeds      FeedURLs
	renderer   *Renderer
}

// NewClient creates a site data client. recordsURL may be empty when only
// feeds are wanted.
func NewClient(recordsURL string, feeds FeedURLs, timeout time.Duration) *Client {
	return &Client{
		http:       &http.Client{Timeout: timeout},
		recordsURL: recordsURL,
		feeds:      feeds,
		renderer:   NewRenderer(),
	}
}

// Load fetches the record array and all four feeds concurrently. Every
// fetch is independent and best-effort: a failed or empty feed yields an
// empty section and never blocks the others. Load itself never fails.
func (c *Client) Load(ctx context.Context) *Data {
	data := &Data{}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		data.Records = c.fetchRecords(ctx)
	}()

	fetchInto := func(name, url string, dst *[]Row) {
		defer wg.Done()
		*dst = c.fetchFeed(ctx, name, url)
	}
	wg.Add(4)
	go fetchInto("events", c.feeds.Events, &data.Events)
	go fetchInto("schedule", c.feeds.Schedule, &data.Schedule)
	go fetchInto("board", c.feeds.Board, &data.Board)
	go fetchInto("content", c.feeds.Content, &data.Content)

	wg.Wait()

	c.renderContent(data.Content)
	return data
}

func (c *Client) fetchRecords(ctx context.Context) []record.Record {
	if c.recordsURL == "" {
		return nil
	}
	body, err := c.get(ctx, c.recordsURL)
	if err != nil {
		logger.Warn("Records fetch failed", logger.Fields{"url": c.recordsURL, "error": err.Error()})
		return nil
	}

	var records []record.Record
	if err := json.Unmarshal(body, &records); err != nil {
		logger.Warn("Records payload unparseable", logger.Fields{"url": c.recordsURL, "error": err.Error()})
		return nil
	}
	return records
}

// fetchFeed downloads and parses one spreadsheet CSV export. Any failure
// disables the section.
func (c *Client) fetchFeed(ctx context.Context, name, url string) []Row {
	if url == "" {
		return nil
	}
	body, err := c.get(ctx, url)
	if err != nil {
		logger.Warn("Feed fetch failed", logger.Fields{"feed": name, "error": err.Error()})
		return nil
	}

	rows, err := parseFeedCSV(body)
	if err != nil {
		logger.Warn("Feed unparseable", logger.Fields{"feed": name, "error": err.Error()})
		return nil
	}
	return rows
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func parseFeedCSV(body []byte) ([]Row, error) {
	reader := csv.NewReader(strings.NewReader(string(body)))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []Row
	for {
		line, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(line) {
				row[name] = line[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// renderContent adds a bodyHtml key with sanitized HTML wherever a content
// row carries a markdown body column.
func (c *Client) renderContent(rows []Row) {
	for _, row := range rows {
		body, ok := row["body"]
		if !ok || strings.TrimSpace(body) == "" {
			continue
		}
		html, err := c.renderer.Render(body)
		if err != nil {
			logger.Warn("Content render failed", logger.Fields{"error": err.Error()})
			continue
		}
		row["bodyHtml"] = html
	}
}
