package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/colmmasters/teamrecords/internal/logger"
	"github.com/colmmasters/teamrecords/internal/record"
	"github.com/colmmasters/teamrecords/internal/transform"
)

const (
	// UserAgent identifies the scraper to the remote site.
	UserAgent = "teamrecords-cli/1.0 (github.com/colmmasters/teamrecords)"
)

// ErrNoResultsTable marks a fetched page that contains no parseable results
// block. The combination is skipped, not fatal.
var ErrNoResultsTable = errors.New("no results table in page")

// courseQueryIDs maps canonical course codes to the endpoint's CourseID
// query values.
var courseQueryIDs = map[string]string{
	"SCY": "1",
	"SCM": "2",
	"LCM": "3",
}

// Config parameterizes one scrape run. It is passed in explicitly; the
// scraper keeps no package-level state.
type Config struct {
	TeamCode string
	LMSCID   string
	BaseURL  string
	Years    []int
	Courses  []string // display codes: SCY, SCM, LCM
	Delay    time.Duration
	Timeout  time.Duration
	CSVDir   string // per-combination CSV output; "" disables
	DebugDir string // raw HTML capture on parse failures; "" disables
}

// Scraper fetches and parses top-ten result listings.
type Scraper struct {
	client *http.Client
	cfg    Config
}

// New creates a Scraper for the given configuration.
func New(cfg Config) *Scraper {
	return &Scraper{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

// ScrapeAll fetches every (year, course) combination sequentially and
// returns the raw rows for the configured team, in fetch order. Individual
// combination failures are logged and skipped; the only returned error is
// context cancellation.
func (s *Scraper) ScrapeAll(ctx context.Context) ([]record.RawRow, error) {
	var all []record.RawRow

	first := true
	for _, year := range s.cfg.Years {
		for _, course := range s.cfg.Courses {
			if !first {
				if err := sleepCtx(ctx, s.cfg.Delay); err != nil {
					return all, err
				}
			}
			first = false

			start := time.Now()
			rows, err := s.scrapeCombination(ctx, course, year)
			logger.RecordTiming("scraper.fetch", time.Since(start))
			logger.IncrCounter("scraper.fetches")

			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return all, err
				}
				logger.Error("Skipping combination", logger.Fields{
					"course": course,
					"year":   year,
				}, err)
				logger.IncrCounter("scraper.fetch_failures")
				continue
			}

			logger.Info("Fetched combination", logger.Fields{
				"course": course,
				"year":   year,
				"rows":   len(rows),
			})

			if s.cfg.CSVDir != "" && len(rows) > 0 {
				if err := WriteCSVs(s.cfg.CSVDir, rows); err != nil {
					logger.Error("Writing combination CSV", logger.Fields{
						"course": course,
						"year":   year,
					}, err)
				}
			}
			all = append(all, rows...)
		}
	}
	return all, nil
}

// scrapeCombination fetches and parses one (course, year) page.
func (s *Scraper) scrapeCombination(ctx context.Context, course string, year int) ([]record.RawRow, error) {
	pageURL, err := s.buildURL(course, year)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	rows, err := s.parseResults(bytes.NewReader(body), course, year)
	if err != nil {
		s.dumpPage(body, fmt.Sprintf("parse_error_%s_%d", strings.ToLower(course), year))
		return nil, err
	}
	return rows, nil
}

func (s *Scraper) buildURL(course string, year int) (string, error) {
	courseID, ok := courseQueryIDs[strings.ToUpper(course)]
	if !ok {
		return "", fmt.Errorf("unknown course code: %s", course)
	}

	params := url.Values{}
	params.Set("Year", strconv.Itoa(year))
	params.Set("CourseID", courseID)
	params.Set("LMSCID", s.cfg.LMSCID)
	params.Set("Club", s.cfg.TeamCode)
	return s.cfg.BaseURL + "?" + params.Encode(), nil
}

var (
	// Event headers render as e.g. <strong><u>Men 45-49 50 Y Freestyle </u></strong>.
	headerPattern = regexp.MustCompile(`<strong><u>\s*(Men|Women)\s+(\d+-\d+|\d+\+)\s+(.+?)\s*</u></strong>`)

	// Data lines, once tags are stripped, look like:
	//   1      26.85 Joshua McDuffie, M48, COLM, 554U-YZFEE, ...
	dataPattern = regexp.MustCompile(`^\s*(\d+)\s+([\d:]+\.\d+)\s+(.+?),\s*([MF])\d+,\s*(\w+),\s*[\w-]+,`)

	tagPattern    = regexp.MustCompile(`<[^>]+>`)
	anchorPattern = regexp.MustCompile(`<a\s+href="[^"]*"[^>]*>([^<]+)</a>`)
)

// parseResults extracts team rows from the <pre> results block. Header lines
// establish the current gender, age group, and event; numbered data lines
// below them belong to that slot until the next header.
func (s *Scraper) parseResults(r io.Reader, course string, year int) ([]record.RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	pre := doc.Find("pre").First()
	if pre.Length() == 0 {
		return nil, ErrNoResultsTable
	}
	preHTML, err := pre.Html()
	if err != nil {
		return nil, fmt.Errorf("extracting results block: %w", err)
	}

	var (
		rows     []record.RawRow
		gender   string
		ageGroup string
		event    string
	)

	for _, line := range strings.Split(preHTML, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := headerPattern.FindStringSubmatch(line); m != nil {
			gender = m[1]
			ageGroup = m[2]
			event = stripCourseMarker(m[3])
			continue
		}

		clean := tagPattern.ReplaceAllString(line, "")
		m := dataPattern.FindStringSubmatch(clean)
		if m == nil || event == "" {
			continue
		}

		club := m[5]
		if !strings.EqualFold(club, s.cfg.TeamCode) {
			continue
		}

		// Meet name is the last anchor on the line, after the "View" link.
		meet := ""
		if anchors := anchorPattern.FindAllStringSubmatch(line, -1); len(anchors) >= 2 {
			meet = strings.TrimSpace(anchors[len(anchors)-1][1])
		}

		rows = append(rows, record.RawRow{
			Team:     s.cfg.TeamCode,
			Event:    event,
			Course:   course,
			Gender:   gender,
			AgeGroup: ageGroup,
			Time:     m[2],
			Swimmer:  strings.TrimSpace(m[3]),
			Meet:     meet,
			Year:     strconv.Itoa(year),
			Rank:     m[1],
		})
	}
	return rows, nil
}

// stripCourseMarker drops the single-letter course token embedded in event
// headers ("50 Y Freestyle" -> "50 Freestyle"); the course is already known
// from the query.
func stripCourseMarker(event string) string {
	fields := strings.Fields(event)
	out := make([]string, 0, len(fields))
	for _, tok := range fields {
		if tok == "Y" || tok == "M" {
			continue
		}
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}

// WriteCSVs persists raw rows into dir, one file per (team, course, year)
// combination, named <team>_<course>_<year>_records.csv. Rows keep their
// input order within each file. The update command calls this after the
// diff confirms changes; ScrapeAll calls it per combination as it goes.
func WriteCSVs(dir string, rows []record.RawRow) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating csv directory: %w", err)
	}

	groups := make(map[string][]record.RawRow)
	var order []string
	for _, row := range rows {
		name := fmt.Sprintf("%s_%s_%s_records.csv",
			strings.ToLower(row.Team), strings.ToLower(row.Course), row.Year)
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], row)
	}

	for _, name := range order {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("creating csv file: %w", err)
		}
		err = transform.WriteRows(f, groups[name])
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// dumpPage saves raw HTML for offline inspection. Best-effort side channel;
// failures only log.
func (s *Scraper) dumpPage(body []byte, label string) {
	if s.cfg.DebugDir == "" {
		return
	}
	if err := os.MkdirAll(s.cfg.DebugDir, 0755); err != nil {
		logger.Warn("Creating debug directory", logger.Fields{"error": err.Error()})
		return
	}
	path := filepath.Join(s.cfg.DebugDir, label+".html")
	if err := os.WriteFile(path, body, 0644); err != nil {
		logger.Warn("Writing debug HTML", logger.Fields{"path": path, "error": err.Error()})
		return
	}
	logger.Debug("Saved debug HTML", logger.Fields{"path": path})
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
