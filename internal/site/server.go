package site

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/colmmasters/teamrecords/internal/record"
)

// Server is a local preview of the published site data: it serves the web
// data directory statically and exposes the record table behind the same
// query parameters the website uses.
type Server struct {
	webDataDir  string
	recordsFile string
	recordsURL  string
	client      *http.Client
}

// NewServer creates a preview server over webDataDir. recordsFile is the
// record array file name within that directory; a non-empty recordsURL
// fetches the array from there instead.
func NewServer(webDataDir, recordsFile, recordsURL string) *Server {
	return &Server{
		webDataDir:  webDataDir,
		recordsFile: recordsFile,
		recordsURL:  recordsURL,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/records", s.handleRecords)
	mux.Handle("/", http.FileServer(http.Dir(s.webDataDir)))
	return mux
}

// handleRecords handles GET /api/records with optional course, gender,
// ageGroup, year, stroke, search, sort, and desc parameters.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "only GET is supported")
		return
	}

	records, err := s.loadRecords()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "records_unavailable", err.Error())
		return
	}

	q := QueryFromValues(r.URL.Query())
	writeJSON(w, http.StatusOK, q.Apply(records))
}

func (s *Server) loadRecords() ([]record.Record, error) {
	var data []byte
	var err error
	if s.recordsURL != "" {
		data, err = s.fetchRecords()
	} else {
		data, err = os.ReadFile(filepath.Join(s.webDataDir, s.recordsFile))
	}
	if err != nil {
		return nil, err
	}

	var records []record.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Server) fetchRecords() ([]byte, error) {
	resp, err := s.client.Get(s.recordsURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
