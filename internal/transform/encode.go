package transform

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/colmmasters/teamrecords/internal/record"
)

// Encoding selects the output envelope. All encodings share the same
// per-record field set; only the wrapper differs.
type Encoding string

const (
	// EncodingArray is a JSON array of record objects.
	EncodingArray Encoding = "array"
	// EncodingKeyed is a single-key object mapping record id to record,
	// shaped for document-store imports.
	EncodingKeyed Encoding = "keyed"
	// EncodingLines is newline-delimited JSON, one record per line.
	EncodingLines Encoding = "lines"
)

// DefaultCollection is the top-level key of the keyed encoding.
const DefaultCollection = "teamRecords"

// Options controls encoder output.
type Options struct {
	Pretty     bool
	Collection string // keyed encoding only; DefaultCollection when empty
}

// Encode writes records in the chosen encoding. Array and keyed output are
// deterministic for a given record order; keyed output preserves the
// sequence order via an ordered write rather than map iteration.
func Encode(w io.Writer, records []record.Record, enc Encoding, opts Options) error {
	switch enc {
	case EncodingArray:
		return encodeArray(w, records, opts.Pretty)
	case EncodingKeyed:
		return encodeKeyed(w, records, opts)
	case EncodingLines:
		return encodeLines(w, records)
	default:
		return fmt.Errorf("unknown encoding: %s", enc)
	}
}

func encodeArray(w io.Writer, records []record.Record, pretty bool) error {
	if records == nil {
		records = []record.Record{}
	}
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(records)
}

// encodeKeyed writes {"<collection>": {"<id>": {...}, ...}} with entries in
// sequence order. encoding/json randomizes map iteration, so the object is
// assembled by hand to keep output diffable.
func encodeKeyed(w io.Writer, records []record.Record, opts Options) error {
	collection := opts.Collection
	if collection == "" {
		collection = DefaultCollection
	}

	indent := func(n int) string {
		if !opts.Pretty {
			return ""
		}
		out := "\n"
		for i := 0; i < n; i++ {
			out += "  "
		}
		return out
	}

	bw := bufio.NewWriter(w)
	key, err := json.Marshal(collection)
	if err != nil {
		return err
	}
	fmt.Fprintf(bw, "{%s%s: {", indent(1), key)

	for i, rec := range records {
		if i > 0 {
			bw.WriteString(",")
		}
		id, err := json.Marshal(rec.ID)
		if err != nil {
			return err
		}
		body, err := marshalRecord(rec, opts.Pretty, 2)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "%s%s: %s", indent(2), id, body)
	}

	fmt.Fprintf(bw, "%s}%s}\n", indent(1), indent(0))
	return bw.Flush()
}

func marshalRecord(rec record.Record, pretty bool, depth int) ([]byte, error) {
	if !pretty {
		return json.Marshal(rec)
	}
	prefix := ""
	for i := 0; i < depth; i++ {
		prefix += "  "
	}
	return json.MarshalIndent(rec, prefix, "  ")
}

func encodeLines(w io.Writer, records []record.Record) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile encodes records into a file, creating parent directories.
func WriteFile(path string, records []record.Record, enc Encoding, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	if err := Encode(f, records, enc, opts); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}
