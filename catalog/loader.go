package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"tourcat/models"

	"github.com/gocolly/colly/v2"
)

// Loader retrieves the raw tour collection. The load is a one-shot
// operation: no retry, no polling, no partial results.
type Loader interface {
	Load() ([]models.Tour, error)
}

// NewLoader picks a loader for the configured catalog source: HTTP(S) URLs
// go through colly, anything else is treated as a local file path.
func NewLoader(source string) Loader {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return NewCollyLoader(source)
	}
	return &FileLoader{Path: source}
}

// CollyLoader fetches the catalog JSON over HTTP using a colly collector.
type CollyLoader struct {
	collector *colly.Collector
	url       string
}

// NewCollyLoader creates a loader for the given catalog URL.
func NewCollyLoader(url string) *CollyLoader {
	c := colly.NewCollector()

	c.OnError(func(r *colly.Response, err error) {
		log.Printf("Error fetching catalog %s: %v\n", r.Request.URL, err)
	})

	return &CollyLoader{
		collector: c,
		url:       url,
	}
}

// Load fetches the catalog once and decodes it.
func (l *CollyLoader) Load() ([]models.Tour, error) {
	var body []byte

	l.collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
	})

	if err := l.collector.Visit(l.url); err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	l.collector.Wait()

	if body == nil {
		return nil, fmt.Errorf("no response received from %s", l.url)
	}

	return decode(body)
}

// FileLoader reads the catalog JSON from a local file.
type FileLoader struct {
	Path string
}

// Load reads and decodes the catalog file.
func (l *FileLoader) Load() ([]models.Tour, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return decode(data)
}

// decode parses the catalog document: a JSON array of tour objects.
// Unknown fields are ignored and missing optional fields stay nil.
func decode(data []byte) ([]models.Tour, error) {
	var tours []models.Tour
	if err := json.Unmarshal(data, &tours); err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}
	return tours, nil
}
