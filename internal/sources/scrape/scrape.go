// Package scrape holds the fetch/parse plumbing shared by the concrete
// source adapters.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-playground/validator/v10"

	"github.com/pitchside/clover/pkg/models"
	"github.com/pitchside/clover/pkg/sources"
)

const userAgent = "Mozilla/5.0 (compatible; clover/1.0)"

// NewDocument fetches a URL and parses it into a goquery document. All
// failures come back wrapped in ErrAdapterUnavailable so callers can treat
// network and parse errors uniformly.
func NewDocument(ctx context.Context, client *http.Client, url string) (*goquery.Document, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("empty url: %w", sources.ErrAdapterUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, sources.ErrAdapterUnavailable)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %v: %w", url, err, sources.ErrAdapterUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d: %w", url, resp.StatusCode, sources.ErrAdapterUnavailable)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %v: %w", url, err, sources.ErrAdapterUnavailable)
	}

	return doc, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// minimalProfile is the schema a fetched document must satisfy to count as
// a player profile at all.
type minimalProfile struct {
	Name  string `validate:"required_without=Title"`
	Title string `validate:"required_without=Name"`
}

// Validate checks that a parsed record is minimally viable. Failures map to
// ErrValidation, which the pipeline treats like an unavailable source.
func Validate(rec *models.PlayerRecord) error {
	if err := validate.Struct(minimalProfile{Name: rec.Name, Title: rec.Title}); err != nil {
		return fmt.Errorf("%v: %w", err, sources.ErrValidation)
	}
	return nil
}

var (
	spaceRun = regexp.MustCompile(`\s+`)
	firstNum = regexp.MustCompile(`\d+`)
)

// CleanText collapses whitespace runs and trims.
func CleanText(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// FirstInt extracts the first integer in a string, 0 when there is none.
// Handles source renderings like "178 cm" and "Age: 24".
func FirstInt(s string) int {
	m := firstNum.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}
