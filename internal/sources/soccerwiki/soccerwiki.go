// Package soccerwiki adapts the SoccerWiki-style profile site: rich
// biography and attribute tables, no rating or transfer history.
package soccerwiki

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/PuerkitoBio/goquery"

	"github.com/pitchside/clover/internal/sources/scrape"
	"github.com/pitchside/clover/pkg/models"
	"github.com/pitchside/clover/pkg/normalizers"
	"github.com/pitchside/clover/pkg/sources"
	"github.com/pitchside/clover/pkg/tracing"
)

const sourceID = "soccerwiki"

// Adapter implements sources.Adapter for the SoccerWiki-style site.
type Adapter struct {
	baseURL string
	client  *http.Client
	logger  ectologger.Logger
}

// New creates the adapter. client must not be nil.
func New(baseURL string, client *http.Client, logger ectologger.Logger) *Adapter {
	return &Adapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

func (a *Adapter) Name() string {
	return sourceID
}

// Search queries the site's player search and returns every profile link on
// the result page, best first. An empty result is not an error.
func (a *Adapter) Search(ctx context.Context, name string) ([]sources.CandidateLink, error) {
	ctx, span := tracing.StartSpan(ctx, "soccerwiki.Adapter.Search")
	defer span.End()

	query := normalizers.SearchSlug(name)
	if query == "" {
		return nil, nil
	}

	searchURL := fmt.Sprintf("%s/search/?q=%s", a.baseURL, url.QueryEscape(query))
	doc, err := scrape.NewDocument(ctx, a.client, searchURL)
	if err != nil {
		return nil, err
	}

	var links []sources.CandidateLink
	doc.Find("table.search-results a.player-link").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		links = append(links, sources.CandidateLink{
			SourceID: sourceID,
			URL:      a.absolute(href),
		})
	})

	a.logger.WithContext(ctx).WithFields(map[string]any{
		"query": query,
		"links": len(links),
	}).Debug("SoccerWiki search complete")

	return links, nil
}

// FetchProfile retrieves and parses one profile page.
func (a *Adapter) FetchProfile(ctx context.Context, pageURL string) (*models.PlayerRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "soccerwiki.Adapter.FetchProfile")
	defer span.End()

	doc, err := scrape.NewDocument(ctx, a.client, pageURL)
	if err != nil {
		return nil, err
	}

	rec := parseProfile(doc)
	rec.Website = pageURL
	rec.Timestamp = time.Now().UTC()

	if err := scrape.Validate(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (a *Adapter) absolute(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return a.baseURL + "/" + strings.TrimLeft(href, "/")
}

// parseProfile maps a profile document onto the canonical record. Pure:
// same document, same record (modulo the caller-set metadata fields).
func parseProfile(doc *goquery.Document) *models.PlayerRecord {
	rec := &models.PlayerRecord{}

	rec.Name = scrape.CleanText(doc.Find("h1.player-name").First().Text())
	if title, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		rec.Title = scrape.CleanText(title)
	}

	doc.Find("table.player-info tr").Each(func(_ int, row *goquery.Selection) {
		label := scrape.CleanText(row.Find("th").Text())
		value := scrape.CleanText(row.Find("td").Text())
		if value == "" {
			return
		}

		switch strings.ToLower(label) {
		case "full name":
			rec.FullName = value
		case "age":
			rec.Age = scrape.FirstInt(value)
		case "born":
			rec.Born = value
		case "birth country":
			rec.BirthCountry = value
		case "country", "nationality":
			rec.Country = value
		case "other nationality":
			rec.OtherNationality = value
		case "preferred foot":
			rec.PreferredFoot = strings.ToLower(value)
		case "height":
			rec.Height = scrape.FirstInt(value)
		case "weight":
			rec.Weight = scrape.FirstInt(value)
		case "current club":
			rec.CurrentClub = value
		case "position":
			rec.Position = value
		case "shirt number", "number":
			rec.Number = scrape.FirstInt(value)
		case "caps":
			rec.Caps = value
		case "status":
			rec.Status = value
		case "value":
			rec.Value = value
		case "currency":
			rec.Currency = value
		case "highest value":
			rec.HighestValueInCareer = value
		}
	})

	doc.Find("table.player-attributes tr").Each(func(_ int, row *goquery.Selection) {
		name := scrape.CleanText(row.Find("td.attribute-name").Text())
		value := scrape.CleanText(row.Find("td.attribute-value").Text())
		if name == "" {
			return
		}
		rec.PlayerAttributes = append(rec.PlayerAttributes, models.PlayerAttribute{Name: name, Value: value})
	})

	doc.Find("table.player-titles tr").Each(func(_ int, row *goquery.Selection) {
		number := scrape.CleanText(row.Find("td.title-number").Text())
		name := scrape.CleanText(row.Find("td.title-name").Text())
		if name == "" {
			return
		}
		rec.Titles = append(rec.Titles, models.Honour{Number: number, Name: name})
	})

	if src, ok := doc.Find("img.player-portrait").Attr("src"); ok {
		rec.Image = src
	}

	return rec
}
