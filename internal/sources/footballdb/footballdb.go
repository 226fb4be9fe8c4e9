// Package footballdb adapts the FootballDatabase-style profile site: Elo
// rating, market values, transfer history and honours, sparser biography.
package footballdb

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

const sourceID = "footballdb"

// Adapter implements sources.Adapter for the FootballDatabase-style site.
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

// Search queries the site's search endpoint. The site tolerates extra terms
// in the query, which the orchestrator's composite fallback relies on.
func (a *Adapter) Search(ctx context.Context, name string) ([]sources.CandidateLink, error) {
	ctx, span := tracing.StartSpan(ctx, "footballdb.Adapter.Search")
	defer span.End()

	query := normalizers.SearchSlugWords(name)
	if query == "" {
		return nil, nil
	}

	searchURL := fmt.Sprintf("%s/search?q=%s", a.baseURL, url.QueryEscape(query))
	doc, err := scrape.NewDocument(ctx, a.client, searchURL)
	if err != nil {
		return nil, err
	}

	var links []sources.CandidateLink
	doc.Find("div.search-results a.result-player").Each(func(_ int, s *goquery.Selection) {
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
	}).Debug("FootballDB search complete")

	return links, nil
}

// FetchProfile retrieves and parses one profile page.
func (a *Adapter) FetchProfile(ctx context.Context, pageURL string) (*models.PlayerRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "footballdb.Adapter.FetchProfile")
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

func parseProfile(doc *goquery.Document) *models.PlayerRecord {
	rec := &models.PlayerRecord{}

	rec.Name = scrape.CleanText(doc.Find("h1.profile-name").First().Text())
	rec.Title = scrape.CleanText(doc.Find("title").First().Text())

	doc.Find("ul.profile-details li").Each(func(_ int, item *goquery.Selection) {
		label := scrape.CleanText(item.Find("span.label").Text())
		value := scrape.CleanText(item.Find("span.value").Text())
		if value == "" {
			return
		}

		switch strings.ToLower(label) {
		case "full name":
			rec.FullName = value
		case "age":
			rec.Age = scrape.FirstInt(value)
		case "date of birth":
			rec.Born = value
		case "country":
			rec.Country = value
		case "foot":
			rec.PreferredFoot = strings.ToLower(value)
		case "height":
			rec.Height = scrape.FirstInt(value)
		case "weight":
			rec.Weight = scrape.FirstInt(value)
		case "club":
			rec.CurrentClub = value
		case "position":
			rec.Position = value
		case "number":
			rec.Number = scrape.FirstInt(value)
		case "status":
			rec.Status = value
		}
	})

	rec.Elo = scrape.FirstInt(doc.Find("div.elo-rating span.points").Text())

	if value := scrape.CleanText(doc.Find("div.market-value span.amount").Text()); value != "" {
		rec.Value = value
		rec.Currency = scrape.CleanText(doc.Find("div.market-value span.currency").Text())
	}
	rec.HighestValueInCareer = scrape.CleanText(doc.Find("div.market-value span.career-high").Text())

	doc.Find("table.transfer-history tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		transfer := models.Transfer{
			Season: scrape.CleanText(cells.Eq(0).Text()),
			Team:   scrape.CleanText(cells.Eq(1).Text()),
			Amount: scrape.CleanText(cells.Eq(2).Text()),
		}
		if transfer.Season == "" && transfer.Team == "" {
			return
		}
		rec.Transfers = append(rec.Transfers, transfer)
	})

	doc.Find("table.honours tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		honour := models.Honour{
			Number: scrape.CleanText(cells.Eq(0).Text()),
			Name:   scrape.CleanText(cells.Eq(1).Text()),
		}
		if honour.Name == "" {
			return
		}
		rec.Awards = append(rec.Awards, honour)
	})

	if nationality := scrape.CleanText(doc.Find("div.nationalities span.other").Text()); nationality != "" {
		rec.OtherNationality = nationality
	}

	if src, ok := doc.Find("img.profile-photo").Attr("src"); ok {
		rec.Image = src
	}

	return rec
}
