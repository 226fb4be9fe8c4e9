package footballdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/clover/pkg/models"
	"github.com/pitchside/clover/pkg/sources"
)

const searchPage = `<html><body>
<div class="search-results">
  <a class="result-player" href="/players/9876">Kylian Mbappé</a>
  <a class="result-club" href="/clubs/12">Real Madrid</a>
</div>
</body></html>`

const profilePage = `<html><head><title>Kylian Mbappé | FootballDB</title></head><body>
<h1 class="profile-name">Kylian Mbappé</h1>
<img class="profile-photo" src="/photos/9876.jpg">
<ul class="profile-details">
  <li><span class="label">Full Name</span><span class="value">Kylian Mbappé Lottin</span></li>
  <li><span class="label">Age</span><span class="value">26</span></li>
  <li><span class="label">Date of Birth</span><span class="value">1998-12-20</span></li>
  <li><span class="label">Country</span><span class="value">France</span></li>
  <li><span class="label">Foot</span><span class="value">Right</span></li>
  <li><span class="label">Height</span><span class="value">178cm</span></li>
  <li><span class="label">Weight</span><span class="value"></span></li>
  <li><span class="label">Club</span><span class="value">Real Madrid CF</span></li>
  <li><span class="label">Position</span><span class="value">ST</span></li>
  <li><span class="label">Number</span><span class="value">9</span></li>
  <li><span class="label">Status</span><span class="value">Active</span></li>
</ul>
<div class="elo-rating"><span class="points">2104</span></div>
<div class="market-value">
  <span class="amount">180</span><span class="currency">EUR</span>
  <span class="career-high">200</span>
</div>
<div class="nationalities"><span class="other">Cameroon</span></div>
<table class="transfer-history">
  <tbody>
    <tr><td>2017/18</td><td>Paris Saint-Germain</td><td>€180m</td></tr>
    <tr><td>2024/25</td><td>Real Madrid CF</td><td>free</td></tr>
    <tr><td></td><td></td><td></td></tr>
  </tbody>
</table>
<table class="honours">
  <tbody>
    <tr><td>1</td><td>World Cup</td></tr>
    <tr><td>6</td><td>Ligue 1</td></tr>
  </tbody>
</table>
</body></html>`

func newTestAdapter(t *testing.T, handler http.HandlerFunc) (*Adapter, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, srv.Client(), ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {})), srv
}

func TestSearch(t *testing.T) {
	var gotQuery string
	adapter, srv := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(searchPage))
	})

	links, err := adapter.Search(context.Background(), "Kylian Mbappé")
	require.NoError(t, err)

	// Word query, not a slug: the site tolerates extra terms.
	assert.Equal(t, "kylian mbappe", gotQuery)

	require.Len(t, links, 1)
	assert.Equal(t, sources.CandidateLink{SourceID: "footballdb", URL: srv.URL + "/players/9876"}, links[0])
}

func TestFetchProfile(t *testing.T) {
	adapter, srv := newTestAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(profilePage))
	})

	rec, err := adapter.FetchProfile(context.Background(), srv.URL+"/players/9876")
	require.NoError(t, err)

	assert.Equal(t, "Kylian Mbappé", rec.Name)
	assert.Equal(t, "Kylian Mbappé | FootballDB", rec.Title)
	assert.Equal(t, "Kylian Mbappé Lottin", rec.FullName)
	assert.Equal(t, 26, rec.Age)
	assert.Equal(t, "1998-12-20", rec.Born)
	assert.Equal(t, "France", rec.Country)
	assert.Equal(t, "right", rec.PreferredFoot)
	assert.Equal(t, 178, rec.Height)
	// Empty weight cell leaves the unknown value.
	assert.Equal(t, 0, rec.Weight)
	assert.Equal(t, "Real Madrid CF", rec.CurrentClub)
	assert.Equal(t, "ST", rec.Position)
	assert.Equal(t, 9, rec.Number)
	assert.Equal(t, "Active", rec.Status)

	assert.Equal(t, 2104, rec.Elo)
	assert.Equal(t, "180", rec.Value)
	assert.Equal(t, "EUR", rec.Currency)
	assert.Equal(t, "200", rec.HighestValueInCareer)
	assert.Equal(t, "Cameroon", rec.OtherNationality)

	assert.Equal(t, []models.Transfer{
		{Season: "2017/18", Team: "Paris Saint-Germain", Amount: "€180m"},
		{Season: "2024/25", Team: "Real Madrid CF", Amount: "free"},
	}, rec.Transfers)
	assert.Equal(t, []models.Honour{
		{Number: "1", Name: "World Cup"},
		{Number: "6", Name: "Ligue 1"},
	}, rec.Awards)

	assert.Equal(t, "/photos/9876.jpg", rec.Image)
	assert.Equal(t, srv.URL+"/players/9876", rec.Website)
}

func TestFetchProfile_UnidentifiablePageFailsValidation(t *testing.T) {
	adapter, srv := newTestAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html><head></head><body><p>empty</p></body></html>`))
	})

	_, err := adapter.FetchProfile(context.Background(), srv.URL+"/players/404")
	assert.ErrorIs(t, err, sources.ErrValidation)
}
