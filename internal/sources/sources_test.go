package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shinkeireview/internal/core"
)

const efetchXML = `<?xml version="1.0"?>
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>12345</PMID>
      <Article>
        <Journal>
          <JournalIssue>
            <PubDate><Year>2024</Year><Month>Mar</Month><Day>2</Day></PubDate>
          </JournalIssue>
          <Title>The Lancet Neurology</Title>
        </Journal>
        <ArticleTitle>Thrombectomy outcomes in acute stroke</ArticleTitle>
        <Abstract>
          <AbstractText>Background text.</AbstractText>
          <AbstractText>Results text.</AbstractText>
        </Abstract>
      </Article>
    </MedlineCitation>
    <PubmedData>
      <ArticleIdList>
        <ArticleId IdType="pubmed">12345</ArticleId>
        <ArticleId IdType="doi">10.1016/S1474-4422(24)00001-1</ArticleId>
      </ArticleIdList>
    </PubmedData>
  </PubmedArticle>
</PubmedArticleSet>`

func TestPubMedFetch(t *testing.T) {
	var searchQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("/esearch.fcgi", func(w http.ResponseWriter, r *http.Request) {
		searchQuery = r.URL.Query().Get("term")
		if got := r.URL.Query().Get("reldate"); got != "1" {
			t.Errorf("expected reldate=1, got %q", got)
		}
		fmt.Fprint(w, `{"esearchresult":{"idlist":["12345"]}}`)
	})
	mux.HandleFunc("/efetch.fcgi", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "12345" {
			t.Errorf("expected id=12345, got %q", got)
		}
		fmt.Fprint(w, efetchXML)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	provider := NewPubMedProvider()
	provider.searchURL = server.URL + "/esearch.fcgi"
	provider.fetchURL = server.URL + "/efetch.fcgi"

	articles, err := provider.Fetch(context.Background(), []string{"stroke", "seizure"}, Window{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if want := `("stroke" OR "seizure") AND humans[mesh] AND english[lang]`; searchQuery != want {
		t.Errorf("query = %q, want %q", searchQuery, want)
	}

	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	a := articles[0]
	if a.Source != "pubmed" || a.PMID != "12345" {
		t.Errorf("unexpected identity: source=%q pmid=%q", a.Source, a.PMID)
	}
	if a.DOI != "10.1016/S1474-4422(24)00001-1" {
		t.Errorf("unexpected DOI: %q", a.DOI)
	}
	if a.Abstract != "Background text. Results text." {
		t.Errorf("abstract sections not joined: %q", a.Abstract)
	}
	if a.Published != "2024-Mar-2" {
		t.Errorf("unexpected published date: %q", a.Published)
	}
	if a.URL != "https://pubmed.ncbi.nlm.nih.gov/12345/" {
		t.Errorf("unexpected URL: %q", a.URL)
	}
}

func TestPubMedFetchNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"esearchresult":{"idlist":[]}}`)
	}))
	defer server.Close()

	provider := NewPubMedProvider()
	provider.searchURL = server.URL
	provider.fetchURL = server.URL // Must never be hit

	articles, err := provider.Fetch(context.Background(), []string{"stroke"}, Window{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("expected no articles, got %d", len(articles))
	}
}

func TestEuropePMCFetch(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("query")
		fmt.Fprint(w, `{"resultList":{"result":[{
			"pmid":"67890",
			"doi":"10.1093/brain/awae001",
			"title":"Seizure forecasting in focal epilepsy",
			"abstractText":"Abstract body.",
			"journalTitle":"Brain",
			"pubYear":"2024",
			"firstPublicationDate":"2024-03-01",
			"fullTextUrlList":{"fullTextUrl":[{"url":"https://example.org/full"}]}
		}]}}`)
	}))
	defer server.Close()

	provider := NewEuropePMCProvider()
	provider.searchURL = server.URL

	window := Window{
		From: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	articles, err := provider.Fetch(context.Background(), []string{"epilepsy"}, window)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if !strings.Contains(query, `FIRST_PDATE:[2024-03-01 TO 2024-03-02]`) {
		t.Errorf("date window missing from query: %q", query)
	}
	if !strings.Contains(query, `(HAS_ABSTRACT:Y)`) || !strings.Contains(query, `(PUB_TYPE:"journal article")`) {
		t.Errorf("server-side filters missing from query: %q", query)
	}

	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	a := articles[0]
	if a.Source != "epmc" || a.Journal != "Brain" {
		t.Errorf("unexpected record: source=%q journal=%q", a.Source, a.Journal)
	}
	if a.URL != "https://example.org/full" {
		t.Errorf("first full-text URL not picked: %q", a.URL)
	}
}

type stubProvider struct {
	name     string
	articles []core.Article
	err      error
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Fetch(ctx context.Context, terms []string, window Window) ([]core.Article, error) {
	return s.articles, s.err
}

func TestManagerOrderAndFailure(t *testing.T) {
	first := &stubProvider{name: "a", articles: []core.Article{{Title: "from-a"}}}
	second := &stubProvider{name: "b", articles: []core.Article{{Title: "from-b"}}}

	items, err := NewManager(first, second).FetchAll(context.Background(), nil, Window{})
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(items) != 2 || items[0].Title != "from-a" || items[1].Title != "from-b" {
		t.Errorf("registration order not preserved: %+v", items)
	}

	second.err = errors.New("boom")
	if _, err := NewManager(first, second).FetchAll(context.Background(), nil, Window{}); err == nil {
		t.Error("expected provider failure to abort the fetch")
	}
}

func TestTermUnion(t *testing.T) {
	diseases := []core.Disease{
		{ID: "stroke", Terms: []string{"stroke", "tia"}},
		{ID: "epilepsy", Terms: []string{"seizure", "stroke"}},
	}

	terms := TermUnion(diseases)
	want := []string{"seizure", "stroke", "tia"}
	if len(terms) != len(want) {
		t.Fatalf("expected %v, got %v", want, terms)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Errorf("expected %v, got %v", want, terms)
			break
		}
	}
}
