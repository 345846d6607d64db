package sources

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shinkeireview/internal/core"
)

const (
	pubmedSearchURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	pubmedFetchURL  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"

	pubmedRetMax = 200
)

// PubMedProvider fetches articles from NCBI E-utilities: an esearch request
// for the prior day's PMIDs followed by one efetch batch detail request.
type PubMedProvider struct {
	client    *http.Client
	searchURL string
	fetchURL  string
}

// NewPubMedProvider creates a PubMed provider with a 30-second HTTP timeout.
func NewPubMedProvider() *PubMedProvider {
	return &PubMedProvider{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		searchURL: pubmedSearchURL,
		fetchURL:  pubmedFetchURL,
	}
}

// Name returns the provider name.
func (p *PubMedProvider) Name() string {
	return "pubmed"
}

// buildQuery converts the term vocabulary into the PubMed boolean query,
// restricted to human-subject English-language records.
func (p *PubMedProvider) buildQuery(terms []string) string {
	return quoteTerms(terms) + " AND humans[mesh] AND english[lang]"
}

// Fetch searches PubMed for the prior day's publications and fetches their
// details. The window argument is unused: PubMed's own reldate filter
// restricts results server-side to the previous day.
func (p *PubMedProvider) Fetch(ctx context.Context, terms []string, _ Window) ([]core.Article, error) {
	ids, err := p.search(ctx, terms)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return p.fetchDetails(ctx, ids)
}

func (p *PubMedProvider) search(ctx context.Context, terms []string) ([]string, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", p.buildQuery(terms))
	params.Set("retmode", "json")
	params.Set("retmax", fmt.Sprintf("%d", pubmedRetMax))
	params.Set("reldate", "1")
	params.Set("datetype", "pdat")

	req, err := http.NewRequestWithContext(ctx, "GET", p.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create esearch request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute esearch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("esearch request failed with status: %d", resp.StatusCode)
	}

	var searchResp struct {
		ESearchResult struct {
			IDList []string `json:"idlist"`
		} `json:"esearchresult"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse esearch response: %w", err)
	}

	return searchResp.ESearchResult.IDList, nil
}

// pubmedArticleSet mirrors the efetch XML layout down to the fields the
// pipeline consumes.
type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	MedlineCitation struct {
		PMID    string `xml:"PMID"`
		Article struct {
			Title    string `xml:"ArticleTitle"`
			Abstract struct {
				Texts []string `xml:"AbstractText"`
			} `xml:"Abstract"`
			Journal struct {
				Title        string `xml:"Title"`
				JournalIssue struct {
					PubDate struct {
						Year  string `xml:"Year"`
						Month string `xml:"Month"`
						Day   string `xml:"Day"`
					} `xml:"PubDate"`
				} `xml:"JournalIssue"`
			} `xml:"Journal"`
		} `xml:"Article"`
	} `xml:"MedlineCitation"`
	PubmedData struct {
		ArticleIDs []struct {
			IDType string `xml:"IdType,attr"`
			Value  string `xml:",chardata"`
		} `xml:"ArticleIdList>ArticleId"`
	} `xml:"PubmedData"`
}

func (p *PubMedProvider) fetchDetails(ctx context.Context, ids []string) ([]core.Article, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "xml")

	req, err := http.NewRequestWithContext(ctx, "GET", p.fetchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create efetch request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute efetch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("efetch request failed with status: %d", resp.StatusCode)
	}

	var set pubmedArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("failed to parse efetch response: %w", err)
	}

	articles := make([]core.Article, 0, len(set.Articles))
	for _, entry := range set.Articles {
		articles = append(articles, p.toArticle(entry))
	}
	return articles, nil
}

func (p *PubMedProvider) toArticle(entry pubmedArticle) core.Article {
	cit := entry.MedlineCitation
	pmid := strings.TrimSpace(cit.PMID)

	abstract := strings.TrimSpace(strings.Join(cit.Article.Abstract.Texts, " "))

	var doi string
	for _, id := range entry.PubmedData.ArticleIDs {
		if id.IDType == "doi" {
			doi = strings.TrimSpace(id.Value)
		}
	}

	pub := cit.Article.Journal.JournalIssue.PubDate
	var parts []string
	for _, part := range []string{pub.Year, pub.Month, pub.Day} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	published := strings.Join(parts, "-")
	if published == "" {
		published = pub.Year
	}

	var articleURL string
	if pmid != "" {
		articleURL = fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s/", pmid)
	}

	return core.Article{
		Source:    "pubmed",
		PMID:      pmid,
		DOI:       doi,
		Title:     strings.TrimSpace(cit.Article.Title),
		Abstract:  abstract,
		Journal:   cit.Article.Journal.Title,
		Year:      pub.Year,
		Published: published,
		URL:       articleURL,
	}
}
