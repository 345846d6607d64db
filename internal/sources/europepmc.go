package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"shinkeireview/internal/core"
)

const (
	epmcSearchURL = "https://www.ebi.ac.uk/europepmc/webservices/rest/search"

	epmcPageSize = 100
)

// EuropePMCProvider fetches articles from the Europe PMC REST API with a
// single search request.
type EuropePMCProvider struct {
	client    *http.Client
	searchURL string
}

// NewEuropePMCProvider creates a Europe PMC provider with a 30-second HTTP
// timeout.
func NewEuropePMCProvider() *EuropePMCProvider {
	return &EuropePMCProvider{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		searchURL: epmcSearchURL,
	}
}

// Name returns the provider name.
func (p *EuropePMCProvider) Name() string {
	return "epmc"
}

// buildQuery converts the term vocabulary and date window into the Europe
// PMC query, restricted server-side to English-language journal articles
// with abstracts.
func (p *EuropePMCProvider) buildQuery(terms []string, window Window) string {
	from := window.From.Format("2006-01-02")
	to := window.To.Format("2006-01-02")
	return fmt.Sprintf(
		`%s AND (HAS_ABSTRACT:Y) AND (LANG:eng) AND (PUB_TYPE:"journal article") AND FIRST_PDATE:[%s TO %s]`,
		quoteTerms(terms), from, to,
	)
}

// Fetch searches Europe PMC for articles published inside the window.
func (p *EuropePMCProvider) Fetch(ctx context.Context, terms []string, window Window) ([]core.Article, error) {
	params := url.Values{}
	params.Set("query", p.buildQuery(terms, window))
	params.Set("format", "json")
	params.Set("pageSize", fmt.Sprintf("%d", epmcPageSize))
	params.Set("resultType", "core")

	req, err := http.NewRequestWithContext(ctx, "GET", p.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Europe PMC request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute Europe PMC request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Europe PMC request failed with status: %d", resp.StatusCode)
	}

	var apiResponse struct {
		ResultList struct {
			Result []struct {
				PMID                 string `json:"pmid"`
				DOI                  string `json:"doi"`
				Title                string `json:"title"`
				AbstractText         string `json:"abstractText"`
				JournalTitle         string `json:"journalTitle"`
				PubYear              string `json:"pubYear"`
				FirstPublicationDate string `json:"firstPublicationDate"`
				FullTextURLList      struct {
					FullTextURL []struct {
						URL string `json:"url"`
					} `json:"fullTextUrl"`
				} `json:"fullTextUrlList"`
			} `json:"result"`
		} `json:"resultList"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse Europe PMC response: %w", err)
	}

	articles := make([]core.Article, 0, len(apiResponse.ResultList.Result))
	for _, item := range apiResponse.ResultList.Result {
		published := item.FirstPublicationDate
		if published == "" {
			published = item.PubYear
		}

		var articleURL string
		if urls := item.FullTextURLList.FullTextURL; len(urls) > 0 {
			articleURL = urls[0].URL
		}

		articles = append(articles, core.Article{
			Source:    "epmc",
			PMID:      item.PMID,
			DOI:       item.DOI,
			Title:     item.Title,
			Abstract:  item.AbstractText,
			Journal:   item.JournalTitle,
			Year:      item.PubYear,
			Published: published,
			URL:       articleURL,
		})
	}
	return articles, nil
}
