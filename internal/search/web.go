package search

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultWebURL is the DuckDuckGo HTML endpoint.
const DefaultWebURL = "https://html.duckduckgo.com/html/"

// QuerySuffix is appended to every web query to keep results on topic.
const QuerySuffix = " CO2 storage reservoir characterization"

// DuckDuckGoClient searches the web by scraping DuckDuckGo's HTML results.
type DuckDuckGoClient struct {
	cfg   clientConfig
	cache *cache[WebResult]
}

// NewDuckDuckGoClient creates a web search client. Requests are not retried
// by default.
func NewDuckDuckGoClient(opts ...Option) *DuckDuckGoClient {
	cfg := newClientConfig(DefaultWebURL, 0, opts)
	cfg.log = cfg.log.With().Str("component", "search.web").Logger()
	return &DuckDuckGoClient{cfg: cfg, cache: newCache[WebResult](cfg.cacheTTL)}
}

// Search returns up to n results for query ordered by descending relevance.
// The query sent upstream carries QuerySuffix; scoring uses the query as
// given. On failure it returns the single-element error sentinel.
func (d *DuckDuckGoClient) Search(ctx context.Context, query string, n int) []WebResult {
	if n <= 0 {
		n = DefaultMaxResults
	}
	query = strings.TrimSpace(query)
	log := d.cfg.log.With().Str("query", query).Logger()
	log.Info().Msg("searching web")

	if query == "" {
		return failedWeb(fmt.Errorf("empty query"))
	}

	key := cacheKey(query, n)
	if cached, ok := d.cache.get(key); ok {
		log.Debug().Int("results", len(cached)).Msg("cache hit")
		return cached
	}

	params := url.Values{}
	params.Set("q", query+QuerySuffix)

	body, err := d.cfg.get(ctx, d.cfg.baseURL+"?"+params.Encode())
	if err != nil {
		log.Error().Err(err).Msg("web search failed")
		return failedWeb(err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Msg("web response not parseable")
		return failedWeb(fmt.Errorf("parsing results: %w", err))
	}

	results := make([]WebResult, 0, n)
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}
		link := s.Find(".result__a").First()
		title := collapseSpace(link.Text())
		if title == "" {
			return true
		}
		href, _ := link.Attr("href")
		snippet := collapseSpace(s.Find(".result__snippet").First().Text())
		results = append(results, WebResult{
			Title:     title,
			URL:       resolveRedirect(href),
			Snippet:   snippet,
			Relevance: WebRelevance(query, title, snippet),
		})
		return len(results) < n
	})

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})

	d.cache.set(key, results)
	log.Debug().Int("results", len(results)).Msg("web search done")
	return results
}

// resolveRedirect unwraps DuckDuckGo's "/l/?uddg=<target>" links.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" && strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	return href
}
