package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultArxivURL is the arXiv export API endpoint.
const DefaultArxivURL = "https://export.arxiv.org/api/query"

// ArxivClient searches arXiv through its Atom API.
type ArxivClient struct {
	cfg   clientConfig
	cache *cache[Paper]
}

// NewArxivClient creates an arXiv client. Requests are retried three times
// by default.
func NewArxivClient(opts ...Option) *ArxivClient {
	cfg := newClientConfig(DefaultArxivURL, 3, opts)
	cfg.log = cfg.log.With().Str("component", "search.arxiv").Logger()
	return &ArxivClient{cfg: cfg, cache: newCache[Paper](cfg.cacheTTL)}
}

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
	Links []struct {
		Href  string `xml:"href,attr"`
		Rel   string `xml:"rel,attr"`
		Title string `xml:"title,attr"`
		Type  string `xml:"type,attr"`
	} `xml:"link"`
	Categories []struct {
		Term string `xml:"term,attr"`
	} `xml:"category"`
}

// Search returns up to n papers for query ordered by descending relevance.
// On failure it returns the single-element error sentinel.
func (a *ArxivClient) Search(ctx context.Context, query string, n int) []Paper {
	if n <= 0 {
		n = DefaultMaxResults
	}
	query = strings.TrimSpace(query)
	log := a.cfg.log.With().Str("query", query).Logger()
	log.Info().Msg("searching arXiv")

	if query == "" {
		return failedPapers(fmt.Errorf("empty query"))
	}

	key := cacheKey(query, n)
	if cached, ok := a.cache.get(key); ok {
		log.Debug().Int("results", len(cached)).Msg("cache hit")
		return cached
	}

	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(n))
	params.Set("sortBy", "relevance")

	body, err := a.cfg.get(ctx, a.cfg.baseURL+"?"+params.Encode())
	if err != nil {
		log.Error().Err(err).Msg("arXiv search failed")
		return failedPapers(err)
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		log.Error().Err(err).Msg("arXiv response not parseable")
		return failedPapers(fmt.Errorf("parsing feed: %w", err))
	}

	papers := make([]Paper, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		if strings.TrimSpace(e.Title) == "" {
			log.Warn().Str("id", e.ID).Msg("skipping entry without title")
			continue
		}
		papers = append(papers, toPaper(query, e))
		if len(papers) == n {
			break
		}
	}

	sort.SliceStable(papers, func(i, j int) bool {
		return papers[i].Relevance > papers[j].Relevance
	})

	a.cache.set(key, papers)
	log.Debug().Int("results", len(papers)).Msg("arXiv search done")
	return papers
}

func toPaper(query string, e atomEntry) Paper {
	p := Paper{
		Title:    collapseSpace(e.Title),
		Abstract: strings.TrimSpace(e.Summary),
		URL:      pdfLink(e),
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Published)); err == nil {
		p.Published = t.Format("2006-01-02")
	}
	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}
	for _, c := range e.Categories {
		if c.Term != "" {
			p.Categories = append(p.Categories, c.Term)
		}
	}
	p.Relevance = PaperRelevance(query, p.Title, p.Abstract)
	return p
}

// pdfLink prefers the PDF link of an entry and falls back to its id.
func pdfLink(e atomEntry) string {
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			return l.Href
		}
	}
	return strings.TrimSpace(e.ID)
}
