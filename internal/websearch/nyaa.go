package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const nyaaBaseURL = "https://nyaa.si"

// Nyaa scrapes the nyaa.si result table
type Nyaa struct {
	baseURL string
	client  *http.Client
}

// NewNyaa creates the nyaa.si provider
func NewNyaa() *Nyaa {
	return &Nyaa{
		baseURL: nyaaBaseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Name returns the source name
func (n *Nyaa) Name() string {
	return "nyaa"
}

// Search queries nyaa.si and parses the result table
func (n *Nyaa) Search(ctx context.Context, query string) ([]Result, error) {
	searchURL := n.baseURL + "/?f=0&c=0_0&q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	return n.parseResults(doc), nil
}

// parseResults walks the torrent-list table rows. Column layout:
// category, name, links, size, date, seeders, leechers, downloads.
func (n *Nyaa) parseResults(doc *goquery.Document) []Result {
	var results []Result

	doc.Find("table.torrent-list tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 7 {
			return
		}

		r := Result{Source: n.Name()}

		// Name column holds the detail link plus an optional comments link
		cells.Eq(1).Find("a").Each(func(j int, a *goquery.Selection) {
			if a.HasClass("comments") {
				return
			}
			if title, ok := a.Attr("title"); ok && title != "" {
				r.Name = title
			} else {
				r.Name = strings.TrimSpace(a.Text())
			}
		})

		cells.Eq(2).Find("a[href^='magnet:']").Each(func(j int, a *goquery.Selection) {
			r.Magnet, _ = a.Attr("href")
		})

		r.Size = strings.TrimSpace(cells.Eq(3).Text())
		r.Seeders, _ = strconv.Atoi(strings.TrimSpace(cells.Eq(5).Text()))
		r.Leechers, _ = strconv.Atoi(strings.TrimSpace(cells.Eq(6).Text()))

		if r.Name != "" && r.Magnet != "" {
			results = append(results, r)
		}
	})

	return results
}
