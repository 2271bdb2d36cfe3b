package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const torrentsCSVBaseURL = "https://torrents-csv.com"

// TorrentsCSV queries the torrents-csv.com JSON API
type TorrentsCSV struct {
	baseURL string
	client  *http.Client
}

// NewTorrentsCSV creates the torrents-csv.com provider
func NewTorrentsCSV() *TorrentsCSV {
	return &TorrentsCSV{
		baseURL: torrentsCSVBaseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Name returns the source name
func (t *TorrentsCSV) Name() string {
	return "torrents-csv"
}

type torrentsCSVResponse struct {
	Torrents []struct {
		InfoHash  string `json:"infohash"`
		Name      string `json:"name"`
		SizeBytes int64  `json:"size_bytes"`
		Seeders   int    `json:"seeders"`
		Leechers  int    `json:"leechers"`
	} `json:"torrents"`
}

// Search queries the JSON API and builds magnet links from info hashes
func (t *TorrentsCSV) Search(ctx context.Context, query string) ([]Result, error) {
	searchURL := t.baseURL + "/service/search?size=25&q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var payload torrentsCSVResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(payload.Torrents))
	for _, item := range payload.Torrents {
		if item.InfoHash == "" || item.Name == "" {
			continue
		}
		results = append(results, Result{
			Name:     item.Name,
			Size:     sizeString(item.SizeBytes),
			Seeders:  item.Seeders,
			Leechers: item.Leechers,
			Magnet:   magnetLink(item.InfoHash, item.Name),
			Source:   t.Name(),
		})
	}

	return results, nil
}

func magnetLink(infoHash, name string) string {
	return "magnet:?xt=urn:btih:" + infoHash + "&dn=" + url.QueryEscape(name)
}

func sizeString(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
