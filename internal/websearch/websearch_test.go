package websearch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const nyaaFixture = `<!DOCTYPE html>
<html><body>
<table class="torrent-list">
<thead><tr><th>Category</th><th>Name</th><th>Link</th><th>Size</th><th>Date</th><th>S</th><th>L</th><th>D</th></tr></thead>
<tbody>
<tr>
  <td><a href="/?c=1_2">Anime</a></td>
  <td><a href="/view/100" title="Big Buck Bunny 1080p">Big Buck Bunny 1080p</a> <a class="comments" href="/view/100#comments">3</a></td>
  <td><a href="/download/100.torrent"></a><a href="magnet:?xt=urn:btih:aaa&amp;dn=Big+Buck+Bunny"></a></td>
  <td>1.4 GiB</td>
  <td>2024-01-01</td>
  <td>120</td>
  <td>4</td>
  <td>900</td>
</tr>
<tr>
  <td><a href="/?c=1_2">Anime</a></td>
  <td><a href="/view/101" title="Sintel 720p">Sintel 720p</a></td>
  <td><a href="magnet:?xt=urn:btih:bbb&amp;dn=Sintel"></a></td>
  <td>700 MiB</td>
  <td>2024-01-02</td>
  <td>33</td>
  <td>12</td>
  <td>250</td>
</tr>
<tr>
  <td><a href="/?c=1_2">Anime</a></td>
  <td><a href="/view/102" title="No Magnet Here">No Magnet Here</a></td>
  <td><a href="/download/102.torrent"></a></td>
  <td>10 MiB</td>
  <td>2024-01-03</td>
  <td>1</td>
  <td>0</td>
  <td>5</td>
</tr>
</tbody>
</table>
</body></html>`

func TestNyaaParsesResultTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "bunny" {
			t.Errorf("query = %q, want bunny", got)
		}
		w.Write([]byte(nyaaFixture))
	}))
	defer srv.Close()

	n := NewNyaa()
	n.baseURL = srv.URL

	results, err := n.Search(context.Background(), "bunny")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	// Third row has no magnet link and must be dropped
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	first := results[0]
	if first.Name != "Big Buck Bunny 1080p" {
		t.Errorf("name = %q", first.Name)
	}
	if first.Size != "1.4 GiB" {
		t.Errorf("size = %q", first.Size)
	}
	if first.Seeders != 120 || first.Leechers != 4 {
		t.Errorf("seeders/leechers = %d/%d", first.Seeders, first.Leechers)
	}
	if first.Magnet != "magnet:?xt=urn:btih:aaa&dn=Big+Buck+Bunny" {
		t.Errorf("magnet = %q", first.Magnet)
	}
	if first.Source != "nyaa" {
		t.Errorf("source = %q", first.Source)
	}
}

func TestTorrentsCSVBuildsMagnets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"torrents":[
			{"infohash":"cafebabe","name":"Tears of Steel","size_bytes":734003200,"seeders":88,"leechers":7},
			{"infohash":"","name":"broken row","size_bytes":1,"seeders":0,"leechers":0}
		]}`))
	}))
	defer srv.Close()

	p := NewTorrentsCSV()
	p.baseURL = srv.URL

	results, err := p.Search(context.Background(), "steel")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	r := results[0]
	if r.Name != "Tears of Steel" {
		t.Errorf("name = %q", r.Name)
	}
	if r.Magnet != "magnet:?xt=urn:btih:cafebabe&dn=Tears+of+Steel" {
		t.Errorf("magnet = %q", r.Magnet)
	}
	if r.Size != "700.0 MiB" {
		t.Errorf("size = %q", r.Size)
	}
	if r.Source != "torrents-csv" {
		t.Errorf("source = %q", r.Source)
	}
}

type stubProvider struct {
	name    string
	results []Result
	err     error
}

func (s stubProvider) Name() string { return s.name }
func (s stubProvider) Search(ctx context.Context, query string) ([]Result, error) {
	return s.results, s.err
}

func TestMultiSkipsFailedSources(t *testing.T) {
	m := NewMulti(
		stubProvider{name: "dead", err: errors.New("unreachable")},
		stubProvider{name: "alive", results: []Result{{Name: "a"}, {Name: "b"}}},
	)

	results, err := m.Search(context.Background(), "x")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestSizeString(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{1536, "1.5 KiB"},
		{734003200, "700.0 MiB"},
		{1610612736, "1.5 GiB"},
	}
	for _, tt := range tests {
		if got := sizeString(tt.in); got != tt.want {
			t.Errorf("sizeString(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
