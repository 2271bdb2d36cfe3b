package transmission

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
)

// newTestClient points a Client at the given handler
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, _ := strconv.Atoi(u.Port())

	return NewClient(u.Hostname(), port, "", "")
}

func TestSessionIDHandshake(t *testing.T) {
	const sessionID = "abc123"
	var sawRetry bool

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(sessionIDHeader) != sessionID {
			w.Header().Set(sessionIDHeader, sessionID)
			w.WriteHeader(http.StatusConflict)
			return
		}
		sawRetry = true
		fmt.Fprint(w, `{"result":"success","arguments":{"version":"4.0.5"}}`)
	}))

	s, err := c.Session(context.Background())
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if !sawRetry {
		t.Error("client did not retry with the session id from the 409")
	}
	if s.Version != "4.0.5" {
		t.Errorf("version = %q, want 4.0.5", s.Version)
	}

	// subsequent calls reuse the cached session id without a new 409
	if _, err := c.Session(context.Background()); err != nil {
		t.Fatalf("second Session call: %v", err)
	}
}

func TestConcurrentCallsShareSessionID(t *testing.T) {
	const sessionID = "xyz789"

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(sessionIDHeader) != sessionID {
			w.Header().Set(sessionIDHeader, sessionID)
			w.WriteHeader(http.StatusConflict)
			return
		}
		fmt.Fprint(w, `{"result":"success","arguments":{}}`)
	}))

	// Parallel Session and Stats calls, like fetchTorrents and fetchSession
	// fired from the same tea.Batch
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Session(context.Background()); err != nil {
				errs <- err
			}
			if _, err := c.Stats(context.Background()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent call failed: %v", err)
	}
}

func TestStatsDecoding(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":"success","arguments":{
			"downloadSpeed":1024,"uploadSpeed":512,
			"torrentCount":9,"activeTorrentCount":4,"pausedTorrentCount":5,
			"current-stats":{"uploadedBytes":100,"downloadedBytes":200,
				"filesAdded":3,"sessionCount":1,"secondsActive":60},
			"cumulative-stats":{"uploadedBytes":5000,"downloadedBytes":4000,
				"filesAdded":40,"sessionCount":12,"secondsActive":86400}
		}}`)
	}))

	s, err := c.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.DownloadSpeed != 1024 || s.TorrentCount != 9 {
		t.Errorf("session stats = %+v", s)
	}
	if s.Current.UploadedBytes != 100 || s.Current.SecondsActive != 60 {
		t.Errorf("current stats = %+v", s.Current)
	}
	if s.Total.DownloadedBytes != 4000 || s.Total.SessionCount != 12 {
		t.Errorf("cumulative stats = %+v", s.Total)
	}
}

func TestTorrentsDecoding(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Method != "torrent-get" {
			t.Errorf("method = %q, want torrent-get", req.Method)
		}

		fmt.Fprint(w, `{"result":"success","arguments":{"torrents":[
			{"id":7,"hashString":"deadbeef","name":"debian.iso","status":6,
			 "totalSize":1000,"sizeWhenDone":1000,"leftUntilDone":0,
			 "percentDone":1.0,"eta":-1,"rateUpload":2048,"rateDownload":0,
			 "uploadRatio":1.5,"peersConnected":4,"labels":["linux"]},
			{"id":8,"hashString":"cafe","name":"arch.iso","status":0}
		]}}`)
	}))

	torrents, err := c.Torrents(context.Background())
	if err != nil {
		t.Fatalf("Torrents: %v", err)
	}
	if len(torrents) != 2 {
		t.Fatalf("len = %d, want 2", len(torrents))
	}

	first := torrents[0]
	if first.ID != 7 || first.Name != "debian.iso" || first.Status != StatusSeeding {
		t.Errorf("first torrent = %+v", first)
	}
	if first.Ratio != 1.5 || first.RateUpload != 2048 || len(first.Labels) != 1 {
		t.Errorf("first torrent fields = %+v", first)
	}
	if torrents[1].Status != StatusStopped {
		t.Errorf("second status = %q, want stopped", torrents[1].Status)
	}
}

func TestRPCErrorResult(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":"method not recognized"}`)
	}))

	if _, err := c.Torrents(context.Background()); err == nil {
		t.Error("non-success result must surface as an error")
	}
}

func TestRemoveArguments(t *testing.T) {
	var got struct {
		IDs        []int64 `json:"ids"`
		DeleteData bool    `json:"delete-local-data"`
	}

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method    string          `json:"method"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Method != "torrent-remove" {
			t.Errorf("method = %q", req.Method)
		}
		if err := json.Unmarshal(req.Arguments, &got); err != nil {
			t.Errorf("bad arguments: %v", err)
		}
		fmt.Fprint(w, `{"result":"success"}`)
	}))

	if err := c.Remove(context.Background(), []int64{3, 5}, true); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(got.IDs) != 2 || got.IDs[0] != 3 || !got.DeleteData {
		t.Errorf("arguments = %+v", got)
	}
}

func TestCountByStatus(t *testing.T) {
	torrents := []Torrent{
		{Status: StatusDownloading, SizeWhenDone: 100, LeftUntilDone: 40},
		{Status: StatusSeeding, SizeWhenDone: 50},
		{Status: StatusStopped, SizeWhenDone: 10, LeftUntilDone: 10},
		{Status: StatusChecking},
	}

	c := CountByStatus(torrents)
	if c.Count != 4 || c.Down != 1 || c.Seed != 1 || c.Check != 1 || c.Stop != 1 {
		t.Errorf("counts = %+v", c)
	}
	if c.TotalSize != 160 || c.CompleteSize != 110 {
		t.Errorf("sizes = total %d complete %d, want 160/110", c.TotalSize, c.CompleteSize)
	}
}
