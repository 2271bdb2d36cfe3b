// Package transmission provides a client for the Transmission RPC API.
// It handles the CSRF session-id handshake, torrent management (add, start,
// stop, verify, reannounce, remove) and session statistics for the TUI.
package transmission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const sessionIDHeader = "X-Transmission-Session-Id"

// Client interfaces with the Transmission RPC endpoint
type Client struct {
	rpcURL     string
	username   string
	password   string
	httpClient *http.Client

	// sessionID is shared between concurrent calls running in separate
	// tea.Cmd goroutines.
	mu        sync.Mutex
	sessionID string
}

// NewClient creates a new Transmission RPC client
func NewClient(host string, port int, username, password string) *Client {
	return &Client{
		rpcURL:   fmt.Sprintf("http://%s:%d/transmission/rpc", host, port),
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type rpcRequest struct {
	Method    string `json:"method"`
	Arguments any    `json:"arguments,omitempty"`
}

type rpcResponse struct {
	Result    string          `json:"result"`
	Arguments json.RawMessage `json:"arguments"`
}

// call performs one RPC round trip, retrying once on a 409 to pick up
// the session id the daemon hands out.
func (c *Client) call(ctx context.Context, method string, args any, out any) error {
	payload, err := json.Marshal(rpcRequest{Method: method, Arguments: args})
	if err != nil {
		return err
	}

	for attempt := 0; attempt < 2; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "POST", c.rpcURL, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		c.mu.Lock()
		sessionID := c.sessionID
		c.mu.Unlock()
		if sessionID != "" {
			req.Header.Set(sessionIDHeader, sessionID)
		}
		if c.username != "" {
			req.SetBasicAuth(c.username, c.password)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to connect to transmission: %w", err)
		}

		if resp.StatusCode == http.StatusConflict {
			c.mu.Lock()
			c.sessionID = resp.Header.Get(sessionIDHeader)
			c.mu.Unlock()
			resp.Body.Close()
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("transmission returned %s", resp.Status)
		}

		var rpcResp rpcResponse
		if err := json.Unmarshal(body, &rpcResp); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		if rpcResp.Result != "success" {
			return fmt.Errorf("%s failed: %s", method, rpcResp.Result)
		}
		if out != nil && len(rpcResp.Arguments) > 0 {
			return json.Unmarshal(rpcResp.Arguments, out)
		}
		return nil
	}

	return fmt.Errorf("transmission session handshake failed")
}

var torrentFields = []string{
	"id", "hashString", "name", "status",
	"totalSize", "sizeWhenDone", "leftUntilDone", "percentDone",
	"eta", "rateUpload", "rateDownload", "uploadRatio",
	"peersConnected", "peersGettingFromUs", "peersSendingToUs",
	"uploadedEver", "bandwidthPriority", "addedDate", "activityDate",
	"queuePosition", "downloadDir", "labels",
}

type torrentJSON struct {
	ID             int64    `json:"id"`
	HashString     string   `json:"hashString"`
	Name           string   `json:"name"`
	Status         int      `json:"status"`
	TotalSize      int64    `json:"totalSize"`
	SizeWhenDone   int64    `json:"sizeWhenDone"`
	LeftUntilDone  int64    `json:"leftUntilDone"`
	PercentDone    float64  `json:"percentDone"`
	ETA            int64    `json:"eta"`
	RateUpload     int64    `json:"rateUpload"`
	RateDownload   int64    `json:"rateDownload"`
	UploadRatio    float64  `json:"uploadRatio"`
	PeersConnected int      `json:"peersConnected"`
	PeersGetting   int      `json:"peersGettingFromUs"`
	PeersSending   int      `json:"peersSendingToUs"`
	UploadedEver   int64    `json:"uploadedEver"`
	Priority       int      `json:"bandwidthPriority"`
	AddedDate      int64    `json:"addedDate"`
	ActivityDate   int64    `json:"activityDate"`
	QueuePosition  int      `json:"queuePosition"`
	DownloadDir    string   `json:"downloadDir"`
	Labels         []string `json:"labels"`
}

// Torrents returns the full ordered torrent list
func (c *Client) Torrents(ctx context.Context) ([]Torrent, error) {
	var out struct {
		Torrents []torrentJSON `json:"torrents"`
	}

	args := map[string]any{"fields": torrentFields}
	if err := c.call(ctx, "torrent-get", args, &out); err != nil {
		return nil, err
	}

	torrents := make([]Torrent, 0, len(out.Torrents))
	for _, t := range out.Torrents {
		torrents = append(torrents, Torrent{
			ID:             t.ID,
			Hash:           t.HashString,
			Name:           t.Name,
			Status:         statusName(t.Status),
			TotalSize:      t.TotalSize,
			SizeWhenDone:   t.SizeWhenDone,
			LeftUntilDone:  t.LeftUntilDone,
			PercentDone:    t.PercentDone,
			ETA:            t.ETA,
			RateUpload:     t.RateUpload,
			RateDownload:   t.RateDownload,
			Ratio:          t.UploadRatio,
			PeersConnected: t.PeersConnected,
			PeersGetting:   t.PeersGetting,
			PeersSending:   t.PeersSending,
			UploadedEver:   t.UploadedEver,
			Priority:       t.Priority,
			AddedDate:      t.AddedDate,
			ActivityDate:   t.ActivityDate,
			QueuePosition:  t.QueuePosition,
			DownloadDir:    t.DownloadDir,
			Labels:         t.Labels,
		})
	}

	return torrents, nil
}

// Start starts the given torrents
func (c *Client) Start(ctx context.Context, ids []int64) error {
	return c.call(ctx, "torrent-start", idArgs(ids), nil)
}

// StartAll starts every torrent known to the daemon
func (c *Client) StartAll(ctx context.Context) error {
	return c.call(ctx, "torrent-start", nil, nil)
}

// Stop stops the given torrents
func (c *Client) Stop(ctx context.Context, ids []int64) error {
	return c.call(ctx, "torrent-stop", idArgs(ids), nil)
}

// StopAll stops every torrent known to the daemon
func (c *Client) StopAll(ctx context.Context) error {
	return c.call(ctx, "torrent-stop", nil, nil)
}

// Verify queues the given torrents for local data verification
func (c *Client) Verify(ctx context.Context, ids []int64) error {
	return c.call(ctx, "torrent-verify", idArgs(ids), nil)
}

// Reannounce re-asks trackers for more peers
func (c *Client) Reannounce(ctx context.Context, ids []int64) error {
	return c.call(ctx, "torrent-reannounce", idArgs(ids), nil)
}

// Remove removes torrents, optionally deleting downloaded data
func (c *Client) Remove(ctx context.Context, ids []int64, deleteData bool) error {
	args := map[string]any{
		"ids":               ids,
		"delete-local-data": deleteData,
	}
	return c.call(ctx, "torrent-remove", args, nil)
}

// Add adds a torrent by magnet link, URL, or local file path
func (c *Client) Add(ctx context.Context, value string) error {
	return c.call(ctx, "torrent-add", map[string]any{"filename": value}, nil)
}

// SetLabels replaces the labels on the given torrents
func (c *Client) SetLabels(ctx context.Context, ids []int64, labels []string) error {
	args := map[string]any{
		"ids":    ids,
		"labels": labels,
	}
	return c.call(ctx, "torrent-set", args, nil)
}

// Session returns daemon-wide settings
func (c *Client) Session(ctx context.Context) (Session, error) {
	var out struct {
		Version              string `json:"version"`
		DownloadDir          string `json:"download-dir"`
		DownloadDirFreeSpace int64  `json:"download-dir-free-space"`
		AltSpeedEnabled      bool   `json:"alt-speed-enabled"`
		SpeedLimitDown       int64  `json:"speed-limit-down"`
		SpeedLimitDownOn     bool   `json:"speed-limit-down-enabled"`
		SpeedLimitUp         int64  `json:"speed-limit-up"`
		SpeedLimitUpOn       bool   `json:"speed-limit-up-enabled"`
	}

	if err := c.call(ctx, "session-get", nil, &out); err != nil {
		return Session{}, err
	}

	return Session{
		Version:              out.Version,
		DownloadDir:          out.DownloadDir,
		DownloadDirFreeSpace: out.DownloadDirFreeSpace,
		AltSpeedEnabled:      out.AltSpeedEnabled,
		SpeedLimitDown:       out.SpeedLimitDown,
		SpeedLimitDownOn:     out.SpeedLimitDownOn,
		SpeedLimitUp:         out.SpeedLimitUp,
		SpeedLimitUpOn:       out.SpeedLimitUpOn,
	}, nil
}

// ToggleAltSpeed flips the alternative speed limits and reports the new state
func (c *Client) ToggleAltSpeed(ctx context.Context) (bool, error) {
	s, err := c.Session(ctx)
	if err != nil {
		return false, err
	}

	enabled := !s.AltSpeedEnabled
	args := map[string]any{"alt-speed-enabled": enabled}
	if err := c.call(ctx, "session-set", args, nil); err != nil {
		return false, err
	}

	return enabled, nil
}

type transferStatsJSON struct {
	UploadedBytes   int64 `json:"uploadedBytes"`
	DownloadedBytes int64 `json:"downloadedBytes"`
	FilesAdded      int   `json:"filesAdded"`
	SessionCount    int   `json:"sessionCount"`
	SecondsActive   int64 `json:"secondsActive"`
}

func (t transferStatsJSON) stats() TransferStats {
	return TransferStats{
		UploadedBytes:   t.UploadedBytes,
		DownloadedBytes: t.DownloadedBytes,
		FilesAdded:      t.FilesAdded,
		SessionCount:    t.SessionCount,
		SecondsActive:   t.SecondsActive,
	}
}

// Stats returns session transfer statistics, both the running session
// and the daemon's cumulative totals
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var out struct {
		DownloadSpeed int64             `json:"downloadSpeed"`
		UploadSpeed   int64             `json:"uploadSpeed"`
		TorrentCount  int               `json:"torrentCount"`
		ActiveCount   int               `json:"activeTorrentCount"`
		PausedCount   int               `json:"pausedTorrentCount"`
		Current       transferStatsJSON `json:"current-stats"`
		Cumulative    transferStatsJSON `json:"cumulative-stats"`
	}

	if err := c.call(ctx, "session-stats", nil, &out); err != nil {
		return Stats{}, err
	}

	return Stats{
		DownloadSpeed: out.DownloadSpeed,
		UploadSpeed:   out.UploadSpeed,
		TorrentCount:  out.TorrentCount,
		ActiveCount:   out.ActiveCount,
		PausedCount:   out.PausedCount,
		Current:       out.Current.stats(),
		Total:         out.Cumulative.stats(),
	}, nil
}

func idArgs(ids []int64) map[string]any {
	return map[string]any{"ids": ids}
}
