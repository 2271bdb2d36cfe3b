package transmission

// Torrent status strings derived from the daemon's numeric status codes.
const (
	StatusStopped      = "stopped"
	StatusCheckWait    = "check waiting"
	StatusChecking     = "checking"
	StatusDownloadWait = "download waiting"
	StatusDownloading  = "downloading"
	StatusSeedWait     = "seed waiting"
	StatusSeeding      = "seeding"
	StatusUnknown      = "unknown"
)

// statusName maps Transmission RPC status codes to readable strings
func statusName(code int) string {
	switch code {
	case 0:
		return StatusStopped
	case 1:
		return StatusCheckWait
	case 2:
		return StatusChecking
	case 3:
		return StatusDownloadWait
	case 4:
		return StatusDownloading
	case 5:
		return StatusSeedWait
	case 6:
		return StatusSeeding
	default:
		return StatusUnknown
	}
}

// Torrent is the list-view projection of a torrent.
// All size fields are bytes, all rate fields are bytes/second.
type Torrent struct {
	ID             int64
	Hash           string
	Name           string
	Status         string
	TotalSize      int64
	SizeWhenDone   int64
	LeftUntilDone  int64
	PercentDone    float64
	ETA            int64 // seconds, negative when unknown
	RateUpload     int64
	RateDownload   int64
	Ratio          float64
	PeersConnected int
	PeersGetting   int
	PeersSending   int
	UploadedEver   int64
	Priority       int
	AddedDate      int64 // unix seconds
	ActivityDate   int64 // unix seconds
	QueuePosition  int
	DownloadDir    string
	Labels         []string
}

// Session holds daemon-wide settings relevant to the state panel
type Session struct {
	Version              string
	DownloadDir          string
	DownloadDirFreeSpace int64
	AltSpeedEnabled      bool
	SpeedLimitDown       int64
	SpeedLimitDownOn     bool
	SpeedLimitUp         int64
	SpeedLimitUpOn       bool
}

// Stats holds current session transfer statistics
type Stats struct {
	DownloadSpeed int64
	UploadSpeed   int64
	TorrentCount  int
	ActiveCount   int
	PausedCount   int
	Current       TransferStats
	Total         TransferStats
}

// TransferStats is one window of transfer totals, either the running
// session or the daemon's lifetime.
type TransferStats struct {
	UploadedBytes   int64
	DownloadedBytes int64
	FilesAdded      int
	SessionCount    int
	SecondsActive   int64
}

// StatusCounts summarizes a torrent list by status
type StatusCounts struct {
	Count        int
	Down         int
	Seed         int
	Check        int
	Stop         int
	CompleteSize int64
	TotalSize    int64
}

// CountByStatus computes list-level totals for the state panel
func CountByStatus(torrents []Torrent) StatusCounts {
	var c StatusCounts
	c.Count = len(torrents)

	for _, t := range torrents {
		c.TotalSize += t.SizeWhenDone
		c.CompleteSize += t.SizeWhenDone - t.LeftUntilDone

		switch t.Status {
		case StatusDownloading:
			c.Down++
		case StatusSeeding:
			c.Seed++
		case StatusChecking:
			c.Check++
		}
	}

	c.Stop = c.Count - c.Down - c.Seed - c.Check
	return c
}
