package tui

import (
	"fmt"
	"strings"

	"github.com/anlar/tewi-sub001/internal/theme"
)

// GetStyles returns current themed styles
func GetStyles() theme.Styles {
	return theme.Current
}

// ProgressBar renders a completion indicator for a torrent
func ProgressBar(done float64, width int) string {
	styles := GetStyles()

	if done < 0 {
		done = 0
	}
	if done > 1 {
		done = 1
	}

	filled := int(done * float64(width))
	if filled > width {
		filled = width
	}

	bar := styles.ProgressDone.Render(strings.Repeat("█", filled))
	empty := styles.ProgressLeft.Render(strings.Repeat("░", width-filled))

	return bar + empty
}

// TruncateString truncates a string to max length with ellipsis
func TruncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// PadRight pads a string to a specific width
func PadRight(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

// PadLeft pads a string on the left to a specific width
func PadLeft(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// formatSize formats bytes to human readable size
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// formatSpeed formats bytes/sec to human readable speed
func formatSpeed(bytesPerSec int64) string {
	if bytesPerSec == 0 {
		return "-"
	}
	return formatSize(bytesPerSec) + "/s"
}

// formatETA formats the remaining-seconds field from the daemon.
// Negative values mean unknown or not applicable.
func formatETA(seconds int64) string {
	if seconds < 0 {
		return "-"
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm", seconds/60)
	}
	if seconds < 86400 {
		hours := seconds / 3600
		mins := (seconds % 3600) / 60
		return fmt.Sprintf("%dh%dm", hours, mins)
	}
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	if days > 99 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dd%dh", days, hours)
}

// formatRatio keeps the ratio column width stable
func formatRatio(ratio float64) string {
	if ratio < 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", ratio)
}
