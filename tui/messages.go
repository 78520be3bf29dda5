package tui

import (
	"time"

	"github.com/endlesspixel/launcher/internal/release"
)

// RefreshDoneMsg is sent when a catalog refresh finishes
type RefreshDoneMsg struct {
	Entries []release.Entry
	Err     error
	At      time.Time
}

// TrustStoreChangedMsg is sent when the trust-store file is edited
type TrustStoreChangedMsg struct{}

// WatcherFailedMsg is sent when the trust-store watcher reports an error
type WatcherFailedMsg struct {
	Err error
}
