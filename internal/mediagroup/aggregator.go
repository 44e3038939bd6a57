// Package mediagroup debounces Telegram album updates. Telegram delivers an
// album as separate messages sharing a MediaGroupID; the aggregator collects
// them and flushes one Album after a quiet period, so the wizard sees a
// single upload instead of N.
package mediagroup

import (
	"fmt"
	"sync"
	"time"
)

type Item struct {
	ChatID       int64
	UserID       int64
	MediaGroupID string
	Caption      string
	FileID       string
}

// Album is one flushed media group. FileIDs keep arrival order; the first
// photo becomes the subject reference.
type Album struct {
	ChatID  int64
	UserID  int64
	Caption string
	FileIDs []string
}

type Options struct {
	Debounce time.Duration
	OnFlush  func(Album)
}

type Aggregator struct {
	mu       sync.Mutex
	debounce time.Duration
	onFlush  func(Album)
	pending  map[string]*pendingAlbum
}

type pendingAlbum struct {
	album Album
	timer *time.Timer
}

func New(opts Options) *Aggregator {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 1200 * time.Millisecond
	}

	return &Aggregator{
		debounce: debounce,
		onFlush:  opts.OnFlush,
		pending:  make(map[string]*pendingAlbum),
	}
}

func (a *Aggregator) Add(item Item) {
	if item.MediaGroupID == "" || item.FileID == "" {
		return
	}

	key := fmt.Sprintf("%d:%d:%s", item.ChatID, item.UserID, item.MediaGroupID)

	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.pending[key]
	if !ok {
		p = &pendingAlbum{
			album: Album{
				ChatID: item.ChatID,
				UserID: item.UserID,
			},
		}
		a.pending[key] = p
	}

	p.album.FileIDs = append(p.album.FileIDs, item.FileID)
	if item.Caption != "" {
		p.album.Caption = item.Caption
	}

	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(a.debounce, func() {
		a.flush(key)
	})
}

func (a *Aggregator) flush(key string) {
	a.mu.Lock()
	p, ok := a.pending[key]
	if ok {
		delete(a.pending, key)
	}
	a.mu.Unlock()

	if !ok || a.onFlush == nil || len(p.album.FileIDs) == 0 {
		return
	}
	a.onFlush(p.album)
}
