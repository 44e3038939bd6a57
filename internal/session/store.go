// Package session holds the per-user thumbnail draft the bot wizard edits.
// Drafts are request-scoped working state, never persisted.
package session

import (
	"sync"
	"time"

	"thumbstudio-ai/internal/thumbnail"
)

// Awaiting values name the free-text field the wizard expects next.
const (
	AwaitingNothing     = ""
	AwaitingTitle       = "title"
	AwaitingConcept     = "concept"
	AwaitingBackground  = "background"
	AwaitingColor       = "refine_color"
	AwaitingLayout      = "refine_layout"
	AwaitingDescription = "description"
)

// Draft is one user's thumbnail in progress.
type Draft struct {
	Title             string
	Concept           string
	BackgroundConcept string
	Mood              thumbnail.Mood
	ImageReaction     thumbnail.ImageReaction
	ThumbnailStyle    thumbnail.ThumbnailStyle
	Refinements       thumbnail.Refinements

	ImageData []byte
	ImageMime string

	LastResult     []byte
	LastResultMime string

	// Suggestions holds the last brainstorm batch so a pick can be
	// applied to the draft.
	Suggestions []thumbnail.Suggestion

	Awaiting  string
	UpdatedAt time.Time
}

// HasResult reports whether a prior generation exists to refine.
func (d Draft) HasResult() bool {
	return len(d.LastResult) > 0
}

// Request builds the generation request for the current draft state.
// Refinements ride along only on a refinement pass.
func (d Draft) Request(refinement bool) thumbnail.Request {
	req := thumbnail.Request{
		Image: thumbnail.Image{
			Data:     d.ImageData,
			MimeType: d.ImageMime,
		},
		Title:             d.Title,
		Concept:           d.Concept,
		BackgroundConcept: d.BackgroundConcept,
		Mood:              d.Mood,
		ImageReaction:     d.ImageReaction,
		ThumbnailStyle:    d.ThumbnailStyle,
	}
	if refinement {
		ref := d.Refinements
		req.Refinements = &ref
	}
	return req
}

type Store struct {
	mu     sync.Mutex
	drafts map[int64]*Draft
}

func NewStore() *Store {
	return &Store{drafts: make(map[int64]*Draft)}
}

func (s *Store) Get(userID int64) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	return *s.getOrCreateLocked(userID)
}

func (s *Store) Update(userID int64, fn func(*Draft)) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.getOrCreateLocked(userID)
	if fn != nil {
		fn(d)
	}
	d.UpdatedAt = time.Now()
	return *d
}

func (s *Store) Reset(userID int64) Draft {
	return s.Update(userID, func(d *Draft) {
		*d = defaultDraft()
	})
}

func (s *Store) getOrCreateLocked(userID int64) *Draft {
	if d, ok := s.drafts[userID]; ok {
		return d
	}
	d := defaultDraft()
	s.drafts[userID] = &d
	return s.drafts[userID]
}

func defaultDraft() Draft {
	return Draft{
		Title:             thumbnail.DefaultTitle,
		Concept:           thumbnail.DefaultConcept,
		BackgroundConcept: thumbnail.DefaultBackgroundConcept,
		Mood:              thumbnail.MoodEnergetic,
		ImageReaction:     thumbnail.ReactionExcited,
		ThumbnailStyle:    thumbnail.StyleRealistic,
		Refinements:       thumbnail.Refinements{Brightness: thumbnail.BrightnessNormal},
		UpdatedAt:         time.Now(),
	}
}
