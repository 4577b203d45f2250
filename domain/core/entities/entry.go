package entities

import (
	"strings"
	"time"

	"thoughtgraph/domain/core/valueobjects"
	"thoughtgraph/domain/events"
	pkgerrors "thoughtgraph/pkg/errors"
)

// Entry is a single captured thought. The visualization core only ever
// reads entries; mutation happens through the entry commands.
type Entry struct {
	id       valueobjects.EntryID
	text     string
	tags     []string
	date     time.Time
	archived bool
	version  int

	// Domain events that occurred during this entity's lifetime
	events []events.DomainEvent
}

// NewEntry creates a new entry. Hashtags found in the text are merged with
// the explicit tags. A zero id is replaced by a fresh one.
func NewEntry(id valueobjects.EntryID, text string, tags []string, now time.Time) (*Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, pkgerrors.NewValidationError("text cannot be empty")
	}

	if id.IsZero() {
		id = valueobjects.NewEntryID()
	}

	entry := &Entry{
		id:      id,
		text:    text,
		tags:    MergeTags(tags, ExtractHashtags(text)),
		date:    now,
		version: 1,
		events:  []events.DomainEvent{},
	}

	entry.addEvent(events.NewEntryCreated(entry.id.String(), entry.tags, now))

	return entry, nil
}

// ReconstructEntry rebuilds an entry from stored data. Missing tags become an
// empty set and a zero date is kept as-is; neither is an error.
func ReconstructEntry(
	id valueobjects.EntryID,
	text string,
	tags []string,
	date time.Time,
	archived bool,
) *Entry {
	return &Entry{
		id:       id,
		text:     text,
		tags:     NormalizeTags(tags),
		date:     date,
		archived: archived,
		version:  1,
		events:   []events.DomainEvent{},
	}
}

// ID returns the entry's unique identifier
func (e *Entry) ID() valueobjects.EntryID {
	return e.id
}

// Text returns the entry text
func (e *Entry) Text() string {
	return e.text
}

// Tags returns a copy of the normalized tags in insertion order
func (e *Entry) Tags() []string {
	tags := make([]string, len(e.tags))
	copy(tags, e.tags)
	return tags
}

// FirstTag returns the first tag or "" for an untagged entry
func (e *Entry) FirstTag() string {
	if len(e.tags) == 0 {
		return ""
	}
	return e.tags[0]
}

// Date returns the creation timestamp; zero when unknown
func (e *Entry) Date() time.Time {
	return e.date
}

// HasDate reports whether the entry carries a usable timestamp
func (e *Entry) HasDate() bool {
	return !e.date.IsZero()
}

// IsArchived reports whether the entry has been archived
func (e *Entry) IsArchived() bool {
	return e.archived
}

// IsActive is the inverse of IsArchived
func (e *Entry) IsActive() bool {
	return !e.archived
}

// Version returns the number of changes applied since load
func (e *Entry) Version() int {
	return e.version
}

// UpdateText replaces the text and re-derives hashtags, keeping any explicit
// tags that are not hashtags of the old text
func (e *Entry) UpdateText(text string, now time.Time) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return pkgerrors.NewValidationError("text cannot be empty")
	}
	if text == e.text {
		return nil
	}

	oldHashtags := make(map[string]bool)
	for _, tag := range ExtractHashtags(e.text) {
		oldHashtags[tag] = true
	}
	kept := make([]string, 0, len(e.tags))
	for _, tag := range e.tags {
		if !oldHashtags[tag] {
			kept = append(kept, tag)
		}
	}

	e.text = text
	e.tags = MergeTags(kept, ExtractHashtags(text))
	e.version++

	e.addEvent(events.NewEntryUpdated(e.id.String(), e.tags, now))

	return nil
}

// AddTag adds a normalized tag
func (e *Entry) AddTag(tag string) error {
	normalized := NormalizeTag(tag)
	if normalized == "" {
		return pkgerrors.NewValidationError("tag cannot be empty")
	}

	for _, t := range e.tags {
		if t == normalized {
			return nil
		}
	}

	e.tags = append(e.tags, normalized)
	e.version++
	return nil
}

// Archive hides the entry from the graph; archiving twice is a no-op
func (e *Entry) Archive(now time.Time) {
	if e.archived {
		return
	}

	e.archived = true
	e.version++

	e.addEvent(events.NewEntryArchived(e.id.String(), now))
}

// GetUncommittedEvents returns all uncommitted domain events
func (e *Entry) GetUncommittedEvents() []events.DomainEvent {
	out := make([]events.DomainEvent, len(e.events))
	copy(out, e.events)
	return out
}

// MarkEventsAsCommitted clears all uncommitted events
func (e *Entry) MarkEventsAsCommitted() {
	e.events = []events.DomainEvent{}
}

func (e *Entry) addEvent(event events.DomainEvent) {
	e.events = append(e.events, event)
}
