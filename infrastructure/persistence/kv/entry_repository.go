package kv

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"thoughtgraph/application/ports"
	"thoughtgraph/domain/core/entities"
	"thoughtgraph/domain/core/valueobjects"
	pkgerrors "thoughtgraph/pkg/errors"
	"thoughtgraph/pkg/utils"
)

const entryPrefix = "entry:"

// recordVersion is written into every record so future format changes can
// upgrade old values on read
const recordVersion = 2

// entryRecord is the stored JSON shape of an entry. Date is kept raw because
// version 1 records stored unix milliseconds as a number.
type entryRecord struct {
	ID       string          `json:"id"`
	Text     string          `json:"text"`
	Tags     []string        `json:"tags"`
	Date     json.RawMessage `json:"date,omitempty"`
	Archived bool            `json:"archived"`
	Version  int             `json:"v,omitempty"`
}

// EntryRepository implements ports.EntryRepository and ports.EntryLister on
// any KVStore
type EntryRepository struct {
	store  ports.KVStore
	logger *zap.Logger
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(store ports.KVStore, logger *zap.Logger) *EntryRepository {
	return &EntryRepository{
		store:  store,
		logger: logger,
	}
}

func entryKey(id valueobjects.EntryID) string {
	return entryPrefix + id.String()
}

// Save persists an entry (create or update)
func (r *EntryRepository) Save(ctx context.Context, entry *entities.Entry) error {
	record := entryRecord{
		ID:       entry.ID().String(),
		Text:     entry.Text(),
		Tags:     entry.Tags(),
		Archived: entry.IsArchived(),
		Version:  recordVersion,
	}
	if entry.HasDate() {
		date, err := json.Marshal(utils.FormatTimestamp(entry.Date()))
		if err != nil {
			return pkgerrors.NewInternalError("failed to encode entry date").WithCause(err)
		}
		record.Date = date
	}

	data, err := json.Marshal(record)
	if err != nil {
		return pkgerrors.NewInternalError("failed to encode entry").WithCause(err)
	}

	if err := r.store.Put(ctx, entryKey(entry.ID()), data); err != nil {
		return pkgerrors.NewDatabaseError("save entry", err)
	}

	r.logger.Debug("entry saved",
		zap.String("entryID", record.ID),
		zap.Int("tagCount", len(record.Tags)))
	return nil
}

// GetByID retrieves an entry by its ID
func (r *EntryRepository) GetByID(ctx context.Context, id valueobjects.EntryID) (*entities.Entry, error) {
	data, ok, err := r.store.Get(ctx, entryKey(id))
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get entry", err)
	}
	if !ok {
		return nil, pkgerrors.NewNotFoundError("entry " + id.String())
	}

	entry, err := r.decode(entryKey(id), data)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("decode entry", err)
	}
	return entry, nil
}

// List returns every entry, archived included. Dated entries come first,
// oldest first; undated entries follow in key order.
func (r *EntryRepository) List(ctx context.Context) ([]*entities.Entry, error) {
	values, keys, err := r.store.Scan(ctx, entryPrefix)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list entries", err)
	}

	result := make([]*entities.Entry, 0, len(keys))
	for _, key := range keys {
		entry, err := r.decode(key, values[key])
		if err != nil {
			r.logger.Warn("skipping undecodable entry record",
				zap.String("key", key),
				zap.Error(err))
			continue
		}
		result = append(result, entry)
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.HasDate() != b.HasDate() {
			return a.HasDate()
		}
		return a.Date().Before(b.Date())
	})

	return result, nil
}

// ListActiveEntries implements ports.EntryLister. Storage failures are
// logged and produce an empty list.
func (r *EntryRepository) ListActiveEntries(ctx context.Context) []*entities.Entry {
	all, err := r.List(ctx)
	if err != nil {
		r.logger.Warn("entry store unreadable, continuing with no entries", zap.Error(err))
		return []*entities.Entry{}
	}

	active := make([]*entities.Entry, 0, len(all))
	for _, entry := range all {
		if entry.IsActive() {
			active = append(active, entry)
		}
	}
	return active
}

// Delete removes an entry permanently
func (r *EntryRepository) Delete(ctx context.Context, id valueobjects.EntryID) error {
	if err := r.store.Delete(ctx, entryKey(id)); err != nil {
		return pkgerrors.NewDatabaseError("delete entry", err)
	}
	return nil
}

// decode turns a stored record into an entry, substituting defaults for
// malformed fields. Only a record that is not JSON at all, or whose id
// cannot be recovered, is an error.
func (r *EntryRepository) decode(key string, data []byte) (*entities.Entry, error) {
	var record entryRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}

	rawID := record.ID
	if rawID == "" {
		rawID = strings.TrimPrefix(key, entryPrefix)
	}
	id, err := valueobjects.NewEntryIDFromString(rawID)
	if err != nil {
		return nil, err
	}

	date, ok := parseDate(record.Date)
	if !ok {
		r.logger.Debug("entry has unparseable date, treating as unknown",
			zap.String("entryID", rawID),
			zap.ByteString("date", record.Date))
	}

	return entities.ReconstructEntry(id, record.Text, record.Tags, date, record.Archived), nil
}

// parseDate accepts a JSON string (RFC3339 or digits) or a JSON number of
// unix milliseconds. Absent dates are fine; ok is false only when something
// was present but unusable.
func parseDate(raw json.RawMessage) (time.Time, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return time.Time{}, true
		}
		t, err := utils.ParseTimestamp(s)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	ms, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).UTC(), true
}
