package casestudies

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// RecordStore is the content-record collaborator the repository adapter
// and the public read path are built on.
type RecordStore interface {
	// NextID allocates a fresh record identifier.
	NextID(ctx context.Context) (int64, error)
	// Insert returns ErrSlugExists when another record owns the slug.
	Insert(ctx context.Context, rec Record) error
	// Replace overwrites the record with rec.ID and reports whether it existed.
	Replace(ctx context.Context, rec Record) (bool, error)
	// Get returns ErrNotFound when no record has the id.
	Get(ctx context.Context, id int64) (Record, error)
	Delete(ctx context.Context, id int64) (bool, error)
	// Find returns matching records newest-first by publish date.
	Find(ctx context.Context, q RecordQuery) ([]Record, error)
	Count(ctx context.Context, q RecordQuery) (int64, error)
}

type MemoryStore struct {
	mu      sync.RWMutex
	records map[int64]Record
	lastID  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[int64]Record)}
}

func (s *MemoryStore) NextID(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	return s.lastID, nil
}

func (s *MemoryStore) Insert(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; exists {
		return fmt.Errorf("record %d already exists", rec.ID)
	}
	if s.slugTaken(rec.Slug, rec.ID) {
		return ErrSlugExists
	}
	s.records[rec.ID] = cloneRecord(rec)
	if rec.ID > s.lastID {
		s.lastID = rec.ID
	}
	return nil
}

func (s *MemoryStore) Replace(ctx context.Context, rec Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; !exists {
		return false, nil
	}
	if s.slugTaken(rec.Slug, rec.ID) {
		return false, ErrSlugExists
	}
	s.records[rec.ID] = cloneRecord(rec)
	return true, nil
}

func (s *MemoryStore) Get(ctx context.Context, id int64) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return false, nil
	}
	delete(s.records, id)
	return true, nil
}

func (s *MemoryStore) Find(ctx context.Context, q RecordQuery) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]Record, 0)
	for _, rec := range s.records {
		if q.matches(rec) {
			items = append(items, cloneRecord(rec))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].PublishedAt.Equal(items[j].PublishedAt) {
			return items[i].PublishedAt.After(items[j].PublishedAt)
		}
		return items[i].ID > items[j].ID
	})

	if q.Offset > 0 {
		if q.Offset >= int64(len(items)) {
			return []Record{}, nil
		}
		items = items[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < int64(len(items)) {
		items = items[:q.Limit]
	}
	return items, nil
}

func (s *MemoryStore) Count(ctx context.Context, q RecordQuery) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, rec := range s.records {
		if q.matches(rec) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) slugTaken(slug string, id int64) bool {
	for _, rec := range s.records {
		if rec.Slug == slug && rec.ID != id {
			return true
		}
	}
	return false
}

func cloneRecord(rec Record) Record {
	if rec.FeaturedImage != nil {
		img := *rec.FeaturedImage
		rec.FeaturedImage = &img
	}
	return rec
}
