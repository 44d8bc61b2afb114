package casestudies

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository persists case study entities independently of the storage
// technology. Lookups that find nothing return a nil entity and a nil error.
type Repository interface {
	FindAll(ctx context.Context) ([]CaseStudy, error)
	FindByID(ctx context.Context, id int64) (*CaseStudy, error)
	FindBySlug(ctx context.Context, slug string) (*CaseStudy, error)
	FindByTechnology(ctx context.Context, name string) ([]CaseStudy, error)
	Save(ctx context.Context, item CaseStudy) (int64, error)
	Update(ctx context.Context, item CaseStudy) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// Details are the record fields that live outside the entity. A nil
// *Details on save keeps whatever the stored record already has.
type Details struct {
	Status        string
	Content       string
	Excerpt       string
	DateCompleted string
	FeaturedImage *Image
}

// StoreRepository maps entities onto records of a RecordStore.
type StoreRepository struct {
	store RecordStore
	now   func() time.Time
}

func NewRepository(store RecordStore, location *time.Location) *StoreRepository {
	if location == nil {
		location = time.UTC
	}
	return &StoreRepository{
		store: store,
		now:   func() time.Time { return time.Now().In(location) },
	}
}

func (r *StoreRepository) FindAll(ctx context.Context) ([]CaseStudy, error) {
	return r.find(ctx, "find all", RecordQuery{})
}

func (r *StoreRepository) FindByID(ctx context.Context, id int64) (*CaseStudy, error) {
	rec, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, persistenceError("find by id", err)
	}
	item, err := toEntity(rec)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *StoreRepository) FindBySlug(ctx context.Context, slug string) (*CaseStudy, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	items, err := r.find(ctx, "find by slug", RecordQuery{Slug: slug, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// FindByTechnology matches technology tokens case-insensitively.
func (r *StoreRepository) FindByTechnology(ctx context.Context, name string) ([]CaseStudy, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return []CaseStudy{}, nil
	}
	candidates, err := r.find(ctx, "find by technology", RecordQuery{Technology: name})
	if err != nil {
		return nil, err
	}
	items := make([]CaseStudy, 0, len(candidates))
	for _, item := range candidates {
		for _, tech := range item.technologies {
			if strings.EqualFold(strings.TrimSpace(tech), name) {
				items = append(items, item)
				break
			}
		}
	}
	return items, nil
}

func (r *StoreRepository) Save(ctx context.Context, item CaseStudy) (int64, error) {
	return r.SaveWithDetails(ctx, item, nil)
}

// SaveWithDetails inserts the entity when it has no id and replaces the
// stored record otherwise; a set id without a stored record is inserted
// under that id.
func (r *StoreRepository) SaveWithDetails(ctx context.Context, item CaseStudy, details *Details) (int64, error) {
	if err := checkStorable(item); err != nil {
		return 0, err
	}
	id, ok := item.ID()
	if ok {
		existing, err := r.store.Get(ctx, id)
		switch {
		case err == nil:
			rec := applyEntity(existing, item, details, r.now())
			if _, err := r.store.Replace(ctx, rec); err != nil {
				return 0, persistenceError("save", err)
			}
			return id, nil
		case !errors.Is(err, ErrNotFound):
			return 0, persistenceError("save", err)
		}
	} else {
		next, err := r.store.NextID(ctx)
		if err != nil {
			return 0, persistenceError("allocate id", err)
		}
		id = next
	}

	now := r.now()
	rec := applyEntity(Record{
		ID:            id,
		Type:          RecordType,
		Status:        StatusPublish,
		PublishedAt:   now,
		SchemaVersion: CurrentSchemaVersion,
	}, item, details, now)
	if err := r.store.Insert(ctx, rec); err != nil {
		return 0, persistenceError("save", err)
	}
	return id, nil
}

func (r *StoreRepository) Update(ctx context.Context, item CaseStudy) (bool, error) {
	return r.UpdateWithDetails(ctx, item, nil)
}

func (r *StoreRepository) UpdateWithDetails(ctx context.Context, item CaseStudy, details *Details) (bool, error) {
	if err := checkStorable(item); err != nil {
		return false, err
	}
	id, ok := item.ID()
	if !ok {
		return false, nil
	}
	existing, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, persistenceError("update", err)
	}
	replaced, err := r.store.Replace(ctx, applyEntity(existing, item, details, r.now()))
	if err != nil {
		return false, persistenceError("update", err)
	}
	return replaced, nil
}

func (r *StoreRepository) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := r.store.Delete(ctx, id)
	if err != nil {
		return false, persistenceError("delete", err)
	}
	return deleted, nil
}

func (r *StoreRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.store.Count(ctx, RecordQuery{})
	if err != nil {
		return 0, persistenceError("count", err)
	}
	return n, nil
}

func (r *StoreRepository) find(ctx context.Context, op string, q RecordQuery) ([]CaseStudy, error) {
	records, err := r.store.Find(ctx, q)
	if err != nil {
		return nil, persistenceError(op, err)
	}
	items := make([]CaseStudy, 0, len(records))
	for _, rec := range records {
		item, err := toEntity(rec)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// checkStorable rejects entities whose technologies would not survive the
// comma-joined attribute encoding.
func checkStorable(item CaseStudy) error {
	for _, tech := range item.technologies {
		if strings.Contains(tech, ",") {
			return &InvalidEntityError{Reason: "technology names must not contain commas"}
		}
	}
	return nil
}

func applyEntity(rec Record, item CaseStudy, details *Details, now time.Time) Record {
	rec.Title = item.Title()
	rec.Slug = item.Slug()
	rec.Meta.Client = item.Client()
	rec.Meta.Problem = item.Problem()
	rec.Meta.Solution = item.Solution()
	rec.Meta.Results = item.Results()
	rec.Meta.Technologies = JoinTechnologies(item.technologies)
	if details != nil {
		if details.Status != "" {
			rec.Status = details.Status
		}
		rec.Content = details.Content
		rec.Excerpt = details.Excerpt
		rec.Meta.DateCompleted = details.DateCompleted
		rec.FeaturedImage = details.FeaturedImage
	}
	if rec.Content == "" {
		rec.Content = item.Problem()
	}
	rec.ModifiedAt = now
	rec.SchemaVersion = CurrentSchemaVersion
	return rec
}

func toEntity(rec Record) (CaseStudy, error) {
	id := rec.ID
	item, err := NewCaseStudy(Fields{
		ID:           &id,
		Title:        rec.Title,
		Client:       rec.Meta.Client,
		Problem:      rec.Meta.Problem,
		Solution:     rec.Meta.Solution,
		Results:      rec.Meta.Results,
		Technologies: ParseTechnologies(rec.Meta.Technologies),
		Slug:         rec.Slug,
	})
	if err != nil {
		return CaseStudy{}, fmt.Errorf("record %d: %w", id, err)
	}
	return item, nil
}

var _ Repository = (*StoreRepository)(nil)
