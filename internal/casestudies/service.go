package casestudies

import (
	"context"
	"errors"
	"strings"
)

// reservedSlugs are path segments the public API routes itself; a case study
// under one of them could never be fetched by slug.
var reservedSlugs = map[string]bool{
	"technologies": true,
}

type Service struct {
	repo      *StoreRepository
	records   RecordStore
	formatter Formatter
}

func NewService(repo *StoreRepository, formatter Formatter) *Service {
	return &Service{
		repo:      repo,
		records:   repo.store,
		formatter: formatter,
	}
}

// ListPublished returns published case studies newest-first, optionally
// restricted to those whose technology string contains technology.
func (s *Service) ListPublished(ctx context.Context, technology string) ([]View, error) {
	records, err := s.records.Find(ctx, RecordQuery{
		Status:     StatusPublish,
		Technology: strings.TrimSpace(technology),
	})
	if err != nil {
		return nil, persistenceError("list published", err)
	}
	return s.formatAll(records, s.formatter.Format), nil
}

func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (View, error) {
	if slug == "" {
		return View{}, ErrNotFound
	}
	records, err := s.records.Find(ctx, RecordQuery{Status: StatusPublish, Slug: slug, Limit: 1})
	if err != nil {
		return View{}, persistenceError("get by slug", err)
	}
	if len(records) == 0 {
		return View{}, ErrNotFound
	}
	return s.formatter.Format(records[0]), nil
}

// AvailableTechnologies collects the distinct technology tokens of all
// published case studies, in first-seen order.
func (s *Service) AvailableTechnologies(ctx context.Context) ([]string, error) {
	records, err := s.records.Find(ctx, RecordQuery{Status: StatusPublish})
	if err != nil {
		return nil, persistenceError("list technologies", err)
	}
	seen := make(map[string]bool)
	out := []string{}
	for _, rec := range records {
		for _, tech := range ParseTechnologies(rec.Meta.Technologies) {
			if seen[tech] {
				continue
			}
			seen[tech] = true
			out = append(out, tech)
		}
	}
	return out, nil
}

func (s *Service) ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]View, int64, error) {
	q := RecordQuery{
		Status:     strings.TrimSpace(filter.Status),
		Technology: strings.TrimSpace(filter.Technology),
	}
	total, err := s.records.Count(ctx, q)
	if err != nil {
		return nil, 0, persistenceError("count", err)
	}
	q.Limit = limit
	q.Offset = offset
	records, err := s.records.Find(ctx, q)
	if err != nil {
		return nil, 0, persistenceError("list", err)
	}
	return s.formatAll(records, s.formatter.FormatAdmin), total, nil
}

func (s *Service) Get(ctx context.Context, id int64) (View, error) {
	rec, err := s.records.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return View{}, ErrNotFound
		}
		return View{}, persistenceError("get", err)
	}
	return s.formatter.FormatAdmin(rec), nil
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (View, error) {
	item, err := NewCaseStudy(req.fields(nil))
	if err != nil {
		return View{}, err
	}
	if err := checkSlug(item.Slug()); err != nil {
		return View{}, err
	}

	details := req.details()
	if details.Status == "" {
		details.Status = StatusPublish
	}
	id, err := s.repo.SaveWithDetails(ctx, item, details)
	if err != nil {
		return View{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpsertRequest) (View, error) {
	item, err := NewCaseStudy(req.fields(&id))
	if err != nil {
		return View{}, err
	}
	if err := checkSlug(item.Slug()); err != nil {
		return View{}, err
	}

	updated, err := s.repo.UpdateWithDetails(ctx, item, req.details())
	if err != nil {
		return View{}, err
	}
	if !updated {
		return View{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func checkSlug(slug string) error {
	if slug == "" {
		return ErrInvalidSlug
	}
	if reservedSlugs[slug] {
		return ErrSlugExists
	}
	return nil
}

func (s *Service) formatAll(records []Record, format func(Record) View) []View {
	items := make([]View, 0, len(records))
	for _, rec := range records {
		items = append(items, format(rec))
	}
	return items
}
