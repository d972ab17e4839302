package attendance

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"rollcall/internal/apperr"
)

// Service coordinates the attendance workflow: submission, listing, status
// toggling and deletion. It holds no state across calls; every operation
// re-reads from the repository.
type Service struct {
	repo Repository
}

// NewService creates a service backed by a repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Submit validates and persists a new attendance record. A matric number
// that already has a record is rejected; if that record was deactivated by a
// lecturer the error says so instead.
func (s *Service) Submit(ctx context.Context, name, matricNo, course string, loc LocationInput) (Record, error) {
	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if matricNo == "" {
		missing = append(missing, "matric_no")
	}
	if course == "" {
		missing = append(missing, "course")
	}
	if len(missing) > 0 {
		return Record{}, apperr.NewValidation(missing...)
	}

	lat, lon, acc, err := parseLocation(loc)
	if err != nil {
		return Record{}, err
	}

	existing, err := s.repo.GetByMatricNo(ctx, matricNo)
	if err != nil {
		return Record{}, err
	}
	if existing != nil {
		if !existing.Active {
			return Record{}, apperr.ErrRecordInactive
		}
		return Record{}, apperr.ErrDuplicateRecord
	}

	rec := Record{
		ID:          uuid.NewString(),
		Name:        name,
		MatricNo:    matricNo,
		Course:      course,
		SubmittedAt: time.Now().UTC(),
		Active:      true,
		Latitude:    lat,
		Longitude:   lon,
		Accuracy:    acc,
	}
	if loc.Name != "" {
		rec.LocationName = &loc.Name
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// List returns all records newest first plus aggregate counts. Counts are
// always over the full table, not the filtered view.
func (s *Service) List(ctx context.Context, f Filter) ([]Record, Counts, error) {
	records, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, Counts{}, err
	}
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, Counts{}, err
	}
	return records, counts, nil
}

// ToggleActive sets the active flag and returns updated counts. Setting a
// flag to its current value is a no-op that still succeeds.
func (s *Service) ToggleActive(ctx context.Context, id string, active bool) (Counts, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return Counts{}, err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return Counts{}, err
	}
	return s.repo.Counts(ctx)
}

// Delete permanently removes a record.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// parseLocation converts raw form values. Non-numeric values present in any
// field are a validation failure, never silently dropped.
func parseLocation(loc LocationInput) (lat, lon, acc *float64, err error) {
	var bad []string
	parse := func(field, raw string) *float64 {
		if raw == "" {
			return nil
		}
		v, perr := strconv.ParseFloat(raw, 64)
		if perr != nil {
			bad = append(bad, field)
			return nil
		}
		return &v
	}
	lat = parse("latitude", loc.Latitude)
	lon = parse("longitude", loc.Longitude)
	acc = parse("accuracy", loc.Accuracy)
	if len(bad) > 0 {
		return nil, nil, nil, apperr.NewValidation(bad...)
	}
	return lat, lon, acc, nil
}
