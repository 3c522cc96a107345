package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/citywaste/waste-flow-api/internal/dto"
	"github.com/citywaste/waste-flow-api/internal/model"
	"github.com/citywaste/waste-flow-api/internal/repository"
)

var ErrLocationNotFound = errors.New("location not found")

type LocationService struct {
	locationRepo repository.LocationRepository
}

func NewLocationService(locationRepo repository.LocationRepository) *LocationService {
	return &LocationService{locationRepo: locationRepo}
}

func (s *LocationService) Create(ctx context.Context, req dto.LocationRequest) (*dto.LocationResponse, error) {
	location := &model.Location{Name: req.Name, Address: req.Address}
	if err := s.locationRepo.Create(ctx, location); err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return toLocationResponse(location), nil
}

func (s *LocationService) List(ctx context.Context) ([]dto.LocationResponse, error) {
	locations, err := s.locationRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	items := make([]dto.LocationResponse, 0, len(locations))
	for i := range locations {
		items = append(items, *toLocationResponse(&locations[i]))
	}
	return items, nil
}

func (s *LocationService) Update(ctx context.Context, id int64, req dto.LocationRequest) (*dto.LocationResponse, error) {
	location := &model.Location{ID: id, Name: req.Name, Address: req.Address}
	err := s.locationRepo.Update(ctx, location)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("update location: %w", err)
	}
	return toLocationResponse(location), nil
}

func (s *LocationService) Delete(ctx context.Context, id int64) error {
	if err := s.locationRepo.Delete(ctx, id); err != nil {
		if isNoRows(err) {
			return ErrLocationNotFound
		}
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}

func isNoRows(err error) bool { return errors.Is(err, pgx.ErrNoRows) }

func toLocationResponse(l *model.Location) *dto.LocationResponse {
	return &dto.LocationResponse{ID: l.ID, Name: l.Name, Address: l.Address}
}
