package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/citywaste/waste-flow-api/internal/dto"
	"github.com/citywaste/waste-flow-api/internal/events"
	"github.com/citywaste/waste-flow-api/internal/model"
	"github.com/citywaste/waste-flow-api/internal/repository"
)

var (
	ErrCollectionNotFound  = errors.New("collection request not found")
	ErrCollectionCompleted = errors.New("cannot accept a completed request")
	ErrNotAssignedToYou    = errors.New("not authorized")
	ErrNotInProgress       = errors.New("request is not in progress")
)

type CollectionService struct {
	collectionRepo repository.CollectionRepository
	publisher      *events.Publisher
}

func NewCollectionService(collectionRepo repository.CollectionRepository, publisher *events.Publisher) *CollectionService {
	return &CollectionService{collectionRepo: collectionRepo, publisher: publisher}
}

func (s *CollectionService) Request(ctx context.Context, userID int64, req dto.CreateCollectionRequest) (*dto.CollectionResponse, error) {
	collection := &model.WasteCollection{
		UserID:   userID,
		Location: req.Location,
		Status:   model.CollectionStatusRequested,
	}
	if err := s.collectionRepo.Create(ctx, collection); err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	resp := toCollectionResponse(collection)
	return &resp, nil
}

func (s *CollectionService) ListAll(ctx context.Context) ([]dto.CollectionResponse, error) {
	collections, err := s.collectionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return toCollectionResponses(collections), nil
}

func (s *CollectionService) ListByUser(ctx context.Context, userID int64) ([]dto.CollectionResponse, error) {
	collections, err := s.collectionRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return toCollectionResponses(collections), nil
}

func (s *CollectionService) ListByCollector(ctx context.Context, collectorID int64) ([]dto.CollectionResponse, error) {
	collections, err := s.collectionRepo.ListByCollectorID(ctx, collectorID)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return toCollectionResponses(collections), nil
}

// Accept lets any collector claim a request that has not been completed.
// The collector assignment and status change land in one atomic update.
func (s *CollectionService) Accept(ctx context.Context, collectorID, requestID int64) (*dto.CollectionResponse, error) {
	collection, err := s.collectionRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}
	if collection == nil {
		return nil, ErrCollectionNotFound
	}
	if collection.Status == model.CollectionStatusCompleted {
		return nil, ErrCollectionCompleted
	}

	claimed, err := s.collectionRepo.Claim(ctx, requestID, collectorID)
	if err != nil {
		return nil, fmt.Errorf("claim collection: %w", err)
	}
	if !claimed {
		// Completed between the read and the update.
		return nil, ErrCollectionCompleted
	}

	collection.CollectorID = &collectorID
	collection.Status = model.CollectionStatusInProgress
	resp := toCollectionResponse(collection)
	return &resp, nil
}

// Complete finishes an in_progress request, but only for the collector who
// claimed it.
func (s *CollectionService) Complete(ctx context.Context, collectorID, requestID int64) (*dto.CollectionResponse, error) {
	collection, err := s.collectionRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}
	if collection == nil {
		return nil, ErrCollectionNotFound
	}
	if collection.CollectorID == nil || *collection.CollectorID != collectorID {
		return nil, ErrNotAssignedToYou
	}
	if collection.Status != model.CollectionStatusInProgress {
		return nil, ErrNotInProgress
	}

	if err := s.collectionRepo.Complete(ctx, requestID, collectorID); err != nil {
		return nil, fmt.Errorf("complete collection: %w", err)
	}

	s.publisher.Publish(ctx, events.CollectionQueue, model.CollectionEvent{
		CollectionID: requestID,
		CollectorID:  collectorID,
	})

	collection.Status = model.CollectionStatusCompleted
	resp := toCollectionResponse(collection)
	return &resp, nil
}

func toCollectionResponse(c *model.WasteCollection) dto.CollectionResponse {
	return dto.CollectionResponse{
		ID:          c.ID,
		Location:    c.Location,
		Status:      c.Status,
		CollectorID: c.CollectorID,
		CreatedAt:   c.CreatedAt,
	}
}

func toCollectionResponses(collections []model.WasteCollection) []dto.CollectionResponse {
	items := make([]dto.CollectionResponse, 0, len(collections))
	for i := range collections {
		items = append(items, toCollectionResponse(&collections[i]))
	}
	return items
}
