package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/citywaste/waste-flow-api/internal/dto"
	"github.com/citywaste/waste-flow-api/internal/model"
	"github.com/citywaste/waste-flow-api/internal/repository"
)

var ErrComplaintNotFound = errors.New("complaint not found")

type ComplaintService struct {
	complaintRepo repository.ComplaintRepository
}

func NewComplaintService(complaintRepo repository.ComplaintRepository) *ComplaintService {
	return &ComplaintService{complaintRepo: complaintRepo}
}

func (s *ComplaintService) Create(ctx context.Context, userID int64, req dto.CreateComplaintRequest) (*dto.ComplaintResponse, error) {
	complaint := &model.Complaint{
		UserID:      userID,
		Description: req.Description,
		Status:      model.ComplaintStatusOpen,
	}
	if err := s.complaintRepo.Create(ctx, complaint); err != nil {
		return nil, fmt.Errorf("create complaint: %w", err)
	}
	resp := toComplaintResponse(complaint)
	return &resp, nil
}

func (s *ComplaintService) ListByUser(ctx context.Context, userID int64) ([]dto.ComplaintResponse, error) {
	complaints, err := s.complaintRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	return toComplaintResponses(complaints), nil
}

func (s *ComplaintService) ListAll(ctx context.Context) ([]dto.ComplaintResponse, error) {
	complaints, err := s.complaintRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	return toComplaintResponses(complaints), nil
}

// Resolve jumps straight to resolved; the in_progress state exists in the
// schema but no operation routes through it.
func (s *ComplaintService) Resolve(ctx context.Context, id int64) (*dto.ComplaintResponse, error) {
	complaint, err := s.complaintRepo.UpdateStatus(ctx, id, model.ComplaintStatusResolved)
	if err != nil {
		return nil, fmt.Errorf("resolve complaint: %w", err)
	}
	if complaint == nil {
		return nil, ErrComplaintNotFound
	}
	resp := toComplaintResponse(complaint)
	return &resp, nil
}

func toComplaintResponse(c *model.Complaint) dto.ComplaintResponse {
	return dto.ComplaintResponse{
		ID:          c.ID,
		Description: c.Description,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
	}
}

func toComplaintResponses(complaints []model.Complaint) []dto.ComplaintResponse {
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, toComplaintResponse(&complaints[i]))
	}
	return items
}
