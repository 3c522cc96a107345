package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/citywaste/waste-flow-api/internal/dto"
	"github.com/citywaste/waste-flow-api/internal/model"
	"github.com/citywaste/waste-flow-api/internal/repository"
)

var (
	ErrCollectorNotFound = errors.New("collector not found")
	ErrMissingFields     = errors.New("username, email, and password are required")
)

const (
	topCollectorsLimit = 5
	// Placeholder metrics carried over from the dashboard prototype: every
	// collector rates 5.0 and earns $10 per completed collection.
	placeholderRating   = 5.0
	earningsPerComplete = 10
)

type AdminService struct {
	userRepo       repository.UserRepository
	statsRepo      repository.StatsRepository
	collectionRepo repository.CollectionRepository
	complaintRepo  repository.ComplaintRepository
}

func NewAdminService(
	userRepo repository.UserRepository,
	statsRepo repository.StatsRepository,
	collectionRepo repository.CollectionRepository,
	complaintRepo repository.ComplaintRepository,
) *AdminService {
	return &AdminService{
		userRepo:       userRepo,
		statsRepo:      statsRepo,
		collectionRepo: collectionRepo,
		complaintRepo:  complaintRepo,
	}
}

// --- Collector accounts ---

func (s *AdminService) CreateCollector(ctx context.Context, req dto.CreateCollectorRequest) (*model.User, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	collector := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		Role:     model.RoleCollector,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, collector); err != nil {
		return nil, fmt.Errorf("create collector: %w", err)
	}
	return collector, nil
}

func (s *AdminService) ListCollectors(ctx context.Context) ([]dto.CollectorResponse, error) {
	collectors, err := s.userRepo.ListByRole(ctx, model.RoleCollector)
	if err != nil {
		return nil, fmt.Errorf("list collectors: %w", err)
	}
	items := make([]dto.CollectorResponse, 0, len(collectors))
	for _, c := range collectors {
		items = append(items, dto.CollectorResponse{ID: c.ID, Username: c.Username, Email: c.Email})
	}
	return items, nil
}

func (s *AdminService) DeleteCollector(ctx context.Context, id int64) (*model.User, error) {
	collector, err := s.userRepo.DeleteByRole(ctx, id, model.RoleCollector)
	if err != nil {
		return nil, fmt.Errorf("delete collector: %w", err)
	}
	if collector == nil {
		return nil, ErrCollectorNotFound
	}
	return collector, nil
}

// --- Users ---

func (s *AdminService) ListUsers(ctx context.Context) ([]dto.AdminUserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	items := make([]dto.AdminUserResponse, 0, len(users))
	for _, u := range users {
		status := "Inactive"
		if u.IsActive {
			status = "Active"
		}
		items = append(items, dto.AdminUserResponse{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Role:     u.Role,
			IsActive: u.IsActive,
			Status:   status,
			Verified: u.IsActive,
		})
	}
	return items, nil
}

// --- Reports ---

// Stats returns the dashboard counters, computed at request time. Revenue
// and completion rate are hardwired zeros pending a real metric pipeline.
func (s *AdminService) Stats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	totalUsers, err := s.statsRepo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	collectors, err := s.statsRepo.CountUsersByRole(ctx, model.RoleCollector)
	if err != nil {
		return nil, fmt.Errorf("count collectors: %w", err)
	}
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayOrders, err := s.collectionRepo.CountCreatedSince(ctx, midnight)
	if err != nil {
		return nil, fmt.Errorf("count today collections: %w", err)
	}
	pending, err := s.complaintRepo.CountUnresolved(ctx)
	if err != nil {
		return nil, fmt.Errorf("count pending complaints: %w", err)
	}

	return &dto.AdminStatsResponse{
		TotalUsers:        totalUsers,
		ActiveCollectors:  collectors,
		TodayOrders:       todayOrders,
		PendingComplaints: pending,
		MonthlyRevenue:    0,
		CompletionRate:    0,
	}, nil
}

// TopCollectors ranks collectors by completed collections, descending, and
// keeps the first five.
func (s *AdminService) TopCollectors(ctx context.Context) ([]dto.CollectorRankResponse, error) {
	collectors, err := s.userRepo.ListByRole(ctx, model.RoleCollector)
	if err != nil {
		return nil, fmt.Errorf("list collectors: %w", err)
	}

	ranks := make([]dto.CollectorRankResponse, 0, len(collectors))
	for _, c := range collectors {
		completed, err := s.collectionRepo.CountCompletedByCollector(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("count completed for collector %d: %w", c.ID, err)
		}
		ranks = append(ranks, dto.CollectorRankResponse{
			Name:        c.Username,
			Collections: completed,
			Rating:      placeholderRating,
			Earnings:    fmt.Sprintf("$%d", completed*earningsPerComplete),
		})
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Collections > ranks[j].Collections
	})
	if len(ranks) > topCollectorsLimit {
		ranks = ranks[:topCollectorsLimit]
	}
	return ranks, nil
}

// RecentCollections feeds the admin "orders" panel with the latest requests.
func (s *AdminService) RecentCollections(ctx context.Context, limit int) ([]dto.CollectionResponse, error) {
	collections, err := s.collectionRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent collections: %w", err)
	}
	return toCollectionResponses(collections), nil
}
