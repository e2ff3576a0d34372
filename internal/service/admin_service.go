package service

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"strings"

	"homefinder-be/internal/dto"
	"homefinder-be/internal/entity"
	"homefinder-be/internal/pkg/serverutils"
	"homefinder-be/internal/repository/specification"
	"homefinder-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IAdminService interface {
	GetDashboardStats(ctx context.Context) (*dto.AdminDashboardStats, error)
	GetAllUsers(ctx context.Context, page, limit int, search string) (*dto.AdminListUsersResponse, error)
	UpdateUserStatus(ctx context.Context, userId uuid.UUID, status string) error
	GetSystemLogs(ctx context.Context, limit int, level string) ([]dto.LogEntry, error)
}

type adminService struct {
	uowFactory  unitofwork.RepositoryFactory
	logFilePath string
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, logFilePath string) IAdminService {
	return &adminService{
		uowFactory:  uowFactory,
		logFilePath: logFilePath,
	}
}

func (s *adminService) GetDashboardStats(ctx context.Context) (*dto.AdminDashboardStats, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	stats := &dto.AdminDashboardStats{}

	var err error
	if stats.TotalUsers, err = uow.UserRepository().Count(ctx); err != nil {
		return nil, err
	}
	if stats.PublishedListings, err = uow.ListingRepository().Count(ctx, specification.ByStatus{Status: string(entity.ListingStatusPublished)}); err != nil {
		return nil, err
	}
	if stats.PendingListings, err = uow.ListingRepository().Count(ctx, specification.ByStatus{Status: string(entity.ListingStatusPending)}); err != nil {
		return nil, err
	}
	if stats.SoldListings, err = uow.ListingRepository().Count(ctx, specification.ByStatus{Status: string(entity.ListingStatusSold)}); err != nil {
		return nil, err
	}
	if stats.KnowledgeArticles, err = uow.KnowledgeRepository().Count(ctx); err != nil {
		return nil, err
	}
	if stats.IndexedListings, err = uow.ListingEmbeddingRepository().Count(ctx); err != nil {
		return nil, err
	}
	if stats.IndexedChunks, err = uow.KnowledgeEmbeddingRepository().Count(ctx); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *adminService) GetAllUsers(ctx context.Context, page, limit int, search string) (*dto.AdminListUsersResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{}
	if search != "" {
		specs = append(specs, specification.ByEmailOrNameLike{Term: search})
	}

	total, err := uow.UserRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	users, err := uow.UserRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := &dto.AdminListUsersResponse{Total: total, Users: make([]dto.AdminUserResponse, 0, len(users))}
	for _, u := range users {
		res.Users = append(res.Users, dto.AdminUserResponse{
			Id:        u.Id.String(),
			Email:     u.Email,
			FullName:  u.FullName,
			Phone:     u.Phone,
			Role:      string(u.Role),
			Status:    string(u.Status),
			CreatedAt: u.CreatedAt,
		})
	}
	return res, nil
}

func (s *adminService) UpdateUserStatus(ctx context.Context, userId uuid.UUID, status string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindById(ctx, userId)
	if err != nil {
		return err
	}
	if user == nil {
		return serverutils.NewNotFoundError("user not found")
	}

	user.Status = entity.UserStatus(status)
	return uow.UserRepository().Update(ctx, user)
}

// GetSystemLogs reads the tail of the JSON application log. Lines that do
// not parse (partial writes, rotation boundaries) are skipped.
func (s *adminService) GetSystemLogs(ctx context.Context, limit int, level string) ([]dto.LogEntry, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}

	f, err := os.Open(s.logFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []dto.LogEntry{}, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []dto.LogEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var entry dto.LogEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		if level != "" && !strings.EqualFold(entry.Level, level) {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// Newest first, capped at limit.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
