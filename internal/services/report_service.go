package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/swapify/swapify-backend/internal/dto"
	"github.com/swapify/swapify-backend/internal/models"
	"github.com/swapify/swapify-backend/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportService struct {
	reports  repository.ReportRepository
	listings repository.ListingRepository
}

func NewReportService(reports repository.ReportRepository, listings repository.ListingRepository) *ReportService {
	return &ReportService{reports: reports, listings: listings}
}

func (s *ReportService) Create(ctx context.Context, reporterID primitive.ObjectID, listingID string, req *dto.CreateReportRequest) (*models.Report, error) {
	oid, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return nil, ErrInvalidID
	}
	if _, err := s.listings.FindActive(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	report := &models.Report{
		ReporterID: reporterID,
		ListingID:  oid,
		Reason:     strings.TrimSpace(req.Reason),
		Status:     models.ReportPending,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ReportService) List(ctx context.Context, status string, limit, offset int) (*dto.ReportListResponse, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = 20
	}
	offset = max(offset, 0)

	reports, total, err := s.reports.List(ctx, status, int64(limit), int64(offset))
	if err != nil {
		return nil, err
	}
	return &dto.ReportListResponse{Reports: reports, Total: total, Limit: limit, Offset: offset}, nil
}

// Action records the admin decision. Status actioned takes the listing down.
func (s *ReportService) Action(ctx context.Context, id string, req *dto.ActionReportRequest) (*models.Report, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	report, err := s.reports.UpdateStatus(ctx, oid, req.Status, req.AdminNote)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}

	if report.Status == models.ReportActioned {
		err := s.listings.MarkDeleted(ctx, report.ListingID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		slog.Info("listing removed by moderation", "listing_id", report.ListingID.Hex(), "report_id", report.ID.Hex())
	}
	return report, nil
}
