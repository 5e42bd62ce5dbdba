package services

import (
	"context"

	"CloudusAPI/internal/model"
	"CloudusAPI/internal/repository"
)

// ReportService is the read side: dashboards and the audit view. No business
// logic beyond filtering and aggregation.
type ReportService struct {
	Payments *repository.PaymentRepository
	Audit    *repository.AuditRepository
}

func NewReportService(pr *repository.PaymentRepository, ar *repository.AuditRepository) *ReportService {
	return &ReportService{Payments: pr, Audit: ar}
}

func (s *ReportService) ListPayments(
	ctx context.Context,
	entityType model.EntityType,
	entityID int64,
) ([]model.Payment, error) {
	return s.Payments.ListByEntity(ctx, entityType, entityID)
}

func (s *ReportService) Summary(ctx context.Context) ([]repository.SummaryRow, error) {
	return s.Payments.Summarize(ctx)
}

func (s *ReportService) AuditTrail(ctx context.Context, limit, offset int) ([]model.AuditEntry, error) {
	return s.Audit.List(ctx, limit, offset)
}
