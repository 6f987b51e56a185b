package dto

import "github.com/swapify/swapify-backend/internal/models"

type CreateReportRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

type ActionReportRequest struct {
	Status    string `json:"status" validate:"required,oneof=pending reviewed actioned dismissed"`
	AdminNote string `json:"admin_note" validate:"max=1000"`
}

type ReportListResponse struct {
	Reports []models.Report `json:"reports"`
	Total   int64           `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}
