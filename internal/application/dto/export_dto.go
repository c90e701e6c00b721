package dto

import (
	"time"

	"github.com/adpopescu/panex-api/internal/domain/entity"
)

// ExportResult is the outcome of one export action: the rendered file and the
// batch sequence number that was burned for it.
type ExportResult struct {
	FileName string `json:"file_name"`
	Content  []byte `json:"content"` // base64 over JSON
	Sequence int    `json:"sequence"`
	Orders   int    `json:"orders"`
}

// DayStatusResponse per-date day state.
type DayStatusResponse struct {
	Date               string     `json:"date"`
	ProductionExported bool       `json:"production_exported"`
	ExportedAt         *time.Time `json:"exported_at,omitempty"`
	ExportedBy         string     `json:"exported_by,omitempty"`
	LotNumber          int        `json:"lot_number,omitempty"`
	UnlockedAt         *time.Time `json:"unlocked_at,omitempty"`
	UnlockedBy         string     `json:"unlocked_by,omitempty"`
}

// NewDayStatusResponse maps the entity.
func NewDayStatusResponse(ds *entity.DayStatus) *DayStatusResponse {
	return &DayStatusResponse{
		Date:               ds.Date,
		ProductionExported: ds.ProductionExported,
		ExportedAt:         ds.ExportedAt,
		ExportedBy:         ds.ExportedBy,
		LotNumber:          ds.LotNumber,
		UnlockedAt:         ds.UnlockedAt,
		UnlockedBy:         ds.UnlockedBy,
	}
}

// ExportCountersResponse current per-date counters.
type ExportCountersResponse struct {
	Date       string `json:"date"`
	Invoice    int    `json:"invoice"`
	Receipt    int    `json:"receipt"`
	Production int    `json:"production"`
}
