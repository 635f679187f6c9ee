package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type GetUnresolvedFulfillmentsQueryHandler struct {
	db *gorm.DB
}

func NewGetUnresolvedFulfillmentsQueryHandler(db *gorm.DB) GetUnresolvedFulfillmentsQueryHandler {
	return GetUnresolvedFulfillmentsQueryHandler{db: db}
}

// Handle returns intents in needs_reconciliation, least recently flagged first.
func (h GetUnresolvedFulfillmentsQueryHandler) Handle(
	ctx context.Context,
	query GetUnresolvedFulfillmentsQuery,
) ([]GetUnresolvedFulfillmentsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	result := make([]GetUnresolvedFulfillmentsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			tracking_code,
			note,
			error_messages,
			created_at,
			updated_at
		FROM fulfillment_intents
		WHERE stage = ?
		ORDER BY updated_at, id
	`, fulfillment.NeedsReconciliation.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, orderID          uuid.UUID
			trackingCode, note   string
			messages             pq.StringArray
			createdAt, updatedAt time.Time
		)
		if err = rows.Scan(&id, &orderID, &trackingCode, &note, &messages, &createdAt, &updatedAt); err != nil {
			return nil, err
		}

		intentID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		ordID, idErr := kernel.UUIDFromBytes(orderID[:])
		if idErr != nil {
			return nil, idErr
		}

		result = append(result, GetUnresolvedFulfillmentsQueryResponse{
			IntentID:      intentID,
			OrderID:       ordID,
			TrackingCode:  trackingCode,
			Note:          note,
			ErrorMessages: []string(messages),
			CreatedAt:     createdAt.UTC(),
			UpdatedAt:     updatedAt.UTC(),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
