package repository

import (
	"context"

	"gorm.io/gorm"

	"zapshift/internal/model"
)

type parcelRepository struct {
	db *gorm.DB
}

// NewParcelRepository creates a new parcel repository.
func NewParcelRepository(db *gorm.DB) ParcelRepository {
	return &parcelRepository{db: db}
}

func (r *parcelRepository) Create(ctx context.Context, parcel *model.Parcel) error {
	return translateError(conn(ctx, r.db).Create(parcel).Error)
}

func (r *parcelRepository) FindByID(ctx context.Context, id string) (*model.Parcel, error) {
	var parcel model.Parcel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&parcel).Error; err != nil {
		return nil, translateError(err)
	}
	return &parcel, nil
}

func (r *parcelRepository) List(ctx context.Context, filter ParcelFilter) ([]model.Parcel, error) {
	q := conn(ctx, r.db).Model(&model.Parcel{})
	if filter.SenderEmail != "" {
		q = q.Where("sender_email = ?", filter.SenderEmail)
	}
	if filter.RiderEmail != "" {
		q = q.Where("rider_email = ?", filter.RiderEmail)
	}
	if filter.DeliveryStatus != "" {
		q = q.Where("delivery_status = ?", string(filter.DeliveryStatus))
	}
	parcels := make([]model.Parcel, 0)
	if err := q.Order("created_at desc").Find(&parcels).Error; err != nil {
		return nil, err
	}
	return parcels, nil
}

func (r *parcelRepository) AssignRider(ctx context.Context, id string, assignment RiderAssignment) error {
	return updateOne(ctx, r.db, &model.Parcel{}, id, map[string]interface{}{
		"delivery_status": string(model.DeliveryStatusDriverAssigned),
		"rider_id":        assignment.RiderID,
		"rider_name":      assignment.RiderName,
		"rider_email":     assignment.RiderEmail,
	})
}

func (r *parcelRepository) UpdateDeliveryStatus(ctx context.Context, id string, status model.DeliveryStatus) error {
	return updateOne(ctx, r.db, &model.Parcel{}, id, map[string]interface{}{"delivery_status": string(status)})
}

func (r *parcelRepository) MarkPaid(ctx context.Context, id, trackingID string) error {
	return updateOne(ctx, r.db, &model.Parcel{}, id, map[string]interface{}{
		"payment_status":  string(model.PaymentStatusPaid),
		"delivery_status": string(model.DeliveryStatusPendingPickup),
		"tracking_id":     trackingID,
	})
}

func (r *parcelRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.db, &model.Parcel{}, id)
}
