package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"zapshift/internal/model"
	"zapshift/internal/repository"
)

type parcelRepository struct {
	coll *mongo.Collection
}

func (r *parcelRepository) Create(ctx context.Context, parcel *model.Parcel) error {
	if parcel.ID == "" {
		parcel.ID = newID()
	}
	_, err := r.coll.InsertOne(ctx, parcel)
	return translateError(err)
}

func (r *parcelRepository) FindByID(ctx context.Context, id string) (*model.Parcel, error) {
	var parcel model.Parcel
	if err := r.coll.FindOne(ctx, byID(id)).Decode(&parcel); err != nil {
		return nil, translateError(err)
	}
	return &parcel, nil
}

func (r *parcelRepository) List(ctx context.Context, filter repository.ParcelFilter) ([]model.Parcel, error) {
	query := bson.M{}
	if filter.SenderEmail != "" {
		query["senderEmail"] = filter.SenderEmail
	}
	if filter.RiderEmail != "" {
		query["riderEmail"] = filter.RiderEmail
	}
	if filter.DeliveryStatus != "" {
		query["deliveryStatus"] = filter.DeliveryStatus
	}
	cur, err := r.coll.Find(ctx, query, newestFirst("createdAt"))
	if err != nil {
		return nil, err
	}
	parcels := make([]model.Parcel, 0)
	if err := cur.All(ctx, &parcels); err != nil {
		return nil, err
	}
	return parcels, nil
}

func (r *parcelRepository) AssignRider(ctx context.Context, id string, assignment repository.RiderAssignment) error {
	return updateOne(ctx, r.coll, byID(id), bson.M{
		"deliveryStatus": model.DeliveryStatusDriverAssigned,
		"riderId":        assignment.RiderID,
		"riderName":      assignment.RiderName,
		"riderEmail":     assignment.RiderEmail,
	})
}

func (r *parcelRepository) UpdateDeliveryStatus(ctx context.Context, id string, status model.DeliveryStatus) error {
	return updateOne(ctx, r.coll, byID(id), bson.M{"deliveryStatus": status})
}

func (r *parcelRepository) MarkPaid(ctx context.Context, id, trackingID string) error {
	return updateOne(ctx, r.coll, byID(id), bson.M{
		"paymentStatus":  model.PaymentStatusPaid,
		"deliveryStatus": model.DeliveryStatusPendingPickup,
		"trackingId":     trackingID,
	})
}

func (r *parcelRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.coll, id)
}
