package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"zapshift/internal/model"
	"zapshift/internal/repository"
)

type riderRepository struct {
	coll *mongo.Collection
}

func (r *riderRepository) Create(ctx context.Context, rider *model.Rider) error {
	if rider.ID == "" {
		rider.ID = newID()
	}
	_, err := r.coll.InsertOne(ctx, rider)
	return translateError(err)
}

func (r *riderRepository) FindByID(ctx context.Context, id string) (*model.Rider, error) {
	var rider model.Rider
	if err := r.coll.FindOne(ctx, byID(id)).Decode(&rider); err != nil {
		return nil, translateError(err)
	}
	return &rider, nil
}

func (r *riderRepository) List(ctx context.Context, filter repository.RiderFilter) ([]model.Rider, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.District != "" {
		query["riderDistrict"] = ciExact(filter.District)
	}
	if filter.WorkStatus != "" {
		query["workStatus"] = filter.WorkStatus
	}
	cur, err := r.coll.Find(ctx, query, newestFirst("createdAt"))
	if err != nil {
		return nil, err
	}
	riders := make([]model.Rider, 0)
	if err := cur.All(ctx, &riders); err != nil {
		return nil, err
	}
	return riders, nil
}

func (r *riderRepository) UpdateStatus(ctx context.Context, id string, status model.RiderStatus, workStatus model.WorkStatus) error {
	set := bson.M{"status": status}
	if workStatus != "" {
		set["workStatus"] = workStatus
	}
	return updateOne(ctx, r.coll, byID(id), set)
}

func (r *riderRepository) UpdateWorkStatus(ctx context.Context, id string, workStatus model.WorkStatus) error {
	return updateOne(ctx, r.coll, byID(id), bson.M{"workStatus": workStatus})
}

func (r *riderRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.coll, id)
}
