package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"zapshift/internal/model"
	"zapshift/internal/repository"
)

type paymentRepository struct {
	coll *mongo.Collection
}

// Create inserts a payment; the unique transactionId index turns a second
// insert for the same charge into ErrDuplicate.
func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	if payment.ID == "" {
		payment.ID = newID()
	}
	_, err := r.coll.InsertOne(ctx, payment)
	return translateError(err)
}

func (r *paymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error) {
	var payment model.Payment
	if err := r.coll.FindOne(ctx, bson.M{"transactionId": transactionID}).Decode(&payment); err != nil {
		return nil, translateError(err)
	}
	return &payment, nil
}

func (r *paymentRepository) List(ctx context.Context, filter repository.PaymentFilter) ([]model.Payment, error) {
	query := bson.M{}
	if filter.CustomerEmail != "" {
		query["customerEmail"] = filter.CustomerEmail
	}
	cur, err := r.coll.Find(ctx, query, newestFirst("paidAt"))
	if err != nil {
		return nil, err
	}
	payments := make([]model.Payment, 0)
	if err := cur.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.coll, id)
}
