package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"zapshift/internal/model"
	"zapshift/internal/repository"
)

type userRepository struct {
	coll *mongo.Collection
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	_, err := r.coll.InsertOne(ctx, user)
	return translateError(err)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, byID(id))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, filter repository.UserFilter) ([]model.User, error) {
	query := bson.M{}
	if filter.Email != "" {
		query["email"] = filter.Email
	}
	if filter.Search != "" {
		re := ciContains(filter.Search)
		query["$or"] = bson.A{
			bson.M{"displayName": re},
			bson.M{"email": re},
			bson.M{"role": re},
			bson.M{"region": re},
			bson.M{"district": re},
		}
	}
	cur, err := r.coll.Find(ctx, query, newestFirst("createdAt"))
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0)
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, email, region, district string) error {
	return updateOne(ctx, r.coll, bson.M{"email": email}, bson.M{"region": region, "district": district})
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role model.Role) error {
	return updateOne(ctx, r.coll, byID(id), bson.M{"role": role})
}

func (r *userRepository) UpdateRoleByEmail(ctx context.Context, email string, role model.Role) error {
	return updateOne(ctx, r.coll, bson.M{"email": email}, bson.M{"role": role})
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.coll, id)
}
