package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"zapshift/internal/model"
)

type riderRepository struct {
	db *gorm.DB
}

// NewRiderRepository creates a new rider repository.
func NewRiderRepository(db *gorm.DB) RiderRepository {
	return &riderRepository{db: db}
}

func (r *riderRepository) Create(ctx context.Context, rider *model.Rider) error {
	return translateError(conn(ctx, r.db).Create(rider).Error)
}

func (r *riderRepository) FindByID(ctx context.Context, id string) (*model.Rider, error) {
	var rider model.Rider
	if err := conn(ctx, r.db).Where("id = ?", id).First(&rider).Error; err != nil {
		return nil, translateError(err)
	}
	return &rider, nil
}

func (r *riderRepository) List(ctx context.Context, filter RiderFilter) ([]model.Rider, error) {
	q := conn(ctx, r.db).Model(&model.Rider{})
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.District != "" {
		q = q.Where("LOWER(rider_district) = ?", strings.ToLower(filter.District))
	}
	if filter.WorkStatus != "" {
		q = q.Where("work_status = ?", string(filter.WorkStatus))
	}
	riders := make([]model.Rider, 0)
	if err := q.Order("created_at desc").Find(&riders).Error; err != nil {
		return nil, err
	}
	return riders, nil
}

func (r *riderRepository) UpdateStatus(ctx context.Context, id string, status model.RiderStatus, workStatus model.WorkStatus) error {
	values := map[string]interface{}{"status": string(status)}
	if workStatus != "" {
		values["work_status"] = string(workStatus)
	}
	return updateOne(ctx, r.db, &model.Rider{}, id, values)
}

func (r *riderRepository) UpdateWorkStatus(ctx context.Context, id string, workStatus model.WorkStatus) error {
	return updateOne(ctx, r.db, &model.Rider{}, id, map[string]interface{}{"work_status": string(workStatus)})
}

func (r *riderRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.db, &model.Rider{}, id)
}
