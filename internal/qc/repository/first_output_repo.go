package repository

import (
	"context"
	"errors"

	"github.com/dilanlakmal/yqms-qc/internal/qc/entity"
	"gorm.io/gorm"
)

// FirstOutputRepository 首件产出记录仓库
type FirstOutputRepository struct {
	db *gorm.DB
}

func NewFirstOutputRepository(db *gorm.DB) *FirstOutputRepository {
	return &FirstOutputRepository{db: db}
}

// FindLatest 取订单最新一条首件记录
func (r *FirstOutputRepository) FindLatest(ctx context.Context, orderNo string) (*entity.FirstOutputRecord, error) {
	var record entity.FirstOutputRecord
	err := r.db.WithContext(ctx).
		Where("order_no = ?", orderNo).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Create 创建首件记录
func (r *FirstOutputRepository) Create(ctx context.Context, record *entity.FirstOutputRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}
