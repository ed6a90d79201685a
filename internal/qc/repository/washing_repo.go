package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dilanlakmal/yqms-qc/internal/qc/entity"
	"gorm.io/gorm"
)

// WashingRepository 水洗检验记录仓库
type WashingRepository struct {
	db *gorm.DB
}

func NewWashingRepository(db *gorm.DB) *WashingRepository {
	return &WashingRepository{db: db}
}

// FindByID 根据ID查找记录
func (r *WashingRepository) FindByID(ctx context.Context, id string) (*entity.QCWashingRecord, error) {
	var record entity.QCWashingRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// RecordIdentity 记录唯一性查询条件，空字段不参与匹配
type RecordIdentity struct {
	OrderNo         string
	Date            *time.Time
	Color           string
	WashType        string
	BeforeAfterWash string
	FactoryName     string
	ReportType      string
	InspectorEmpID  string
}

// FindByIdentity 按唯一性字段组合查找记录
func (r *WashingRepository) FindByIdentity(ctx context.Context, ident RecordIdentity) (*entity.QCWashingRecord, error) {
	query := r.db.WithContext(ctx).Model(&entity.QCWashingRecord{}).
		Where("order_no = ?", ident.OrderNo)

	if ident.Date != nil {
		query = query.Where("date = ?", *ident.Date)
	}
	if ident.Color != "" {
		query = query.Where("color = ?", ident.Color)
	}
	if ident.WashType != "" {
		query = query.Where("wash_type = ?", ident.WashType)
	}
	if ident.BeforeAfterWash != "" {
		query = query.Where("before_after_wash = ?", ident.BeforeAfterWash)
	}
	if ident.FactoryName != "" {
		query = query.Where("factory_name = ?", ident.FactoryName)
	}
	if ident.ReportType != "" {
		query = query.Where("report_type = ?", ident.ReportType)
	}
	if ident.InspectorEmpID != "" {
		query = query.Where("inspector_emp_id = ?", ident.InspectorEmpID)
	}

	var record entity.QCWashingRecord
	err := query.First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindLatestByOrder 查订单下最近更新的一条记录（提交自动保存用）
func (r *WashingRepository) FindLatestByOrder(ctx context.Context, orderNo string) (*entity.QCWashingRecord, error) {
	var record entity.QCWashingRecord
	err := r.db.WithContext(ctx).
		Where("order_no = ?", orderNo).
		Order("updated_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindLatestSubmitted 查订单下最近提交的记录
func (r *WashingRepository) FindLatestSubmitted(ctx context.Context, orderNo string) (*entity.QCWashingRecord, error) {
	var record entity.QCWashingRecord
	err := r.db.WithContext(ctx).
		Where("order_no = ? AND is_auto_save = ? AND status = ?", orderNo, false, entity.WashingStatusSubmitted).
		Order("submitted_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// DistinctOrderNos 订单号去重分页列表
func (r *WashingRepository) DistinctOrderNos(ctx context.Context, offset, limit int) ([]string, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&entity.QCWashingRecord{}).
		Distinct("order_no").
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orderNos []string
	err := r.db.WithContext(ctx).
		Model(&entity.QCWashingRecord{}).
		Distinct("order_no").
		Order("order_no").
		Offset(offset).
		Limit(limit).
		Pluck("order_no", &orderNos).Error
	return orderNos, total, err
}

// Create 创建记录
func (r *WashingRepository) Create(ctx context.Context, record *entity.QCWashingRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// Update 整条保存
// 汇总字段可能与库内现值相同，Save全量写列，等价于强制落盘。
func (r *WashingRepository) Update(ctx context.Context, record *entity.QCWashingRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// UpdateFields 按字段patch（findByIdAndUpdate语义），返回更新后的记录
func (r *WashingRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (*entity.QCWashingRecord, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.QCWashingRecord{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}
