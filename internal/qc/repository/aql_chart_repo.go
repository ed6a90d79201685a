package repository

import (
	"context"
	"errors"

	"github.com/dilanlakmal/yqms-qc/internal/qc/entity"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AQLChartRepository AQL抽样方案表仓库
type AQLChartRepository struct {
	db *gorm.DB
}

func NewAQLChartRepository(db *gorm.DB) *AQLChartRepository {
	return &AQLChartRepository{db: db}
}

// FindByLotSize 按批量查行：lot_size_min <= lotSize 且 (lot_size_max >= lotSize 或无上限)
func (r *AQLChartRepository) FindByLotSize(ctx context.Context, chartType, chartLevel string, lotSize int) (*entity.AQLChartRow, error) {
	var row entity.AQLChartRow
	err := r.db.WithContext(ctx).
		Where("type = ? AND level = ?", chartType, chartLevel).
		Where("lot_size_min <= ?", lotSize).
		Where("lot_size_max >= ? OR lot_size_max IS NULL", lotSize).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// FindBySampleSize 按样本量查行：取sample_size >= 请求值中最小的一行（向上取整到表内档位）
func (r *AQLChartRepository) FindBySampleSize(ctx context.Context, chartType, chartLevel string, sampleSize int) (*entity.AQLChartRow, error) {
	var row entity.AQLChartRow
	err := r.db.WithContext(ctx).
		Where("type = ? AND level = ?", chartType, chartLevel).
		Where("sample_size >= ?", sampleSize).
		Order("sample_size ASC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// SeedDefaultChart 表为空时灌入General/II默认图表
// 行按单次正常检验整理，四个AQL水平对应现有买家映射(1.0/1.5/2.5/4.0)。
func (r *AQLChartRepository) SeedDefaultChart(ctx context.Context) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.AQLChartRow{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	type seedRow struct {
		sampleSize int
		lotMin     int
		lotMax     int // 0表示无上限
		accepts    [4]int // 按水平1.0/1.5/2.5/4.0的接收数
	}
	seeds := []seedRow{
		{2, 2, 8, [4]int{0, 0, 0, 0}},
		{3, 9, 15, [4]int{0, 0, 0, 0}},
		{5, 16, 25, [4]int{0, 0, 0, 0}},
		{8, 26, 50, [4]int{0, 0, 0, 1}},
		{13, 51, 90, [4]int{0, 0, 0, 1}},
		{20, 91, 150, [4]int{0, 0, 1, 2}},
		{32, 151, 280, [4]int{0, 1, 2, 3}},
		{50, 281, 500, [4]int{1, 2, 3, 5}},
		{80, 501, 1200, [4]int{2, 3, 5, 7}},
		{125, 1201, 3200, [4]int{3, 5, 7, 10}},
		{200, 3201, 10000, [4]int{5, 7, 10, 14}},
		{315, 10001, 35000, [4]int{7, 10, 14, 21}},
		{500, 35001, 150000, [4]int{10, 14, 21, 21}},
		{800, 150001, 500000, [4]int{14, 21, 21, 21}},
		{1250, 500001, 0, [4]int{21, 21, 21, 21}},
	}
	levels := []float64{1.0, 1.5, 2.5, 4.0}

	rows := make([]entity.AQLChartRow, 0, len(seeds))
	for _, s := range seeds {
		entries := make([]entity.AQLChartEntry, 0, len(levels))
		for i, lv := range levels {
			entries = append(entries, entity.AQLChartEntry{
				Level:        lv,
				AcceptDefect: s.accepts[i],
				RejectDefect: s.accepts[i] + 1,
			})
		}
		row := entity.AQLChartRow{
			ID:         uuid.New().String()[:32],
			Type:       entity.AQLChartTypeGeneral,
			Level:      entity.AQLChartLevelII,
			SampleSize: s.sampleSize,
			LotSizeMin: s.lotMin,
			AQL:        datatypes.NewJSONSlice(entries),
		}
		if s.lotMax > 0 {
			max := s.lotMax
			row.LotSizeMax = &max
		}
		rows = append(rows, row)
	}

	return r.db.WithContext(ctx).Create(&rows).Error
}
