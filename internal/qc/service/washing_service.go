package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dilanlakmal/yqms-qc/internal/qc/entity"
	"github.com/dilanlakmal/yqms-qc/internal/qc/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type WashingService struct {
	washingRepo     *repository.WashingRepository
	firstOutputRepo *repository.FirstOutputRepository
}

func NewWashingService(washingRepo *repository.WashingRepository, firstOutputRepo *repository.FirstOutputRepository) *WashingService {
	return &WashingService{washingRepo: washingRepo, firstOutputRepo: firstOutputRepo}
}

// ========== 订单基础数据 ==========

// SaveOrderDataInput 订单基础数据保存入参，八元组定位记录
type SaveOrderDataInput struct {
	OrderNo         string `json:"orderNo" binding:"required"`
	Date            string `json:"date"`
	Color           string `json:"color"`
	WashType        string `json:"washType"`
	BeforeAfterWash string `json:"before_after_wash"`
	FactoryName     string `json:"factoryName"`
	ReportType      string `json:"reportType"`
	InspectorEmpID  string `json:"inspectorEmpId"`

	OrderQty      *int               `json:"orderQty"`
	ColorOrderQty *int               `json:"colorOrderQty"`
	WashQty       *string            `json:"washQty"`
	CheckedQty    *string            `json:"checkedQty"`
	Buyer         *string            `json:"buyer"`
	AQL           []entity.AQLResult `json:"aql"`
	IsAutoSave    *bool              `json:"isAutoSave"`
}

// parseDate 宽松解析日期，兼容RFC3339和纯日期两种前端格式
func parseDate(v string) *time.Time {
	if v == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}

// SaveOrderData 按身份八元组做幂等upsert，同一检验只有一条在途记录
func (s *WashingService) SaveOrderData(ctx context.Context, input *SaveOrderDataInput) (*entity.QCWashingRecord, bool, error) {
	date := parseDate(input.Date)
	identity := repository.RecordIdentity{
		OrderNo:         input.OrderNo,
		Date:            date,
		Color:           input.Color,
		WashType:        input.WashType,
		BeforeAfterWash: input.BeforeAfterWash,
		FactoryName:     input.FactoryName,
		ReportType:      input.ReportType,
		InspectorEmpID:  input.InspectorEmpID,
	}

	record, err := s.washingRepo.FindByIdentity(ctx, identity)
	created := false
	if err != nil {
		if !repository.IsNotFound(err) {
			return nil, false, err
		}
		record = &entity.QCWashingRecord{
			ID:              uuid.New().String()[:32],
			OrderNo:         input.OrderNo,
			Date:            date,
			Color:           input.Color,
			WashType:        input.WashType,
			BeforeAfterWash: input.BeforeAfterWash,
			FactoryName:     input.FactoryName,
			ReportType:      input.ReportType,
			InspectorEmpID:  input.InspectorEmpID,
			Status:          entity.WashingStatusProcessing,
			IsAutoSave:      true,
			CreatedAt:       time.Now(),
		}
		created = true
	}

	if input.OrderQty != nil {
		record.OrderQty = *input.OrderQty
	}
	if input.ColorOrderQty != nil {
		record.ColorOrderQty = *input.ColorOrderQty
	}
	if input.WashQty != nil {
		record.WashQty = *input.WashQty
	}
	if input.CheckedQty != nil {
		record.CheckedQty = *input.CheckedQty
	}
	if input.Buyer != nil {
		record.Buyer = *input.Buyer
	}
	if len(input.AQL) > 0 {
		record.AQL = input.AQL
	}
	if input.IsAutoSave != nil {
		record.IsAutoSave = *input.IsAutoSave
	}
	now := time.Now()
	record.SavedAt = &now
	record.UpdatedAt = now

	if created {
		if err := s.washingRepo.Create(ctx, record); err != nil {
			return nil, false, fmt.Errorf("创建洗水检验记录失败: %w", err)
		}
	} else {
		if err := s.washingRepo.Update(ctx, record); err != nil {
			return nil, false, fmt.Errorf("更新洗水检验记录失败: %w", err)
		}
	}
	return record, created, nil
}

// ========== 测量数据 ==========

// SaveMeasurementInput 单个尺码测量组的保存入参
type SaveMeasurementInput struct {
	RecordID    string                  `json:"recordId" binding:"required"`
	Measurement entity.MeasurementEntry `json:"measurement" binding:"required"`
}

// normalizeWashStage 前端传的洗前/洗后文案归一成存储键
func normalizeWashStage(v string) string {
	switch v {
	case "Before Wash":
		return "beforeWash"
	case "After Wash":
		return "afterWash"
	}
	return v
}

// CalculateSizeSummary 按单个尺码组算测量汇总，正负公差越界分开计数
func CalculateSizeSummary(m entity.MeasurementEntry) entity.MeasurementSizeSummary {
	summary := entity.MeasurementSizeSummary{
		Size:            m.Size,
		KValue:          m.KValue,
		BeforeAfterWash: normalizeWashStage(m.BeforeAfterWash),
		CheckedPcs:      len(m.Pcs),
	}
	for _, pc := range m.Pcs {
		for _, p := range pc.MeasurementPoints {
			switch p.Result {
			case "pass":
				summary.CheckedPoints++
				summary.TotalPass++
			case "fail":
				summary.CheckedPoints++
				summary.TotalFail++
				// toleranceMinus按带符号偏移存储，下界=规格+负公差
				measured := float64(p.MeasuredValueDecimal)
				spec := float64(p.Specs)
				if measured > spec+float64(p.TolerancePlus) {
					summary.PlusToleranceFailCount++
				} else if measured < spec+float64(p.ToleranceMinus) {
					summary.MinusToleranceFailCount++
				}
			}
		}
	}
	return summary
}

// SaveMeasurement 按(size,kvalue,洗前洗后)对测量组和尺码汇总做替换式upsert
func (s *WashingService) SaveMeasurement(ctx context.Context, input *SaveMeasurementInput) (*entity.QCWashingRecord, error) {
	record, err := s.washingRepo.FindByID(ctx, input.RecordID)
	if err != nil {
		return nil, err
	}

	m := input.Measurement
	m.BeforeAfterWash = normalizeWashStage(m.BeforeAfterWash)
	summary := CalculateSizeSummary(m)

	md := record.MeasurementDetails.Data()

	replaced := false
	for i, existing := range md.Measurement {
		if existing.Size == m.Size && existing.KValue == m.KValue &&
			normalizeWashStage(existing.BeforeAfterWash) == m.BeforeAfterWash {
			md.Measurement[i] = m
			replaced = true
			break
		}
	}
	if !replaced {
		md.Measurement = append(md.Measurement, m)
	}

	// 旧数据没存洗前洗后字段时退化成(size,kvalue)匹配
	replaced = false
	for i, existing := range md.MeasurementSizeSummary {
		if existing.Size == summary.Size && existing.KValue == summary.KValue &&
			(existing.BeforeAfterWash == summary.BeforeAfterWash || existing.BeforeAfterWash == "") {
			md.MeasurementSizeSummary[i] = summary
			replaced = true
			break
		}
	}
	if !replaced {
		md.MeasurementSizeSummary = append(md.MeasurementSizeSummary, summary)
	}

	record.MeasurementDetails = datatypes.NewJSONType(md)
	now := time.Now()
	record.SavedAt = &now
	record.UpdatedAt = now
	if err := s.washingRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("保存测量数据失败: %w", err)
	}
	return record, nil
}

// ========== 疵点数据 ==========

// SaveDefectsInput 疵点数据整体替换保存
type SaveDefectsInput struct {
	RecordID      string               `json:"recordId"`
	DefectDetails entity.DefectDetails `json:"defectDetails"`
}

func (s *WashingService) SaveDefects(ctx context.Context, input *SaveDefectsInput) (*entity.QCWashingRecord, error) {
	record, err := s.washingRepo.FindByID(ctx, input.RecordID)
	if err != nil {
		return nil, err
	}

	record.DefectDetails = datatypes.NewJSONType(input.DefectDetails)
	now := time.Now()
	record.SavedAt = &now
	record.UpdatedAt = now
	if err := s.washingRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("保存疵点数据失败: %w", err)
	}
	return record, nil
}

// ========== 提交与查询 ==========

// Submit 把订单最近一条在途记录转正：去掉自动保存标记并定稿汇总
func (s *WashingService) Submit(ctx context.Context, orderNo string) (*entity.QCWashingRecord, error) {
	record, err := s.washingRepo.FindLatestByOrder(ctx, orderNo)
	if err != nil {
		return nil, fmt.Errorf("no saved record found for order %s: %w", orderNo, err)
	}

	res := Recompute(record)
	applyResult(record, res)

	now := time.Now()
	record.IsAutoSave = false
	record.Status = entity.WashingStatusSubmitted
	record.SubmittedAt = &now
	record.SavedAt = &now
	record.UpdatedAt = now
	if err := s.washingRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("提交洗水检验记录失败: %w", err)
	}
	return record, nil
}

// GetSubmitted 取订单最近一条已提交记录
func (s *WashingService) GetSubmitted(ctx context.Context, orderNo string) (*entity.QCWashingRecord, error) {
	return s.washingRepo.FindLatestSubmitted(ctx, orderNo)
}

// CheckSubmitted 订单是否已有提交记录
func (s *WashingService) CheckSubmitted(ctx context.Context, orderNo string) (bool, error) {
	_, err := s.washingRepo.FindLatestSubmitted(ctx, orderNo)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *WashingService) GetRecord(ctx context.Context, id string) (*entity.QCWashingRecord, error) {
	return s.washingRepo.FindByID(ctx, id)
}

// ListOrderNumbers 有检验记录的订单号去重分页列表
func (s *WashingService) ListOrderNumbers(ctx context.Context, page, pageSize int) ([]string, int64, error) {
	return s.washingRepo.DistinctOrderNos(ctx, (page-1)*pageSize, pageSize)
}

// UpdateRecord 按字段补丁更新
func (s *WashingService) UpdateRecord(ctx context.Context, id string, fields map[string]interface{}) (*entity.QCWashingRecord, error) {
	return s.washingRepo.UpdateFields(ctx, id, fields)
}

// ========== 首件产量 ==========

// LatestFirstOutput 订单最近一次首件产量，用于默认抽样数量
func (s *WashingService) LatestFirstOutput(ctx context.Context, orderNo string) (*entity.FirstOutputRecord, error) {
	return s.firstOutputRepo.FindLatest(ctx, orderNo)
}

// SaveFirstOutput 登记首件产量
func (s *WashingService) SaveFirstOutput(ctx context.Context, orderNo, color string, quantity int, createdBy string) (*entity.FirstOutputRecord, error) {
	rec := &entity.FirstOutputRecord{
		ID:        uuid.New().String()[:32],
		OrderNo:   orderNo,
		Color:     color,
		Quantity:  entity.FlexInt(quantity),
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.firstOutputRepo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("保存首件产量失败: %w", err)
	}
	return rec, nil
}
