package service

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/dilanlakmal/yqms-qc/internal/qc/entity"
)

// WashingRecordStore 记录读写的窄接口
type WashingRecordStore interface {
	FindByID(ctx context.Context, id string) (*entity.QCWashingRecord, error)
	Update(ctx context.Context, record *entity.QCWashingRecord) error
}

// AggregateResult 一次重算的完整结果
type AggregateResult struct {
	TotalCheckedPcs   int     `json:"totalCheckedPcs"`
	RejectedDefectPcs int     `json:"rejectedDefectPcs"`
	TotalDefectCount  int     `json:"totalDefectCount"`
	DefectRate        float64 `json:"defectRate"`
	DefectRatio       float64 `json:"defectRatio"`

	TotalCheckedPoint int `json:"totalCheckedPoint"`
	TotalPass         int `json:"totalPass"`
	TotalFail         int `json:"totalFail"`
	PassRate          int `json:"passRate"`

	MeasurementResult  string `json:"measurementResult"`
	DefectResult       string `json:"defectResult"`
	OverallFinalResult string `json:"overallFinalResult"`
}

// SummaryService 检验汇总服务
// 汇总永远从当前子文档重算，库里存的overallFinalResult只是上次结果的缓存，
// 部分保存会让它过期，不能当权威值用。
type SummaryService struct {
	records WashingRecordStore
}

func NewSummaryService(records WashingRecordStore) *SummaryService {
	return &SummaryService{records: records}
}

// PassRateThreshold 测量判定的通过率阈值（百分比）
const PassRateThreshold = 95

// Recompute 从记录当前状态重算全部汇总值，无副作用
func Recompute(record *entity.QCWashingRecord) AggregateResult {
	md := record.MeasurementDetails.Data()
	dd := record.DefectDetails.Data()

	// 1. 测量点统计：优先用按尺码缓存的汇总，否则逐点遍历
	var checkedPoints, totalPass, totalFail int
	if len(md.MeasurementSizeSummary) > 0 {
		for _, s := range md.MeasurementSizeSummary {
			checkedPoints += s.CheckedPoints
			totalPass += s.TotalPass
			totalFail += s.TotalFail
		}
	} else {
		for _, m := range md.Measurement {
			for _, pc := range m.Pcs {
				for _, p := range pc.MeasurementPoints {
					switch p.Result {
					case "pass":
						checkedPoints++
						totalPass++
					case "fail":
						checkedPoints++
						totalFail++
					}
				}
			}
		}
	}

	// 2. 通过率：无测量点按100算（测量维度空检即过，是约定不是漏洞）
	passRate := 100
	if checkedPoints > 0 {
		passRate = int(math.Round(float64(totalPass) / float64(checkedPoints) * 100))
	}

	// 3. 测量判定
	measurementResult := entity.ResultPass
	if checkedPoints > 0 && passRate < PassRateThreshold {
		measurementResult = entity.ResultFail
	}

	// 4. 已验件数：测量组qty求和，为0退回表单checkedQty
	totalCheckedPcs := 0
	for _, m := range md.Measurement {
		if m.Qty > 0 {
			totalCheckedPcs += m.Qty
		}
	}
	if totalCheckedPcs == 0 {
		if v, err := strconv.Atoi(record.CheckedQty); err == nil {
			totalCheckedPcs = v
		}
	}

	// 5. 疵点统计
	rejectedDefectPcs := len(dd.DefectsByPc)
	totalDefectCount := 0
	for _, pc := range dd.DefectsByPc {
		for _, d := range pc.PcDefects {
			totalDefectCount += int(d.DefectQty)
		}
	}

	// 6. 疵点率/不良率，除零按0
	var defectRate, defectRatio float64
	if totalCheckedPcs > 0 {
		defectRate = round1(float64(totalDefectCount) / float64(totalCheckedPcs) * 100)
		defectRatio = round1(float64(rejectedDefectPcs) / float64(totalCheckedPcs) * 100)
	}

	// 7. 疵点判定：挂了AQL方案按接收数(含边界)，否则退回存量结果
	var defectResult string
	if len(record.AQL) > 0 && record.AQL[0].AcceptedDefect != nil {
		if totalDefectCount <= *record.AQL[0].AcceptedDefect {
			defectResult = entity.ResultPass
		} else {
			defectResult = entity.ResultFail
		}
	} else if dd.Result != "" {
		defectResult = dd.Result
	} else if totalDefectCount == 0 {
		defectResult = entity.ResultPass
	} else {
		defectResult = entity.ResultFail
	}

	// 8. 总判定：SOP报告疵点零容忍，不走AQL接收数
	var overall string
	if record.ReportType == entity.ReportTypeSOP {
		if passRate >= PassRateThreshold && totalDefectCount == 0 {
			overall = entity.ResultPass
		} else {
			overall = entity.ResultFail
		}
	} else {
		if measurementResult == entity.ResultPass && defectResult == entity.ResultPass {
			overall = entity.ResultPass
		} else {
			overall = entity.ResultFail
		}
	}

	return AggregateResult{
		TotalCheckedPcs:    totalCheckedPcs,
		RejectedDefectPcs:  rejectedDefectPcs,
		TotalDefectCount:   totalDefectCount,
		DefectRate:         defectRate,
		DefectRatio:        defectRatio,
		TotalCheckedPoint:  checkedPoints,
		TotalPass:          totalPass,
		TotalFail:          totalFail,
		PassRate:           passRate,
		MeasurementResult:  measurementResult,
		DefectResult:       defectResult,
		OverallFinalResult: overall,
	}
}

// applyResult 汇总值落到记录列上
func applyResult(record *entity.QCWashingRecord, res AggregateResult) {
	record.TotalCheckedPcs = res.TotalCheckedPcs
	record.RejectedDefectPcs = res.RejectedDefectPcs
	record.TotalDefectCount = res.TotalDefectCount
	record.DefectRate = res.DefectRate
	record.DefectRatio = res.DefectRatio
	record.TotalCheckedPoint = res.TotalCheckedPoint
	record.TotalPass = res.TotalPass
	record.TotalFail = res.TotalFail
	record.PassRate = res.PassRate
	record.OverallFinalResult = res.OverallFinalResult
}

// SaveSummary 重算并落库，返回旧结论、新汇总和更新后的记录
func (s *SummaryService) SaveSummary(ctx context.Context, recordID string) (string, AggregateResult, *entity.QCWashingRecord, error) {
	record, err := s.records.FindByID(ctx, recordID)
	if err != nil {
		return "", AggregateResult{}, nil, err
	}

	previous := record.OverallFinalResult
	res := Recompute(record)
	applyResult(record, res)

	if err := s.records.Update(ctx, record); err != nil {
		return "", AggregateResult{}, nil, fmt.Errorf("save summary: %w", err)
	}
	return previous, res, record, nil
}

// PreviewSummary 只读重算，不落库
func (s *SummaryService) PreviewSummary(ctx context.Context, recordID string) (AggregateResult, *entity.QCWashingRecord, error) {
	record, err := s.records.FindByID(ctx, recordID)
	if err != nil {
		return AggregateResult{}, nil, err
	}
	return Recompute(record), record, nil
}

// round1 保留1位小数
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
