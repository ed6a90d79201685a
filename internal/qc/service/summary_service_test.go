package service

import (
	"testing"

	"github.com/dilanlakmal/yqms-qc/internal/qc/entity"
	"gorm.io/datatypes"
)

func intPtr(v int) *int { return &v }

func recordWithPoints(pass, fail int) *entity.QCWashingRecord {
	points := make([]entity.MeasurementPoint, 0, pass+fail)
	for i := 0; i < pass; i++ {
		points = append(points, entity.MeasurementPoint{PointName: "P", Result: "pass"})
	}
	for i := 0; i < fail; i++ {
		points = append(points, entity.MeasurementPoint{PointName: "F", Result: "fail"})
	}
	md := entity.MeasurementDetails{
		Measurement: []entity.MeasurementEntry{
			{
				Size: "M", KValue: "K1", Qty: 1,
				Pcs: []entity.MeasurementPc{{PcNumber: 1, MeasurementPoints: points}},
			},
		},
	}
	return &entity.QCWashingRecord{
		ID:                 "rec-001",
		OrderNo:            "MO-1001",
		CheckedQty:         "20",
		MeasurementDetails: datatypes.NewJSONType(md),
	}
}

func TestRecomputeEmptyRecordDefaults(t *testing.T) {
	record := &entity.QCWashingRecord{ID: "rec-empty", OrderNo: "MO-1000"}

	res := Recompute(record)

	if res.PassRate != 100 {
		t.Errorf("Expected pass rate 100 with no points, got %d", res.PassRate)
	}
	if res.DefectRate != 0 || res.DefectRatio != 0 {
		t.Errorf("Expected zero defect rates, got %v / %v", res.DefectRate, res.DefectRatio)
	}
	if res.MeasurementResult != entity.ResultPass {
		t.Errorf("Expected measurement Pass with no points, got %s", res.MeasurementResult)
	}
	if res.OverallFinalResult != entity.ResultPass {
		t.Errorf("Expected overall Pass for empty record, got %s", res.OverallFinalResult)
	}
}

func TestRecomputePassRateThreshold(t *testing.T) {
	// 95/100 = 95% → Pass
	res := Recompute(recordWithPoints(95, 5))
	if res.PassRate != 95 {
		t.Fatalf("Expected pass rate 95, got %d", res.PassRate)
	}
	if res.MeasurementResult != entity.ResultPass {
		t.Errorf("Expected measurement Pass at 95%%, got %s", res.MeasurementResult)
	}

	// 94/100 = 94% → Fail
	res = Recompute(recordWithPoints(94, 6))
	if res.PassRate != 94 {
		t.Fatalf("Expected pass rate 94, got %d", res.PassRate)
	}
	if res.MeasurementResult != entity.ResultFail {
		t.Errorf("Expected measurement Fail at 94%%, got %s", res.MeasurementResult)
	}
}

func TestRecomputePassRateRounding(t *testing.T) {
	// 2/3 = 66.67 → 67
	res := Recompute(recordWithPoints(2, 1))
	if res.PassRate != 67 {
		t.Errorf("Expected rounded pass rate 67, got %d", res.PassRate)
	}
}

func TestRecomputeSizeSummaryFastPath(t *testing.T) {
	// 尺码汇总存在时逐点数据被忽略
	md := entity.MeasurementDetails{
		Measurement: []entity.MeasurementEntry{
			{
				Size: "M", Qty: 2,
				Pcs: []entity.MeasurementPc{{
					PcNumber: 1,
					MeasurementPoints: []entity.MeasurementPoint{
						{Result: "fail"}, {Result: "fail"},
					},
				}},
			},
		},
		MeasurementSizeSummary: []entity.MeasurementSizeSummary{
			{Size: "M", CheckedPoints: 10, TotalPass: 10, TotalFail: 0},
			{Size: "L", CheckedPoints: 10, TotalPass: 9, TotalFail: 1},
		},
	}
	record := &entity.QCWashingRecord{
		ID:                 "rec-fast",
		MeasurementDetails: datatypes.NewJSONType(md),
	}

	res := Recompute(record)
	if res.TotalCheckedPoint != 20 || res.TotalPass != 19 || res.TotalFail != 1 {
		t.Errorf("Expected 20/19/1 from size summary, got %d/%d/%d",
			res.TotalCheckedPoint, res.TotalPass, res.TotalFail)
	}
	if res.PassRate != 95 {
		t.Errorf("Expected pass rate 95, got %d", res.PassRate)
	}
}

func TestRecomputeCheckedPcsFallback(t *testing.T) {
	// 测量组qty全为0时退回表单checkedQty
	record := recordWithPoints(10, 0)
	md := record.MeasurementDetails.Data()
	md.Measurement[0].Qty = 0
	record.MeasurementDetails = datatypes.NewJSONType(md)
	record.CheckedQty = "15"

	res := Recompute(record)
	if res.TotalCheckedPcs != 15 {
		t.Errorf("Expected checked pcs 15 from checkedQty, got %d", res.TotalCheckedPcs)
	}

	// 非数字的checkedQty按0处理
	record.CheckedQty = "abc"
	res = Recompute(record)
	if res.TotalCheckedPcs != 0 {
		t.Errorf("Expected checked pcs 0 for invalid checkedQty, got %d", res.TotalCheckedPcs)
	}
}

func defectDetails(perPc ...int) entity.DefectDetails {
	dd := entity.DefectDetails{}
	for i, qty := range perPc {
		dd.DefectsByPc = append(dd.DefectsByPc, entity.PcDefectGroup{
			PcNumber: string(rune('1' + i)),
			PcDefects: []entity.PcDefect{
				{DefectID: "d1", DefectName: "Broken stitch", DefectQty: entity.FlexInt(qty)},
			},
		})
	}
	return dd
}

func TestRecomputeDefectRollup(t *testing.T) {
	md := entity.MeasurementDetails{
		Measurement: []entity.MeasurementEntry{{Size: "M", Qty: 20}},
	}
	record := &entity.QCWashingRecord{
		ID:                 "rec-def",
		MeasurementDetails: datatypes.NewJSONType(md),
		DefectDetails:      datatypes.NewJSONType(defectDetails(2, 1)),
	}

	res := Recompute(record)
	if res.RejectedDefectPcs != 2 {
		t.Errorf("Expected 2 rejected pcs, got %d", res.RejectedDefectPcs)
	}
	if res.TotalDefectCount != 3 {
		t.Errorf("Expected 3 defects, got %d", res.TotalDefectCount)
	}
	// 3/20*100 = 15.0, 2/20*100 = 10.0
	if res.DefectRate != 15.0 {
		t.Errorf("Expected defect rate 15.0, got %v", res.DefectRate)
	}
	if res.DefectRatio != 10.0 {
		t.Errorf("Expected defect ratio 10.0, got %v", res.DefectRatio)
	}
}

func TestRecomputeDefectRateRounding(t *testing.T) {
	md := entity.MeasurementDetails{
		Measurement: []entity.MeasurementEntry{{Size: "M", Qty: 3}},
	}
	record := &entity.QCWashingRecord{
		ID:                 "rec-round",
		MeasurementDetails: datatypes.NewJSONType(md),
		DefectDetails:      datatypes.NewJSONType(defectDetails(1)),
	}

	res := Recompute(record)
	// 1/3*100 = 33.333 → 33.3
	if res.DefectRate != 33.3 {
		t.Errorf("Expected defect rate 33.3, got %v", res.DefectRate)
	}
}

func TestRecomputeAQLDefectVerdict(t *testing.T) {
	base := func(defects int) *entity.QCWashingRecord {
		perPc := make([]int, 0)
		if defects > 0 {
			perPc = append(perPc, defects)
		}
		return &entity.QCWashingRecord{
			ID:            "rec-aql",
			CheckedQty:    "50",
			DefectDetails: datatypes.NewJSONType(defectDetails(perPc...)),
			AQL: []entity.AQLResult{
				{SampleSize: 50, AcceptedDefect: intPtr(5), RejectedDefect: intPtr(6), LevelUsed: 2.5},
			},
		}
	}

	// 恰好等于接收数 → Pass
	res := Recompute(base(5))
	if res.DefectResult != entity.ResultPass {
		t.Errorf("Expected defect Pass at accepted boundary, got %s", res.DefectResult)
	}
	// 超过接收数 → Fail
	res = Recompute(base(6))
	if res.DefectResult != entity.ResultFail {
		t.Errorf("Expected defect Fail above accepted, got %s", res.DefectResult)
	}
}

func TestRecomputeDefectVerdictFallback(t *testing.T) {
	// 无AQL方案时用存量结果
	record := &entity.QCWashingRecord{
		ID: "rec-fb",
		DefectDetails: datatypes.NewJSONType(entity.DefectDetails{
			Result:      "Fail",
			DefectsByPc: defectDetails(1).DefectsByPc,
		}),
	}
	res := Recompute(record)
	if res.DefectResult != entity.ResultFail {
		t.Errorf("Expected stored Fail to win without AQL, got %s", res.DefectResult)
	}

	// 既无方案也无存量结果：零疵点Pass，有疵点Fail
	record.DefectDetails = datatypes.NewJSONType(entity.DefectDetails{})
	res = Recompute(record)
	if res.DefectResult != entity.ResultPass {
		t.Errorf("Expected defect Pass with zero defects, got %s", res.DefectResult)
	}
	record.DefectDetails = datatypes.NewJSONType(defectDetails(1))
	res = Recompute(record)
	if res.DefectResult != entity.ResultFail {
		t.Errorf("Expected defect Fail with defects and no plan, got %s", res.DefectResult)
	}
}

func TestRecomputeSOPZeroTolerance(t *testing.T) {
	record := recordWithPoints(100, 0)
	record.ReportType = entity.ReportTypeSOP
	record.DefectDetails = datatypes.NewJSONType(defectDetails(1))
	// SOP下即使AQL允许5个疵点也不放行
	record.AQL = []entity.AQLResult{
		{SampleSize: 50, AcceptedDefect: intPtr(5), RejectedDefect: intPtr(6), LevelUsed: 2.5},
	}

	res := Recompute(record)
	if res.DefectResult != entity.ResultPass {
		t.Fatalf("Expected defect Pass per AQL, got %s", res.DefectResult)
	}
	if res.OverallFinalResult != entity.ResultFail {
		t.Errorf("Expected SOP overall Fail with any defect, got %s", res.OverallFinalResult)
	}

	// 零疵点且通过率达标 → Pass
	record.DefectDetails = datatypes.NewJSONType(entity.DefectDetails{})
	res = Recompute(record)
	if res.OverallFinalResult != entity.ResultPass {
		t.Errorf("Expected SOP overall Pass with zero defects, got %s", res.OverallFinalResult)
	}
}

func TestRecomputeOverallCombination(t *testing.T) {
	record := recordWithPoints(100, 0)
	record.DefectDetails = datatypes.NewJSONType(defectDetails(3))
	record.AQL = []entity.AQLResult{
		{SampleSize: 50, AcceptedDefect: intPtr(2), RejectedDefect: intPtr(3), LevelUsed: 2.5},
	}

	res := Recompute(record)
	if res.MeasurementResult != entity.ResultPass {
		t.Fatalf("Expected measurement Pass, got %s", res.MeasurementResult)
	}
	if res.DefectResult != entity.ResultFail {
		t.Fatalf("Expected defect Fail, got %s", res.DefectResult)
	}
	if res.OverallFinalResult != entity.ResultFail {
		t.Errorf("Expected overall Fail when defect fails, got %s", res.OverallFinalResult)
	}
}

func TestRecomputeIdempotent(t *testing.T) {
	record := recordWithPoints(94, 6)
	record.DefectDetails = datatypes.NewJSONType(defectDetails(2))

	first := Recompute(record)
	applyResult(record, first)
	second := Recompute(record)

	if first != second {
		t.Errorf("Expected identical results on recompute, got %+v then %+v", first, second)
	}
}
