package service

import (
	"context"
	"testing"

	"github.com/dilanlakmal/yqms-qc/internal/qc/entity"
	"github.com/dilanlakmal/yqms-qc/internal/qc/repository"
	"github.com/dilanlakmal/yqms-qc/internal/qc/testutil"
)

func setupWashingTest(t *testing.T) (*WashingService, *SummaryService, *repository.Repositories) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return NewWashingService(repos.Washing, repos.FirstOutput), NewSummaryService(repos.Washing), repos
}

func strPtr(v string) *string { return &v }

func TestSaveOrderDataUpsert(t *testing.T) {
	svc, _, _ := setupWashingTest(t)
	ctx := context.Background()

	input := &SaveOrderDataInput{
		OrderNo:         "MO-2001",
		Color:           "Navy",
		WashType:        "Normal Wash",
		BeforeAfterWash: "After Wash",
		FactoryName:     "YM Factory",
		ReportType:      "Inline",
		InspectorEmpID:  "YM6702",
		WashQty:         strPtr("120"),
	}

	record, created, err := svc.SaveOrderData(ctx, input)
	if err != nil {
		t.Fatalf("SaveOrderData failed: %v", err)
	}
	if !created {
		t.Fatal("Expected first save to create a record")
	}
	if record.Status != entity.WashingStatusProcessing {
		t.Errorf("Expected status processing, got %s", record.Status)
	}
	if !record.IsAutoSave {
		t.Error("Expected new record to be auto-save")
	}

	// 同一身份再次保存：更新而不是新建
	input.CheckedQty = strPtr("50")
	again, created, err := svc.SaveOrderData(ctx, input)
	if err != nil {
		t.Fatalf("Second SaveOrderData failed: %v", err)
	}
	if created {
		t.Error("Expected second save to update, not create")
	}
	if again.ID != record.ID {
		t.Errorf("Expected same record ID %s, got %s", record.ID, again.ID)
	}
	if again.WashQty != "120" || again.CheckedQty != "50" {
		t.Errorf("Expected merged quantities 120/50, got %s/%s", again.WashQty, again.CheckedQty)
	}

	// 不同颜色是另一条记录
	input.Color = "Black"
	other, created, err := svc.SaveOrderData(ctx, input)
	if err != nil {
		t.Fatalf("SaveOrderData for new color failed: %v", err)
	}
	if !created || other.ID == record.ID {
		t.Error("Expected a new record for a different color")
	}
}

func measurementInput(recordID, size, stage string, points []entity.MeasurementPoint) *SaveMeasurementInput {
	return &SaveMeasurementInput{
		RecordID: recordID,
		Measurement: entity.MeasurementEntry{
			Size:            size,
			KValue:          "K1",
			BeforeAfterWash: stage,
			Qty:             len(points) / 2,
			Pcs: []entity.MeasurementPc{
				{PcNumber: 1, MeasurementPoints: points},
			},
		},
	}
}

func TestSaveMeasurementUpsertBySizeKey(t *testing.T) {
	svc, _, repos := setupWashingTest(t)
	ctx := context.Background()

	record, _, err := svc.SaveOrderData(ctx, &SaveOrderDataInput{OrderNo: "MO-2002", Color: "Blue"})
	if err != nil {
		t.Fatalf("SaveOrderData failed: %v", err)
	}

	pass := entity.MeasurementPoint{PointName: "Chest", Result: "pass"}
	fail := entity.MeasurementPoint{PointName: "Waist", Result: "fail"}

	if _, err := svc.SaveMeasurement(ctx, measurementInput(record.ID, "M", "After Wash", []entity.MeasurementPoint{pass, pass})); err != nil {
		t.Fatalf("SaveMeasurement failed: %v", err)
	}
	// 同key重存：替换而不是追加
	if _, err := svc.SaveMeasurement(ctx, measurementInput(record.ID, "M", "After Wash", []entity.MeasurementPoint{pass, fail})); err != nil {
		t.Fatalf("Second SaveMeasurement failed: %v", err)
	}
	// 新尺码：追加
	updated, err := svc.SaveMeasurement(ctx, measurementInput(record.ID, "L", "After Wash", []entity.MeasurementPoint{pass, pass}))
	if err != nil {
		t.Fatalf("Third SaveMeasurement failed: %v", err)
	}

	md := updated.MeasurementDetails.Data()
	if len(md.Measurement) != 2 {
		t.Fatalf("Expected 2 measurement groups, got %d", len(md.Measurement))
	}
	if len(md.MeasurementSizeSummary) != 2 {
		t.Fatalf("Expected 2 size summaries, got %d", len(md.MeasurementSizeSummary))
	}
	for _, s := range md.MeasurementSizeSummary {
		if s.BeforeAfterWash != "afterWash" {
			t.Errorf("Expected normalized stage afterWash, got %s", s.BeforeAfterWash)
		}
		switch s.Size {
		case "M":
			if s.TotalPass != 1 || s.TotalFail != 1 {
				t.Errorf("Expected replaced M summary 1/1, got %d/%d", s.TotalPass, s.TotalFail)
			}
		case "L":
			if s.TotalPass != 2 || s.TotalFail != 0 {
				t.Errorf("Expected L summary 2/0, got %d/%d", s.TotalPass, s.TotalFail)
			}
		default:
			t.Errorf("Unexpected size %s in summary", s.Size)
		}
	}

	// 落库验证
	stored, err := repos.Washing.FindByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if len(stored.MeasurementDetails.Data().Measurement) != 2 {
		t.Error("Expected persisted measurement groups")
	}
}

func TestCalculateSizeSummaryToleranceDirections(t *testing.T) {
	entry := entity.MeasurementEntry{
		Size: "M", KValue: "K1", BeforeAfterWash: "Before Wash",
		Pcs: []entity.MeasurementPc{{
			PcNumber: 1,
			MeasurementPoints: []entity.MeasurementPoint{
				// 实测超上限
				{Result: "fail", MeasuredValueDecimal: 52, Specs: 50, TolerancePlus: 1, ToleranceMinus: -1},
				// 实测破下限
				{Result: "fail", MeasuredValueDecimal: 48.5, Specs: 50, TolerancePlus: 1, ToleranceMinus: -1},
				{Result: "pass", MeasuredValueDecimal: 50.5, Specs: 50, TolerancePlus: 1, ToleranceMinus: -1},
			},
		}},
	}

	s := CalculateSizeSummary(entry)
	if s.BeforeAfterWash != "beforeWash" {
		t.Errorf("Expected normalized beforeWash, got %s", s.BeforeAfterWash)
	}
	if s.CheckedPoints != 3 || s.TotalPass != 1 || s.TotalFail != 2 {
		t.Errorf("Expected 3/1/2 points, got %d/%d/%d", s.CheckedPoints, s.TotalPass, s.TotalFail)
	}
	if s.PlusToleranceFailCount != 1 || s.MinusToleranceFailCount != 1 {
		t.Errorf("Expected 1 plus / 1 minus tolerance fail, got %d/%d",
			s.PlusToleranceFailCount, s.MinusToleranceFailCount)
	}
}

func TestSubmitPromotesLatestRecord(t *testing.T) {
	svc, _, repos := setupWashingTest(t)
	ctx := context.Background()

	record, _, err := svc.SaveOrderData(ctx, &SaveOrderDataInput{OrderNo: "MO-2003", Color: "Green", CheckedQty: strPtr("20")})
	if err != nil {
		t.Fatalf("SaveOrderData failed: %v", err)
	}

	submitted, err := svc.Submit(ctx, "MO-2003")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if submitted.ID != record.ID {
		t.Errorf("Expected latest record %s promoted, got %s", record.ID, submitted.ID)
	}
	if submitted.IsAutoSave || submitted.Status != entity.WashingStatusSubmitted {
		t.Errorf("Expected submitted non-autosave record, got %s/%v", submitted.Status, submitted.IsAutoSave)
	}
	if submitted.SubmittedAt == nil {
		t.Error("Expected submittedAt timestamp")
	}
	// 提交时定稿汇总
	if submitted.OverallFinalResult == "" {
		t.Error("Expected overall result computed on submit")
	}

	got, err := svc.GetSubmitted(ctx, "MO-2003")
	if err != nil {
		t.Fatalf("GetSubmitted failed: %v", err)
	}
	if got.ID != record.ID {
		t.Errorf("Expected submitted record %s, got %s", record.ID, got.ID)
	}

	ok, err := svc.CheckSubmitted(ctx, "MO-2003")
	if err != nil || !ok {
		t.Errorf("Expected CheckSubmitted true, got %v/%v", ok, err)
	}
	ok, err = svc.CheckSubmitted(ctx, "MO-9999")
	if err != nil || ok {
		t.Errorf("Expected CheckSubmitted false for unknown order, got %v/%v", ok, err)
	}

	// 没有在途记录的订单不能提交
	if _, err := svc.Submit(ctx, "MO-9999"); err == nil {
		t.Error("Expected submit to fail for order without records")
	}

	_ = repos
}

func TestSaveSummaryPersistsRollup(t *testing.T) {
	svc, summarySvc, repos := setupWashingTest(t)
	ctx := context.Background()

	record, _, err := svc.SaveOrderData(ctx, &SaveOrderDataInput{OrderNo: "MO-2004", Color: "Red", CheckedQty: strPtr("10")})
	if err != nil {
		t.Fatalf("SaveOrderData failed: %v", err)
	}

	if _, err := svc.SaveDefects(ctx, &SaveDefectsInput{
		RecordID: record.ID,
		DefectDetails: entity.DefectDetails{
			DefectsByPc: []entity.PcDefectGroup{
				{PcNumber: "1", PcDefects: []entity.PcDefect{{DefectID: "d1", DefectName: "Stain", DefectQty: 2}}},
			},
		},
	}); err != nil {
		t.Fatalf("SaveDefects failed: %v", err)
	}

	previous, res, _, err := summarySvc.SaveSummary(ctx, record.ID)
	if err != nil {
		t.Fatalf("SaveSummary failed: %v", err)
	}
	if previous != "" {
		t.Errorf("Expected empty previous result, got %s", previous)
	}
	if res.TotalDefectCount != 2 || res.RejectedDefectPcs != 1 {
		t.Errorf("Expected 2 defects on 1 pc, got %d/%d", res.TotalDefectCount, res.RejectedDefectPcs)
	}
	// 2/10*100 = 20.0
	if res.DefectRate != 20.0 {
		t.Errorf("Expected defect rate 20.0, got %v", res.DefectRate)
	}

	stored, err := repos.Washing.FindByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if stored.TotalDefectCount != 2 || stored.OverallFinalResult != res.OverallFinalResult {
		t.Errorf("Expected persisted rollup, got count=%d result=%s", stored.TotalDefectCount, stored.OverallFinalResult)
	}

	// 只读预览和落库口径一致
	preview, _, err := summarySvc.PreviewSummary(ctx, record.ID)
	if err != nil {
		t.Fatalf("PreviewSummary failed: %v", err)
	}
	if preview != res {
		t.Errorf("Expected preview to match saved summary, got %+v vs %+v", preview, res)
	}
}

func TestUpdateRecordPatch(t *testing.T) {
	svc, _, _ := setupWashingTest(t)
	ctx := context.Background()

	record, _, err := svc.SaveOrderData(ctx, &SaveOrderDataInput{OrderNo: "MO-2005", Color: "White"})
	if err != nil {
		t.Fatalf("SaveOrderData failed: %v", err)
	}

	updated, err := svc.UpdateRecord(ctx, record.ID, map[string]interface{}{"checked_qty": "33"})
	if err != nil {
		t.Fatalf("UpdateRecord failed: %v", err)
	}
	if updated.CheckedQty != "33" {
		t.Errorf("Expected patched checkedQty 33, got %s", updated.CheckedQty)
	}

	if _, err := svc.UpdateRecord(ctx, "missing-id", map[string]interface{}{"checked_qty": "1"}); !repository.IsNotFound(err) {
		t.Errorf("Expected ErrNotFound for missing record, got %v", err)
	}
}

func TestFirstOutputLatest(t *testing.T) {
	svc, _, _ := setupWashingTest(t)
	ctx := context.Background()

	if _, err := svc.SaveFirstOutput(ctx, "MO-2006", "Blue", 30, "test-user-001"); err != nil {
		t.Fatalf("SaveFirstOutput failed: %v", err)
	}
	if _, err := svc.SaveFirstOutput(ctx, "MO-2006", "Blue", 45, "test-user-001"); err != nil {
		t.Fatalf("Second SaveFirstOutput failed: %v", err)
	}
	// 别的订单更晚登记的首件不影响本订单查询
	if _, err := svc.SaveFirstOutput(ctx, "MO-2007", "Red", 99, "test-user-001"); err != nil {
		t.Fatalf("SaveFirstOutput for other order failed: %v", err)
	}

	latest, err := svc.LatestFirstOutput(ctx, "MO-2006")
	if err != nil {
		t.Fatalf("LatestFirstOutput failed: %v", err)
	}
	if int(latest.Quantity) != 45 {
		t.Errorf("Expected latest quantity 45, got %d", int(latest.Quantity))
	}

	if _, err := svc.LatestFirstOutput(ctx, "MO-none"); !repository.IsNotFound(err) {
		t.Errorf("Expected ErrNotFound for order without first output, got %v", err)
	}
}

