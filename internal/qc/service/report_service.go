package service

import (
	"context"
	"fmt"

	"github.com/dilanlakmal/yqms-qc/internal/qc/entity"
	"github.com/dilanlakmal/yqms-qc/internal/qc/repository"
	"github.com/xuri/excelize/v2"
)

// ReportService 检验报告导出
type ReportService struct {
	washingRepo *repository.WashingRepository
}

func NewReportService(washingRepo *repository.WashingRepository) *ReportService {
	return &ReportService{washingRepo: washingRepo}
}

var defectExportHeaders = []string{
	"件号", "疵点名称", "疵点数",
}

var sizeSummaryExportHeaders = []string{
	"尺码", "K值", "洗前/洗后", "已验件数", "测量点数",
	"合格点数", "不合格点数", "正公差超差", "负公差超差",
}

// ExportRecord 导出单条检验记录为xlsx
func (s *ReportService) ExportRecord(ctx context.Context, recordID string) (*excelize.File, string, error) {
	record, err := s.washingRepo.FindByID(ctx, recordID)
	if err != nil {
		return nil, "", fmt.Errorf("record not found: %w", err)
	}

	f := excelize.NewFile()
	sheet := "检验汇总"
	f.SetSheetName("Sheet1", sheet)

	// 表头样式: 加粗
	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	labelStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})

	// 基础信息区
	info := [][2]interface{}{
		{"订单号", record.OrderNo},
		{"颜色", record.Color},
		{"洗水类型", record.WashType},
		{"洗前/洗后", record.BeforeAfterWash},
		{"工厂", record.FactoryName},
		{"报告类型", record.ReportType},
		{"检验员", record.InspectorEmpID},
		{"客户", record.Buyer},
		{"状态", record.Status},
	}
	for i, kv := range info {
		row := i + 1
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), kv[0])
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), kv[1])
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
	}

	// 汇总结果区
	summary := [][2]interface{}{
		{"已验件数", record.TotalCheckedPcs},
		{"不良件数", record.RejectedDefectPcs},
		{"疵点总数", record.TotalDefectCount},
		{"疵点率%", record.DefectRate},
		{"不良率%", record.DefectRatio},
		{"测量点数", record.TotalCheckedPoint},
		{"合格点数", record.TotalPass},
		{"不合格点数", record.TotalFail},
		{"通过率%", record.PassRate},
		{"总判定", record.OverallFinalResult},
	}
	base := len(info) + 2
	for i, kv := range summary {
		row := base + i
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), kv[0])
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), kv[1])
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
	}
	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", "B", 20)

	writeSizeSummarySheet(f, boldStyle, record)
	writeDefectSheet(f, boldStyle, record)

	filename := fmt.Sprintf("QC_Washing_%s_%s.xlsx", record.OrderNo, record.Color)
	return f, filename, nil
}

// writeSizeSummarySheet 尺码测量汇总页
func writeSizeSummarySheet(f *excelize.File, headerStyle int, record *entity.QCWashingRecord) {
	sheet := "尺码汇总"
	f.NewSheet(sheet)

	for i, h := range sizeSummaryExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	md := record.MeasurementDetails.Data()
	for rowIdx, s := range md.MeasurementSizeSummary {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), s.Size)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), s.KValue)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), s.BeforeAfterWash)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), s.CheckedPcs)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), s.CheckedPoints)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), s.TotalPass)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), s.TotalFail)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), s.PlusToleranceFailCount)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), s.MinusToleranceFailCount)
	}

	colWidths := []float64{10, 8, 12, 10, 10, 10, 12, 12, 12}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}
}

// writeDefectSheet 疵点明细页
func writeDefectSheet(f *excelize.File, headerStyle int, record *entity.QCWashingRecord) {
	sheet := "疵点明细"
	f.NewSheet(sheet)

	for i, h := range defectExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	dd := record.DefectDetails.Data()
	row := 2
	for _, pc := range dd.DefectsByPc {
		for _, d := range pc.PcDefects {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), pc.PcNumber)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), d.DefectName)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), int(d.DefectQty))
			row++
		}
	}

	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 24)
	f.SetColWidth(sheet, "C", "C", 10)
}
