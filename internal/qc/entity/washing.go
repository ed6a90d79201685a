package entity

import (
	"time"

	"gorm.io/datatypes"
)

// QCWashingRecord 水洗检验记录
// 嵌套的测量/疵点子文档存jsonb，汇总字段由SummaryService重算覆盖，不允许手工修改。
type QCWashingRecord struct {
	ID string `json:"id" gorm:"primaryKey;size:32"`

	// 记录唯一性字段：同一(订单,颜色,洗水类型,报告类型,检验员)一条记录
	OrderNo         string     `json:"orderNo" gorm:"size:50;index;not null"`
	Date            *time.Time `json:"date"`
	Color           string     `json:"color" gorm:"size:100"`
	WashType        string     `json:"washType" gorm:"size:50"`
	BeforeAfterWash string     `json:"before_after_wash" gorm:"size:20"`
	FactoryName     string     `json:"factoryName" gorm:"size:100"`
	ReportType      string     `json:"reportType" gorm:"size:50"`
	InspectorEmpID  string     `json:"inspectorEmpId" gorm:"size:32;index"`

	// 表单自由文本数量
	OrderQty      int    `json:"orderQty"`
	ColorOrderQty int    `json:"colorOrderQty"`
	WashQty       string `json:"washQty" gorm:"size:20"`
	CheckedQty    string `json:"checkedQty" gorm:"size:20"`
	Buyer         string `json:"buyer" gorm:"size:100"`

	// 生命周期
	Status      string     `json:"status" gorm:"size:20;default:processing"` // processing/submitted/auto-saved
	IsAutoSave  bool       `json:"isAutoSave" gorm:"default:true"`
	UserID      string     `json:"userId" gorm:"size:32"`
	SavedAt     *time.Time `json:"savedAt"`
	SubmittedAt *time.Time `json:"submittedAt"`

	// 子文档
	MeasurementDetails datatypes.JSONType[MeasurementDetails] `json:"measurementDetails" gorm:"type:jsonb"`
	DefectDetails      datatypes.JSONType[DefectDetails]      `json:"defectDetails" gorm:"type:jsonb"`
	AQL                datatypes.JSONSlice[AQLResult]         `json:"aql" gorm:"type:jsonb"`

	// 汇总字段（重算覆盖）
	TotalCheckedPcs    int     `json:"totalCheckedPcs"`
	RejectedDefectPcs  int     `json:"rejectedDefectPcs"`
	TotalDefectCount   int     `json:"totalDefectCount"`
	DefectRate         float64 `json:"defectRate"`
	DefectRatio        float64 `json:"defectRatio"`
	TotalCheckedPoint  int     `json:"totalCheckedPoint"`
	TotalPass          int     `json:"totalPass"`
	TotalFail          int     `json:"totalFail"`
	PassRate           int     `json:"passRate"`
	OverallFinalResult string  `json:"overallFinalResult" gorm:"size:10"` // Pass/Fail

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (QCWashingRecord) TableName() string {
	return "qc_washing_records"
}

// 记录状态
const (
	WashingStatusProcessing = "processing"
	WashingStatusSubmitted  = "submitted"
	WashingStatusAutoSaved  = "auto-saved"
)

// 检验结论
const (
	ResultPass = "Pass"
	ResultFail = "Fail"
)

// ReportTypeSOP SOP报告：疵点零容忍，不走AQL接收数
const ReportTypeSOP = "SOP"

// MeasurementDetails 测量子文档
type MeasurementDetails struct {
	Measurement            []MeasurementEntry       `json:"measurement"`
	MeasurementSizeSummary []MeasurementSizeSummary `json:"measurementSizeSummary"`
}

// MeasurementEntry 一个(尺码,K值,洗前后)的测量组
type MeasurementEntry struct {
	Size            string          `json:"size"`
	KValue          string          `json:"kvalue"`
	BeforeAfterWash string          `json:"before_after_wash"`
	Qty             int             `json:"qty"`
	Pcs             []MeasurementPc `json:"pcs"`
}

// MeasurementPc 单件衣服的测量点集合
type MeasurementPc struct {
	PcNumber          FlexInt            `json:"pcNumber"`
	MeasurementPoints []MeasurementPoint `json:"measurementPoints"`
}

// MeasurementPoint 单个测量点
// result只认"pass"/"fail"，其他值在统计时既不进分子也不进分母。
type MeasurementPoint struct {
	PointName            string    `json:"pointName"`
	Result               string    `json:"result"`
	MeasuredValueDecimal FlexFloat `json:"measured_value_decimal"`
	MeasuredValueFration string    `json:"measured_value_fraction,omitempty"`
	Specs                FlexFloat `json:"specs"`
	ToleranceMinus       FlexFloat `json:"toleranceMinus"`
	TolerancePlus        FlexFloat `json:"tolerancePlus"`
}

// MeasurementSizeSummary 按(尺码,K值,洗前后)缓存的测量汇总
// 每次测量保存时重算：同key替换，新key追加。
type MeasurementSizeSummary struct {
	Size                    string `json:"size"`
	KValue                  string `json:"kvalue"`
	BeforeAfterWash         string `json:"before_after_wash"`
	CheckedPcs              int    `json:"checkedPcs"`
	CheckedPoints           int    `json:"checkedPoints"`
	TotalPass               int    `json:"totalPass"`
	TotalFail               int    `json:"totalFail"`
	PlusToleranceFailCount  int    `json:"plusToleranceFailCount"`
	MinusToleranceFailCount int    `json:"minusToleranceFailCount"`
}

// DefectDetails 疵点子文档
type DefectDetails struct {
	CheckedQty  FlexInt         `json:"checkedQty"`
	WashQty     FlexInt         `json:"washQty"`
	Result      string          `json:"result"`
	DefectsByPc []PcDefectGroup `json:"defectsByPc"`
	Comment     string          `json:"comment"`
}

// PcDefectGroup 一件不良品上的疵点
type PcDefectGroup struct {
	PcNumber  string     `json:"pcNumber"`
	PcDefects []PcDefect `json:"pcDefects"`
}

// PcDefect 单个疵点项
type PcDefect struct {
	DefectID   string  `json:"defectId"`
	DefectName string  `json:"defectName"`
	DefectQty  FlexInt `json:"defectQty"`
}

// AQLResult 记录上挂的抽样方案（来自此前一次AQL查询）
// AcceptedDefect为nil表示未挂方案，疵点判定退回存量结果。
type AQLResult struct {
	SampleSize     int     `json:"sampleSize"`
	AcceptedDefect *int    `json:"acceptedDefect"`
	RejectedDefect *int    `json:"rejectedDefect"`
	LevelUsed      float64 `json:"levelUsed"`
}
