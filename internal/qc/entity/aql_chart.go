package entity

import (
	"time"

	"gorm.io/datatypes"
)

// AQLChartRow AQL抽样方案表行（参考数据，运行期只读）
// 同一(Type, Level)下按SampleSize升序；LotSizeMax为nil表示批量上不封顶。
type AQLChartRow struct {
	ID         string                            `json:"id" gorm:"primaryKey;size:32"`
	Type       string                            `json:"type" gorm:"size:20;index:idx_aql_chart_type_level"`
	Level      string                            `json:"level" gorm:"size:10;index:idx_aql_chart_type_level"`
	SampleSize int                               `json:"sampleSize" gorm:"not null"`
	LotSizeMin int                               `json:"lotSizeMin" gorm:"not null"`
	LotSizeMax *int                              `json:"lotSizeMax"`
	AQL        datatypes.JSONSlice[AQLChartEntry] `json:"aql" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AQLChartRow) TableName() string {
	return "qc_aql_chart"
}

// AQLChartEntry 行内某个AQL水平的接收/拒收数
type AQLChartEntry struct {
	Level        float64 `json:"level"`
	AcceptDefect int     `json:"acceptDefect"`
	RejectDefect int     `json:"rejectDefect"`
}

// 通用检验水平，现用图表只有General/II
const (
	AQLChartTypeGeneral = "General"
	AQLChartLevelII     = "II"
)

// FindEntry 在行内查指定AQL水平的条目
func (r *AQLChartRow) FindEntry(level float64) *AQLChartEntry {
	for i := range r.AQL {
		if r.AQL[i].Level == level {
			return &r.AQL[i]
		}
	}
	return nil
}
