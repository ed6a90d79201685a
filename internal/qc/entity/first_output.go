package entity

import "time"

// FirstOutputRecord 首件产出记录
// 按样查AQL时若请求未带样本量，取最新一条的quantity做默认样本量。
type FirstOutputRecord struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	OrderNo   string    `json:"orderNo" gorm:"size:50;index"`
	Color     string    `json:"color" gorm:"size:100"`
	Quantity  FlexInt   `json:"quantity" gorm:"type:integer"`
	CreatedBy string    `json:"createdBy" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FirstOutputRecord) TableName() string {
	return "qc_washing_first_outputs"
}
