package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// IsNotFound 判断是否未命中记录
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Repositories QC仓库集合
type Repositories struct {
	Washing     *WashingRepository
	AQLChart    *AQLChartRepository
	FirstOutput *FirstOutputRepository
}

// NewRepositories 创建QC仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Washing:     NewWashingRepository(db),
		AQLChart:    NewAQLChartRepository(db),
		FirstOutput: NewFirstOutputRepository(db),
	}
}
