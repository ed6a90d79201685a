package service

import (
	"github.com/dilanlakmal/yqms-qc/internal/qc/repository"
	"github.com/redis/go-redis/v9"
)

// Services QC服务集合
type Services struct {
	AQL     *AQLService
	Summary *SummaryService
	Washing *WashingService
	Report  *ReportService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, rdb *redis.Client) *Services {
	return &Services{
		AQL:     NewAQLService(repos.AQLChart, rdb),
		Summary: NewSummaryService(repos.Washing),
		Washing: NewWashingService(repos.Washing, repos.FirstOutput),
		Report:  NewReportService(repos.Washing),
	}
}
