package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dilanlakmal/yqms-qc/internal/qc/entity"
	"github.com/dilanlakmal/yqms-qc/internal/qc/repository"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrInvalidSize 批量/样本量缺失或非正数，查表前直接拒绝
	ErrInvalidSize = errors.New("size must be a positive number")
)

// AQLChartFinder 图表查询的窄接口，便于测试用内存假表替换
type AQLChartFinder interface {
	FindByLotSize(ctx context.Context, chartType, chartLevel string, lotSize int) (*entity.AQLChartRow, error)
	FindBySampleSize(ctx context.Context, chartType, chartLevel string, sampleSize int) (*entity.AQLChartRow, error)
}

// SamplingPlan 解析出的抽样方案
type SamplingPlan struct {
	SampleSize     int     `json:"sampleSize"`
	AcceptedDefect int     `json:"acceptedDefect"`
	RejectedDefect int     `json:"rejectedDefect"`
	LevelUsed      float64 `json:"levelUsed"`
}

// AQLService 抽样方案解析服务
// 买家/水平映射可注入，默认用现行MO号规则。图表是静态参考数据，查表结果可走Redis缓存；
// 检验记录的汇总重算不走任何缓存。
type AQLService struct {
	charts   AQLChartFinder
	rdb      *redis.Client
	buyerFor BuyerResolver
	levelFor LevelResolver
	cacheTTL time.Duration
}

func NewAQLService(charts AQLChartFinder, rdb *redis.Client) *AQLService {
	return &AQLService{
		charts:   charts,
		rdb:      rdb,
		buyerFor: BuyerFromOrderNo,
		levelFor: AQLLevelForBuyer,
		cacheTTL: 12 * time.Hour,
	}
}

// SetResolvers 注入买家/水平映射（测试用）
func (s *AQLService) SetResolvers(buyerFor BuyerResolver, levelFor LevelResolver) {
	if buyerFor != nil {
		s.buyerFor = buyerFor
	}
	if levelFor != nil {
		s.levelFor = levelFor
	}
}

// ResolveByLotSize 按批量解析抽样方案
func (s *AQLService) ResolveByLotSize(ctx context.Context, orderNo string, lotSize int) (*SamplingPlan, error) {
	if lotSize <= 0 {
		return nil, ErrInvalidSize
	}

	level := s.levelFor(s.buyerFor(orderNo))

	cacheKey := fmt.Sprintf("aql:plan:lot:%g:%d", level, lotSize)
	if plan := s.cachedPlan(ctx, cacheKey); plan != nil {
		return plan, nil
	}

	row, err := s.charts.FindByLotSize(ctx, entity.AQLChartTypeGeneral, entity.AQLChartLevelII, lotSize)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("no AQL chart found for the given lot size: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("AQL chart lookup by lot size: %w", err)
	}

	plan, err := planFromRow(row, level)
	if err != nil {
		return nil, err
	}
	s.cachePlan(ctx, cacheKey, plan)
	return plan, nil
}

// ResolveBySampleSize 按样本量解析抽样方案（向上取整到表内最近档位）
func (s *AQLService) ResolveBySampleSize(ctx context.Context, orderNo string, sampleSize int) (*SamplingPlan, error) {
	if sampleSize <= 0 {
		return nil, ErrInvalidSize
	}

	level := s.levelFor(s.buyerFor(orderNo))

	cacheKey := fmt.Sprintf("aql:plan:sample:%g:%d", level, sampleSize)
	if plan := s.cachedPlan(ctx, cacheKey); plan != nil {
		return plan, nil
	}

	row, err := s.charts.FindBySampleSize(ctx, entity.AQLChartTypeGeneral, entity.AQLChartLevelII, sampleSize)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("no AQL chart found for a sample size of %d or greater: %w", sampleSize, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("AQL chart lookup by sample size: %w", err)
	}

	plan, err := planFromRow(row, level)
	if err != nil {
		return nil, err
	}
	s.cachePlan(ctx, cacheKey, plan)
	return plan, nil
}

// planFromRow 在匹配行内取指定水平的条目
// 行匹配成功但水平缺失是另一类NotFound，提示修买家映射而不是补图表行。
func planFromRow(row *entity.AQLChartRow, level float64) (*SamplingPlan, error) {
	aqlEntry := row.FindEntry(level)
	if aqlEntry == nil {
		return nil, fmt.Errorf("AQL level %g not found for the matching chart: %w", level, repository.ErrNotFound)
	}
	return &SamplingPlan{
		SampleSize:     row.SampleSize,
		AcceptedDefect: aqlEntry.AcceptDefect,
		RejectedDefect: aqlEntry.RejectDefect,
		LevelUsed:      level,
	}, nil
}

func (s *AQLService) cachedPlan(ctx context.Context, key string) *SamplingPlan {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var plan SamplingPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil
	}
	return &plan
}

func (s *AQLService) cachePlan(ctx context.Context, key string, plan *SamplingPlan) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(plan)
	if err != nil {
		return
	}
	s.rdb.Set(ctx, key, raw, s.cacheTTL)
}
