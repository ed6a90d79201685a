package handler

import (
	"errors"

	"github.com/dilanlakmal/yqms-qc/internal/qc/repository"
	"github.com/dilanlakmal/yqms-qc/internal/qc/service"
	"github.com/gin-gonic/gin"
)

// AQLHandler 抽样方案接口
type AQLHandler struct {
	aqlSvc     *service.AQLService
	washingSvc *service.WashingService
}

func NewAQLHandler(aqlSvc *service.AQLService, washingSvc *service.WashingService) *AQLHandler {
	return &AQLHandler{aqlSvc: aqlSvc, washingSvc: washingSvc}
}

type findByLotSizeRequest struct {
	OrderNo string `json:"orderNo"`
	LotSize int    `json:"lotSize"`
}

// FindByLotSize POST /qc-washing/aql/find
func (h *AQLHandler) FindByLotSize(c *gin.Context) {
	var req findByLotSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	plan, err := h.aqlSvc.ResolveByLotSize(c.Request.Context(), req.OrderNo, req.LotSize)
	if err != nil {
		respondAQLError(c, err)
		return
	}
	Success(c, gin.H{"aqlData": plan})
}

type findBySampleSizeRequest struct {
	OrderNo    string `json:"orderNo"`
	SampleSize int    `json:"sampleSize"`
}

// FindBySampleSize POST /qc-washing/aql/find-by-sample-size
// 样本量缺失时退到订单最近一次首件产量
func (h *AQLHandler) FindBySampleSize(c *gin.Context) {
	var req findBySampleSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if req.SampleSize <= 0 && req.OrderNo != "" {
		if fo, err := h.washingSvc.LatestFirstOutput(c.Request.Context(), req.OrderNo); err == nil {
			req.SampleSize = int(fo.Quantity)
		}
	}

	plan, err := h.aqlSvc.ResolveBySampleSize(c.Request.Context(), req.OrderNo, req.SampleSize)
	if err != nil {
		respondAQLError(c, err)
		return
	}
	Success(c, gin.H{"aqlData": plan})
}

func respondAQLError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidSize):
		BadRequest(c, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// LatestFirstOutput GET /qc-washing/first-output/:orderNo
func (h *AQLHandler) LatestFirstOutput(c *gin.Context) {
	orderNo := c.Param("orderNo")
	rec, err := h.washingSvc.LatestFirstOutput(c.Request.Context(), orderNo)
	if err != nil {
		if repository.IsNotFound(err) {
			NotFound(c, "no first output record found for order "+orderNo)
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"firstOutput": rec})
}

type saveFirstOutputRequest struct {
	OrderNo  string `json:"orderNo" binding:"required"`
	Color    string `json:"color"`
	Quantity int    `json:"quantity" binding:"required"`
}

// SaveFirstOutput POST /qc-washing/first-output
func (h *AQLHandler) SaveFirstOutput(c *gin.Context) {
	var req saveFirstOutputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	rec, err := h.washingSvc.SaveFirstOutput(c.Request.Context(), req.OrderNo, req.Color, req.Quantity, GetUserID(c))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"firstOutput": rec})
}
