package handler

import (
	"github.com/dilanlakmal/yqms-qc/internal/qc/repository"
	"github.com/dilanlakmal/yqms-qc/internal/qc/service"
	"github.com/gin-gonic/gin"
)

// SummaryHandler 检验汇总接口
type SummaryHandler struct {
	svc *service.SummaryService
}

func NewSummaryHandler(svc *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{svc: svc}
}

// SaveSummary POST /qc-washing/save-summary/:recordId
// 重算汇总并落库，返回新旧结论便于前端提示翻转
func (h *SummaryHandler) SaveSummary(c *gin.Context) {
	recordID := c.Param("recordId")

	previous, res, record, err := h.svc.SaveSummary(c.Request.Context(), recordID)
	if err != nil {
		if repository.IsNotFound(err) {
			NotFound(c, "record not found: "+recordID)
			return
		}
		InternalError(c, err.Error())
		return
	}

	Success(c, gin.H{
		"previousResult": previous,
		"summary":        res,
		"record":         record,
	})
}

// GetOverallSummary GET /qc-washing/overall-summary-by-id/:recordId
// 只读重算，和落库口径完全一致
func (h *SummaryHandler) GetOverallSummary(c *gin.Context) {
	recordID := c.Param("recordId")

	res, record, err := h.svc.PreviewSummary(c.Request.Context(), recordID)
	if err != nil {
		if repository.IsNotFound(err) {
			NotFound(c, "record not found: "+recordID)
			return
		}
		InternalError(c, err.Error())
		return
	}

	Success(c, gin.H{
		"summary":      res,
		"storedResult": record.OverallFinalResult,
	})
}

// Recalculate POST /qc-washing/recalculate/:recordId
// 与SaveSummary同一套口径，供存量记录手工刷新
func (h *SummaryHandler) Recalculate(c *gin.Context) {
	recordID := c.Param("recordId")

	_, res, record, err := h.svc.SaveSummary(c.Request.Context(), recordID)
	if err != nil {
		if repository.IsNotFound(err) {
			NotFound(c, "record not found: "+recordID)
			return
		}
		InternalError(c, err.Error())
		return
	}

	Success(c, gin.H{
		"overallFinalResult": res.OverallFinalResult,
		"record":             record,
	})
}
