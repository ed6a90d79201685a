package handler

import (
	"strconv"

	"github.com/dilanlakmal/yqms-qc/internal/middleware"
	"github.com/dilanlakmal/yqms-qc/internal/qc/service"
	"github.com/gin-gonic/gin"
)

// Handlers 处理器集合
type Handlers struct {
	AQL     *AQLHandler
	Summary *SummaryHandler
	Washing *WashingHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		AQL:     NewAQLHandler(svc.AQL, svc.Washing),
		Summary: NewSummaryHandler(svc.Summary),
		Washing: NewWashingHandler(svc.Washing, svc.Report),
	}
}

// RegisterRoutes 注册QC水洗路由
func (h *Handlers) RegisterRoutes(rg *gin.RouterGroup) {
	qc := rg.Group("/qc-washing")
	{
		qc.POST("/aql/find", h.AQL.FindByLotSize)
		qc.POST("/aql/find-by-sample-size", h.AQL.FindBySampleSize)
		qc.GET("/first-output/:orderNo", h.AQL.LatestFirstOutput)
		qc.POST("/first-output", h.AQL.SaveFirstOutput)

		qc.POST("/order-data", h.Washing.SaveOrderData)
		qc.POST("/measurement", h.Washing.SaveMeasurement)
		qc.PUT("/defects/:recordId", h.Washing.SaveDefects)
		qc.POST("/submit", h.Washing.Submit)
		qc.GET("/saved-data/:orderNo", h.Washing.GetSubmitted)
		qc.GET("/check-submitted/:orderNo", h.Washing.CheckSubmitted)
		qc.GET("/order-numbers", h.Washing.ListOrderNumbers)
		qc.GET("/records/:recordId", h.Washing.GetRecord)
		// 表单补丁是主管动作，普通检验员不可改
		qc.PUT("/records/:recordId", middleware.RequireRole("qc_supervisor"), h.Washing.UpdateRecord)
		qc.GET("/records/:recordId/export", h.Washing.ExportRecord)

		qc.POST("/save-summary/:recordId", h.Summary.SaveSummary)
		qc.GET("/overall-summary-by-id/:recordId", h.Summary.GetOverallSummary)
		qc.POST("/recalculate/:recordId", h.Summary.Recalculate)
	}
}

// Success 成功响应，data字段平铺进响应体
func Success(c *gin.Context, data gin.H) {
	resp := gin.H{"success": true}
	for k, v := range data {
		resp[k] = v
	}
	c.JSON(200, resp)
}

// Fail 失败响应
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func BadRequest(c *gin.Context, message string) {
	Fail(c, 400, message)
}

func NotFound(c *gin.Context, message string) {
	Fail(c, 404, message)
}

func InternalError(c *gin.Context, message string) {
	Fail(c, 500, message)
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetPagination 从请求获取分页参数
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}
