package handler

import (
	"github.com/dilanlakmal/yqms-qc/internal/qc/repository"
	"github.com/dilanlakmal/yqms-qc/internal/qc/service"
	"github.com/gin-gonic/gin"
)

// WashingHandler 水洗检验记录接口
type WashingHandler struct {
	svc       *service.WashingService
	reportSvc *service.ReportService
}

func NewWashingHandler(svc *service.WashingService, reportSvc *service.ReportService) *WashingHandler {
	return &WashingHandler{svc: svc, reportSvc: reportSvc}
}

// SaveOrderData POST /qc-washing/order-data
func (h *WashingHandler) SaveOrderData(c *gin.Context) {
	var input service.SaveOrderDataInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	record, created, err := h.svc.SaveOrderData(c.Request.Context(), &input)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, gin.H{
		"recordId": record.ID,
		"created":  created,
		"record":   record,
	})
}

// SaveMeasurement POST /qc-washing/measurement
func (h *WashingHandler) SaveMeasurement(c *gin.Context) {
	var input service.SaveMeasurementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	record, err := h.svc.SaveMeasurement(c.Request.Context(), &input)
	if err != nil {
		if repository.IsNotFound(err) {
			NotFound(c, "record not found: "+input.RecordID)
			return
		}
		InternalError(c, err.Error())
		return
	}

	md := record.MeasurementDetails.Data()
	Success(c, gin.H{
		"recordId":               record.ID,
		"measurementSizeSummary": md.MeasurementSizeSummary,
	})
}

// SaveDefects PUT /qc-washing/defects/:recordId
func (h *WashingHandler) SaveDefects(c *gin.Context) {
	var input service.SaveDefectsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	input.RecordID = c.Param("recordId")

	record, err := h.svc.SaveDefects(c.Request.Context(), &input)
	if err != nil {
		if repository.IsNotFound(err) {
			NotFound(c, "record not found: "+input.RecordID)
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"recordId": record.ID})
}

type submitRequest struct {
	OrderNo string `json:"orderNo" binding:"required"`
}

// Submit POST /qc-washing/submit
func (h *WashingHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	record, err := h.svc.Submit(c.Request.Context(), req.OrderNo)
	if err != nil {
		if repository.IsNotFound(err) {
			NotFound(c, err.Error())
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"record": record})
}

// GetSubmitted GET /qc-washing/saved-data/:orderNo
func (h *WashingHandler) GetSubmitted(c *gin.Context) {
	orderNo := c.Param("orderNo")
	record, err := h.svc.GetSubmitted(c.Request.Context(), orderNo)
	if err != nil {
		if repository.IsNotFound(err) {
			NotFound(c, "no submitted record found for order "+orderNo)
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"record": record})
}

// CheckSubmitted GET /qc-washing/check-submitted/:orderNo
func (h *WashingHandler) CheckSubmitted(c *gin.Context) {
	orderNo := c.Param("orderNo")
	submitted, err := h.svc.CheckSubmitted(c.Request.Context(), orderNo)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"submitted": submitted})
}

// ListOrderNumbers GET /qc-washing/order-numbers
func (h *WashingHandler) ListOrderNumbers(c *gin.Context) {
	page, pageSize := GetPagination(c)
	orderNos, total, err := h.svc.ListOrderNumbers(c.Request.Context(), page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{
		"orderNumbers": orderNos,
		"total":        total,
		"page":         page,
		"pageSize":     pageSize,
	})
}

// GetRecord GET /qc-washing/records/:recordId
func (h *WashingHandler) GetRecord(c *gin.Context) {
	recordID := c.Param("recordId")
	record, err := h.svc.GetRecord(c.Request.Context(), recordID)
	if err != nil {
		if repository.IsNotFound(err) {
			NotFound(c, "record not found: "+recordID)
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"record": record})
}

// patchableFields 允许patch的字段及其列名映射
// 汇总字段只能由重算写入，不通过patch修改。
var patchableFields = map[string]string{
	"color":             "color",
	"washType":          "wash_type",
	"before_after_wash": "before_after_wash",
	"factoryName":       "factory_name",
	"reportType":        "report_type",
	"orderQty":          "order_qty",
	"colorOrderQty":     "color_order_qty",
	"washQty":           "wash_qty",
	"checkedQty":        "checked_qty",
	"buyer":             "buyer",
	"status":            "status",
	"isAutoSave":        "is_auto_save",
}

// UpdateRecord PUT /qc-washing/records/:recordId
func (h *WashingHandler) UpdateRecord(c *gin.Context) {
	recordID := c.Param("recordId")

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	fields := make(map[string]interface{}, len(body))
	for k, v := range body {
		if col, ok := patchableFields[k]; ok {
			fields[col] = v
		}
	}
	if len(fields) == 0 {
		BadRequest(c, "no updatable fields in request body")
		return
	}

	record, err := h.svc.UpdateRecord(c.Request.Context(), recordID, fields)
	if err != nil {
		if repository.IsNotFound(err) {
			NotFound(c, "record not found: "+recordID)
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"record": record})
}

// ExportRecord GET /qc-washing/records/:recordId/export
func (h *WashingHandler) ExportRecord(c *gin.Context) {
	recordID := c.Param("recordId")

	f, filename, err := h.reportSvc.ExportRecord(c.Request.Context(), recordID)
	if err != nil {
		if repository.IsNotFound(err) {
			NotFound(c, "record not found: "+recordID)
			return
		}
		InternalError(c, err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}
