package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"billmaker/internal/common"
	"billmaker/internal/models"
	"billmaker/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// BillHandlers handles HTTP requests for bills and their invoices
type BillHandlers struct {
	billService    services.BillService
	invoiceService services.InvoiceService
	exporter       services.RegisterExporter
	logger         *zap.Logger
}

// NewBillHandlers creates a new bill handlers instance
func NewBillHandlers(billService services.BillService, invoiceService services.InvoiceService, exporter services.RegisterExporter, logger *zap.Logger) *BillHandlers {
	return &BillHandlers{
		billService:    billService,
		invoiceService: invoiceService,
		exporter:       exporter,
		logger:         logger,
	}
}

type taxPreviewRequest struct {
	TotalAmount float64 `json:"total_amount" validate:"required,gt=0"`
	Quantity    int     `json:"quantity" validate:"required,min=1"`
}

// CreateBill godoc
// @Summary Create a bill
// @Tags bills
// @Accept json
// @Produce json
// @Param bill body services.CreateBillInput true "Bill"
// @Success 201 {object} common.SuccessResponse
// @Failure 400 {object} common.ErrorResponse
// @Router /bills [post]
func (h *BillHandlers) CreateBill(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.CreateBillInput
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.logger, "Bill", err)
	}

	bill, err := h.billService.Create(c.Request().Context(), userID, req)
	if err != nil {
		return respondError(c, h.logger, "Bill", err)
	}

	return common.SendSuccess(c, http.StatusCreated, bill, "Bill created successfully")
}

// GetBill godoc
// @Summary Get a bill
// @Tags bills
// @Produce json
// @Param id path string true "Bill ID"
// @Success 200 {object} common.SuccessResponse
// @Failure 404 {object} common.ErrorResponse
// @Router /bills/{id} [get]
func (h *BillHandlers) GetBill(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.logger, "Bill", err)
	}

	bill, err := h.billService.GetByID(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, h.logger, "Bill", err)
	}
	return common.SendSuccess(c, http.StatusOK, bill, "")
}

// ListBills godoc
// @Summary List bills, newest first
// @Tags bills
// @Produce json
// @Param search query string false "Bill number or buyer name"
// @Param from query string false "Earliest billing date (YYYY-MM-DD)"
// @Param to query string false "Latest billing date (YYYY-MM-DD)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} common.SuccessResponse
// @Router /bills [get]
func (h *BillHandlers) ListBills(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	filter, err := billFilterFromQuery(c)
	if err != nil {
		return respondError(c, h.logger, "Bill", err)
	}

	bills, err := h.billService.List(c.Request().Context(), userID, filter)
	if err != nil {
		return respondError(c, h.logger, "Bill", err)
	}
	if bills == nil {
		bills = []*models.Bill{}
	}

	return common.SendSuccess(c, http.StatusOK, map[string]interface{}{
		"bills":  bills,
		"count":  len(bills),
		"limit":  filter.Limit,
		"offset": filter.Offset,
	}, "")
}

func billFilterFromQuery(c echo.Context) (models.BillFilter, error) {
	var filter models.BillFilter
	var err error

	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		return filter, err
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		return filter, err
	}
	if filter.From, err = queryDate(c, "from"); err != nil {
		return filter, err
	}
	if filter.To, err = queryDate(c, "to"); err != nil {
		return filter, err
	}
	filter.Search = c.QueryParam("search")
	return filter, nil
}

// UpdateBill godoc
// @Summary Update a bill
// @Description Fields left out keep their stored value. Changing the total or quantity recomputes every derived amount.
// @Tags bills
// @Accept json
// @Produce json
// @Param id path string true "Bill ID"
// @Param bill body services.UpdateBillInput true "Changed fields"
// @Success 200 {object} common.SuccessResponse
// @Failure 400 {object} common.ErrorResponse
// @Failure 404 {object} common.ErrorResponse
// @Router /bills/{id} [put]
func (h *BillHandlers) UpdateBill(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.logger, "Bill", err)
	}

	var req services.UpdateBillInput
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.logger, "Bill", err)
	}

	bill, err := h.billService.Update(c.Request().Context(), userID, id, req)
	if err != nil {
		return respondError(c, h.logger, "Bill", err)
	}
	return common.SendSuccess(c, http.StatusOK, bill, "Bill updated successfully")
}

// DeleteBill godoc
// @Summary Delete a bill
// @Tags bills
// @Param id path string true "Bill ID"
// @Success 200 {object} common.SuccessResponse
// @Failure 404 {object} common.ErrorResponse
// @Router /bills/{id} [delete]
func (h *BillHandlers) DeleteBill(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.logger, "Bill", err)
	}

	if err := h.billService.Delete(c.Request().Context(), userID, id); err != nil {
		return respondError(c, h.logger, "Bill", err)
	}
	return common.SendSuccess(c, http.StatusOK, nil, "Bill deleted successfully")
}

// DownloadBillPDF godoc
// @Summary Download the tax invoice PDF
// @Tags invoices
// @Produce application/pdf
// @Param id path string true "Bill ID"
// @Success 200 {file} file
// @Failure 404 {object} common.ErrorResponse
// @Router /bills/{id}/pdf [get]
func (h *BillHandlers) DownloadBillPDF(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.logger, "Bill", err)
	}

	bill, pdf, err := h.invoiceService.RenderPDF(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, h.logger, "Bill", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+services.InvoiceFileName(bill)+`"`)
	c.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(len(pdf)))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// StoreBillPDF godoc
// @Summary Store the tax invoice PDF in object storage
// @Description Returns a presigned download link that expires.
// @Tags invoices
// @Produce json
// @Param id path string true "Bill ID"
// @Success 201 {object} common.SuccessResponse
// @Failure 404 {object} common.ErrorResponse
// @Router /bills/{id}/pdf [post]
func (h *BillHandlers) StoreBillPDF(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.logger, "Bill", err)
	}

	stored, err := h.invoiceService.StorePDF(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, h.logger, "Bill", err)
	}
	return common.SendSuccess(c, http.StatusCreated, stored, "Invoice stored successfully")
}

// ExportRegister godoc
// @Summary Export the sales register for a date range
// @Tags bills
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param from query string true "First billing date (YYYY-MM-DD)"
// @Param to query string true "Last billing date (YYYY-MM-DD)"
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} common.ErrorResponse
// @Router /bills/export [get]
func (h *BillHandlers) ExportRegister(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	from, err := common.ParseDate(c.QueryParam("from"), "from")
	if err != nil {
		return common.SendValidationError(c, "from", err.Error())
	}
	to, err := common.ParseDate(c.QueryParam("to"), "to")
	if err != nil {
		return common.SendValidationError(c, "to", err.Error())
	}
	format, err := services.ParseExportFormat(c.QueryParam("format"))
	if err != nil {
		return respondError(c, h.logger, "Bill", err)
	}

	// Buffered so a failure halfway through still produces a JSON error.
	var buf bytes.Buffer
	if err := h.exporter.Export(c.Request().Context(), userID, from, to, format, &buf); err != nil {
		return respondError(c, h.logger, "Bill", err)
	}

	fileName := "sales-register-" + from.Format(common.DateLayout) + "-to-" + to.Format(common.DateLayout) + "." + string(format)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}

// PreviewTax godoc
// @Summary Preview the derived tax fields for an unsaved bill
// @Tags bills
// @Accept json
// @Produce json
// @Param request body taxPreviewRequest true "Total and quantity"
// @Success 200 {object} common.SuccessResponse
// @Failure 400 {object} common.ErrorResponse
// @Router /tax/preview [post]
func (h *BillHandlers) PreviewTax(c echo.Context) error {
	if _, ok := currentUser(c); !ok {
		return common.SendUnauthorizedError(c)
	}

	var req taxPreviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.logger, "Bill", err)
	}

	preview, err := h.billService.PreviewTax(req.TotalAmount, req.Quantity)
	if err != nil {
		return respondError(c, h.logger, "Bill", err)
	}
	return common.SendSuccess(c, http.StatusOK, preview, "")
}
