package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coursedesk/credits-system/internal/core/ports"
)

// LedgerHandler handles HTTP requests for credit balance and purchases.
type LedgerHandler struct {
	service ports.LedgerService
}

func NewLedgerHandler(service ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// Balance handles GET /v1/credits/balance.
//
// @Summary      Get the caller's credit balance
// @Tags         credits
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  balanceResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/credits/balance [get]
func (h *LedgerHandler) Balance(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.service.GetBalance(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	resp := balanceResponse{
		AvailableCredits: result.AvailableCredits,
		CreditBreakdown:  make([]creditBreakdownItem, 0, len(result.CreditBreakdown)),
	}
	for _, item := range result.CreditBreakdown {
		resp.CreditBreakdown = append(resp.CreditBreakdown, creditBreakdownItem{
			Type:    item.Type,
			Credits: item.Credits,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// Purchase handles POST /v1/credits/purchase.
//
// @Summary      Purchase training credits
// @Tags         credits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      purchaseRequest  true  "Purchase details"
// @Success      201   {object}  purchaseResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/credits/purchase [post]
func (h *LedgerHandler) Purchase(c echo.Context) error {
	userID, email, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req purchaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.service.Purchase(c.Request().Context(), ports.PurchaseInput{
		UserID:     userID,
		UserEmail:  email,
		PackageID:  req.PackageID,
		CourseType: req.CourseType,
		Credits:    req.Credits,
		Price:      req.Price,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, purchaseResponse{
		CreditRecordID:  result.CreditRecordID,
		CourseType:      result.CourseType,
		NewTotalForType: result.NewTotalForType,
	})
}

// History handles GET /v1/credits/purchases.
//
// @Summary      List the caller's purchases, newest first
// @Tags         credits
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  purchaseHistoryResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/credits/purchases [get]
func (h *LedgerHandler) History(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	records, err := h.service.PurchaseHistory(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	resp := purchaseHistoryResponse{Purchases: make([]purchaseHistoryItem, 0, len(records))}
	for _, r := range records {
		resp.Purchases = append(resp.Purchases, purchaseHistoryItem{
			ID:         r.ID,
			PackageID:  r.PackageID,
			CourseType: r.CourseType,
			Credits:    r.Credits,
			Price:      r.Price,
			Status:     r.Status,
			CreatedAt:  r.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
