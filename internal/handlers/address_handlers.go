package handlers

import (
	"net/http"

	"billmaker/internal/common"
	"billmaker/internal/models"
	"billmaker/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AddressHandlers handles the saved buyer and shipping parties
type AddressHandlers struct {
	addressService services.AddressService
	logger         *zap.Logger
}

func NewAddressHandlers(addressService services.AddressService, logger *zap.Logger) *AddressHandlers {
	return &AddressHandlers{addressService: addressService, logger: logger}
}

// CreateAddress godoc
// @Summary Save an address
// @Tags addresses
// @Accept json
// @Produce json
// @Param address body services.AddressInput true "Address"
// @Success 201 {object} common.SuccessResponse
// @Failure 400 {object} common.ErrorResponse
// @Router /addresses [post]
func (h *AddressHandlers) CreateAddress(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.AddressInput
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.logger, "Address", err)
	}

	address, err := h.addressService.Create(c.Request().Context(), userID, req)
	if err != nil {
		return respondError(c, h.logger, "Address", err)
	}
	return common.SendSuccess(c, http.StatusCreated, address, "Address saved successfully")
}

// ListAddresses godoc
// @Summary List saved addresses
// @Tags addresses
// @Produce json
// @Success 200 {object} common.SuccessResponse
// @Router /addresses [get]
func (h *AddressHandlers) ListAddresses(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	addresses, err := h.addressService.List(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, h.logger, "Address", err)
	}
	if addresses == nil {
		addresses = []*models.Address{}
	}
	return common.SendSuccess(c, http.StatusOK, addresses, "")
}

// GetAddress godoc
// @Summary Get a saved address
// @Tags addresses
// @Produce json
// @Param id path string true "Address ID"
// @Success 200 {object} common.SuccessResponse
// @Failure 404 {object} common.ErrorResponse
// @Router /addresses/{id} [get]
func (h *AddressHandlers) GetAddress(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.logger, "Address", err)
	}

	address, err := h.addressService.GetByID(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, h.logger, "Address", err)
	}
	return common.SendSuccess(c, http.StatusOK, address, "")
}

// UpdateAddress godoc
// @Summary Replace a saved address
// @Tags addresses
// @Accept json
// @Produce json
// @Param id path string true "Address ID"
// @Param address body services.AddressInput true "Address"
// @Success 200 {object} common.SuccessResponse
// @Failure 404 {object} common.ErrorResponse
// @Router /addresses/{id} [put]
func (h *AddressHandlers) UpdateAddress(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.logger, "Address", err)
	}

	var req services.AddressInput
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.logger, "Address", err)
	}

	address, err := h.addressService.Update(c.Request().Context(), userID, id, req)
	if err != nil {
		return respondError(c, h.logger, "Address", err)
	}
	return common.SendSuccess(c, http.StatusOK, address, "Address updated successfully")
}

// DeleteAddress godoc
// @Summary Delete a saved address
// @Tags addresses
// @Param id path string true "Address ID"
// @Success 200 {object} common.SuccessResponse
// @Failure 404 {object} common.ErrorResponse
// @Router /addresses/{id} [delete]
func (h *AddressHandlers) DeleteAddress(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.logger, "Address", err)
	}

	if err := h.addressService.Delete(c.Request().Context(), userID, id); err != nil {
		return respondError(c, h.logger, "Address", err)
	}
	return common.SendSuccess(c, http.StatusOK, nil, "Address deleted successfully")
}
