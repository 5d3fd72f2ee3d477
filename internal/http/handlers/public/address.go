package public

import (
	handlershared "github.com/brundhavanam/grocery/internal/http/handlers/shared"
	"github.com/brundhavanam/grocery/internal/http/response"
	"github.com/brundhavanam/grocery/internal/service"

	"github.com/gin-gonic/gin"
)

// AddressRequest 收货地址请求
type AddressRequest struct {
	Label     string   `json:"label" binding:"max=40"`
	FullName  string   `json:"full_name" binding:"required,max=120"`
	Mobile    string   `json:"mobile" binding:"required"`
	Street    string   `json:"street" binding:"required,max=255"`
	Area      string   `json:"area" binding:"max=120"`
	City      string   `json:"city" binding:"required,max=80"`
	State     string   `json:"state" binding:"required,max=80"`
	Pincode   string   `json:"pincode" binding:"required,pincode"`
	Country   string   `json:"country" binding:"max=60"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" binding:"omitempty,longitude"`
	IsDefault bool     `json:"is_default"`
}

func (r AddressRequest) toInput() service.AddressInput {
	return service.AddressInput{
		Label:     r.Label,
		FullName:  r.FullName,
		Mobile:    r.Mobile,
		Street:    r.Street,
		Area:      r.Area,
		City:      r.City,
		State:     r.State,
		Pincode:   r.Pincode,
		Country:   r.Country,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		IsDefault: r.IsDefault,
	}
}

// ListAddresses 地址列表（默认地址在前）
func (h *Handler) ListAddresses(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addresses, err := h.AddressService.List(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.Success(c, addresses)
}

// CreateAddress 新增地址
func (h *Handler) CreateAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddressRequest
	if !bindJSON(c, &req) {
		return
	}
	address, err := h.AddressService.Create(uid, req.toInput())
	if err != nil {
		respondAddressError(c, err)
		return
	}
	response.Success(c, address)
}

// UpdateAddress 修改地址
func (h *Handler) UpdateAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := handlershared.ParseUintParam(c, "id", "error.address_not_found")
	if !ok {
		return
	}
	var req AddressRequest
	if !bindJSON(c, &req) {
		return
	}
	address, err := h.AddressService.Update(uid, addressID, req.toInput())
	if err != nil {
		respondAddressError(c, err)
		return
	}
	response.Success(c, address)
}

// DeleteAddress 删除地址
func (h *Handler) DeleteAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := handlershared.ParseUintParam(c, "id", "error.address_not_found")
	if !ok {
		return
	}
	if err := h.AddressService.Delete(uid, addressID); err != nil {
		respondAddressError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// SetDefaultAddress 设为默认地址
func (h *Handler) SetDefaultAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := handlershared.ParseUintParam(c, "id", "error.address_not_found")
	if !ok {
		return
	}
	address, err := h.AddressService.SetDefault(uid, addressID)
	if err != nil {
		respondAddressError(c, err)
		return
	}
	response.Success(c, address)
}
