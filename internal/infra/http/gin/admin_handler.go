package ginserver

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"directstay/internal/app/commands"
	"directstay/internal/app/dto"
	adminapp "directstay/internal/app/handlers/admin"
	pricingapp "directstay/internal/app/handlers/pricing"
	"directstay/internal/app/queries"
	"directstay/internal/infra/export"
)

const maxConfigBody = 1 << 20

type AdminHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Config   adminapp.ConfigService
}

func (h AdminHandler) ListPromos(c *gin.Context) {
	result, err := queries.Ask[adminapp.ListPromosQuery, dto.PromoCodeCollection](c.Request.Context(), h.Queries, adminapp.ListPromosQuery{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminHandler) CreatePromo(c *gin.Context) {
	var req struct {
		Code          string  `json:"code"`
		DiscountType  string  `json:"discount_type"`
		DiscountValue float64 `json:"discount_value"`
		PropertyID    string  `json:"property_id"`
		ExpiresAt     string  `json:"expires_at"`
		MaxUses       *int    `json:"max_uses"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestError(c, err)
		return
	}
	cmd := adminapp.CreatePromoCommand{
		Code:          req.Code,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		PropertyID:    req.PropertyID,
		MaxUses:       req.MaxUses,
	}
	if req.ExpiresAt != "" {
		expires, err := parseDate(req.ExpiresAt)
		if err != nil {
			badRequestError(c, err)
			return
		}
		cmd.ExpiresAt = &expires
	}
	result, err := commands.Dispatch[adminapp.CreatePromoCommand, *dto.PromoCode](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h AdminHandler) DeletePromo(c *gin.Context) {
	_, err := commands.Dispatch[adminapp.DeletePromoCommand, *adminapp.DeletePromoResult](c.Request.Context(), h.Commands, adminapp.DeletePromoCommand{
		Code: c.Param("code"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AdminHandler) GetConfig(c *gin.Context) {
	value, err := h.Config.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, value)
}

func (h AdminHandler) PutConfig(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxConfigBody))
	if err != nil {
		badRequestError(c, err)
		return
	}
	value, err := h.Config.Put(c.Request.Context(), c.Param("name"), body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, value)
}

func (h AdminHandler) ResetPricingRules(c *gin.Context) {
	rules, err := h.Config.ResetPricingRules(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

func (h AdminHandler) RateSchedule(c *gin.Context) {
	schedule, ok := h.schedule(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, schedule)
}

func (h AdminHandler) RateScheduleXLSX(c *gin.Context) {
	schedule, ok := h.schedule(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteRateSchedule(&buf, schedule); err != nil {
		respondError(c, err)
		return
	}
	filename := fmt.Sprintf("rates-%s-%s.xlsx", schedule.PropertyID, c.Query("check_in"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func (h AdminHandler) schedule(c *gin.Context) (dto.RateSchedule, bool) {
	checkIn, checkOut, err := parseStay(c.Query("check_in"), c.Query("check_out"))
	if err != nil {
		badRequestError(c, err)
		return dto.RateSchedule{}, false
	}
	schedule, err := queries.Ask[pricingapp.RateScheduleQuery, dto.RateSchedule](c.Request.Context(), h.Queries, pricingapp.RateScheduleQuery{
		PropertyID: c.Param("id"),
		CheckIn:    checkIn,
		CheckOut:   checkOut,
	})
	if err != nil {
		respondError(c, err)
		return dto.RateSchedule{}, false
	}
	return schedule, true
}

var _ AdminHTTP = AdminHandler{}
