package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"directstay/internal/app/dto"
	pricingapp "directstay/internal/app/handlers/pricing"
	"directstay/internal/app/queries"
)

type PricingHandler struct {
	Queries queries.Bus
}

func (h PricingHandler) Preview(c *gin.Context) {
	checkIn, checkOut, err := parseStay(c.Query("check_in"), c.Query("check_out"))
	if err != nil {
		badRequestError(c, err)
		return
	}
	guests := 1
	if raw := c.Query("guests"); raw != "" {
		if guests, err = strconv.Atoi(raw); err != nil {
			badRequestError(c, err)
			return
		}
	}
	q := pricingapp.PreviewQuery{
		PropertyID: c.Param("id"),
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     guests,
		PromoCode:  c.Query("promo_code"),
	}
	result, err := queries.Ask[pricingapp.PreviewQuery, dto.PriceBreakdown](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type validatePromoRequest struct {
	Code       string `json:"code"`
	PropertyID string `json:"property_id"`
}

func (h PricingHandler) ValidatePromo(c *gin.Context) {
	var req validatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestError(c, err)
		return
	}
	result, err := queries.Ask[pricingapp.ValidatePromoQuery, dto.PromoValidation](c.Request.Context(), h.Queries, pricingapp.ValidatePromoQuery{
		Code:       req.Code,
		PropertyID: req.PropertyID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ PricingHTTP = PricingHandler{}
