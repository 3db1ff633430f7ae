package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"directstay/internal/app/commands"
	adminapp "directstay/internal/app/handlers/admin"
	checkoutapp "directstay/internal/app/handlers/checkout"
	pricingapp "directstay/internal/app/handlers/pricing"
	"directstay/internal/app/queries"
	"directstay/internal/app/validation"
	domainbooking "directstay/internal/domain/booking"
	domaininvoice "directstay/internal/domain/invoice"
	domainlistings "directstay/internal/domain/listings"
	domainpricing "directstay/internal/domain/pricing"
	domainpromo "directstay/internal/domain/promo"
	domainrange "directstay/internal/domain/shared/daterange"
	"directstay/internal/domain/shared/money"
)

var errInvalidDate = errors.New("dates must use YYYY-MM-DD")

var badRequest = []error{
	errInvalidDate,
	validation.ErrInvalid,
	domainrange.ErrInvalidRange,
	domainbooking.ErrInvalidGuests,
	domainbooking.ErrTooManyGuests,
	domainbooking.ErrCheckInPast,
	domainbooking.ErrMinStay,
	domainbooking.ErrNonPositiveTotal,
	domainbooking.ErrEmailRequired,
	domainbooking.ErrPaymentRefMissing,
	domainpromo.ErrCodeRequired,
	domainpromo.ErrInvalidType,
	domainpromo.ErrInvalidValue,
	domainpromo.ErrPercentRange,
	domainpromo.ErrInvalidCap,
	domaininvoice.ErrNoItems,
	domaininvoice.ErrGuestRequired,
	domaininvoice.ErrInvalidItem,
	domaininvoice.ErrInvalidPercent,
	domainpricing.ErrInvalidRuleSet,
	money.ErrInvalidCurrency,
	adminapp.ErrInvalidConfig,
}

var notFound = []error{
	domainlistings.ErrListingNotFound,
	domainbooking.ErrBookingNotFound,
	domainpromo.ErrNotFound,
	domaininvoice.ErrNotFound,
	adminapp.ErrUnknownConfig,
}

var conflict = []error{
	domainpromo.ErrDuplicateCode,
	domainbooking.ErrInvalidState,
	domainbooking.ErrConcurrentUpdate,
}

var unavailable = []error{
	domainpricing.ErrRateUnavailable,
	pricingapp.ErrQuoterNotConfigured,
	checkoutapp.ErrPaymentsNotConfigured,
	commands.ErrNilBus,
	queries.ErrNilBus,
}

func statusFor(err error) int {
	switch {
	case matchesAny(err, badRequest):
		return http.StatusBadRequest
	case matchesAny(err, notFound):
		return http.StatusNotFound
	case matchesAny(err, conflict):
		return http.StatusConflict
	case matchesAny(err, unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondError hides internal error text from clients.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func badRequestError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

const dateLayout = "2006-01-02"

func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	return t, nil
}

func parseStay(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := parseDate(checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := parseDate(checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return in, out, nil
}
