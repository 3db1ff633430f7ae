package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"directstay/internal/app/commands"
	"directstay/internal/app/dto"
	invoiceapp "directstay/internal/app/handlers/invoices"
	"directstay/internal/app/queries"
)

type InvoiceHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h InvoiceHandler) Create(c *gin.Context) {
	var cmd invoiceapp.CreateInvoiceCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		badRequestError(c, err)
		return
	}
	result, err := commands.Dispatch[invoiceapp.CreateInvoiceCommand, *dto.Invoice](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h InvoiceHandler) Get(c *gin.Context) {
	result, err := queries.Ask[invoiceapp.GetInvoiceQuery, dto.Invoice](c.Request.Context(), h.Queries, invoiceapp.GetInvoiceQuery{ID: c.Param("id")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ InvoiceHTTP = InvoiceHandler{}
