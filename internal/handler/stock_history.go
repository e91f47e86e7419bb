package handler

import (
	"net/http"

	"redecell/internal/apierror"
	"redecell/internal/dto"
	"redecell/internal/service"

	"github.com/gin-gonic/gin"
)

type StockHistoryHandler struct{ svc service.StockHistoryService }

func NewStockHistoryHandler(svc service.StockHistoryService) *StockHistoryHandler {
	return &StockHistoryHandler{svc: svc}
}

// List supports ?variation_id=&change_type=&page=&limit=.
func (h *StockHistoryHandler) List(c *gin.Context) {
	var filter dto.StockHistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parâmetros de consulta inválidos"))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
