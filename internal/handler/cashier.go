package handler

import (
	"net/http"

	"redecell/internal/dto"
	"redecell/internal/service"

	"github.com/gin-gonic/gin"
)

// CashierHandler serves the cash drawer of the authenticated operator.
type CashierHandler struct{ svc service.CashierService }

func NewCashierHandler(svc service.CashierService) *CashierHandler { return &CashierHandler{svc: svc} }

// Open starts a session. POST /api/cashier/open → 201, 400 if one is already open.
func (h *CashierHandler) Open(c *gin.Context) {
	var req dto.OpenCashRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, ok := principal(c)
	if !ok {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), p.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close reconciles the counted amount. POST /api/cashier/close, 404 without an open session.
func (h *CashierHandler) Close(c *gin.Context) {
	var req dto.CloseCashRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, ok := principal(c)
	if !ok {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), p.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CashierHandler) Status(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	resp, err := h.svc.Status(c.Request.Context(), p.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CashierHandler) Summary(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	resp, err := h.svc.Summary(c.Request.Context(), p.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CashierHandler) History(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	resp, err := h.svc.History(c.Request.Context(), p.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
