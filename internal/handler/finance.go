package handler

import (
	"net/http"

	"redecell/internal/dto"
	"redecell/internal/service"

	"github.com/gin-gonic/gin"
)

type FinanceHandler struct{ svc service.FinanceService }

func NewFinanceHandler(svc service.FinanceService) *FinanceHandler { return &FinanceHandler{svc: svc} }

func (h *FinanceHandler) ListBankAccounts(c *gin.Context) {
	resp, err := h.svc.ListBankAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateBankAccount answers 409 when the account number is already registered.
func (h *FinanceHandler) CreateBankAccount(c *gin.Context) {
	var req dto.BankAccountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateBankAccount(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FinanceHandler) UpdateBankAccount(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.BankAccountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateBankAccount(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FinanceHandler) DeleteBankAccount(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteBankAccount(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
