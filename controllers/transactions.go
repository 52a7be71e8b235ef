package controllers

import (
	"fmt"
	"net/http"

	"github.com/bellapacxx/bingo-caller/models"
	"github.com/bellapacxx/bingo-caller/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type LedgerRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Deposit records funds added to the caller's wallet.
func (ctl *Controller) Deposit(c *gin.Context) {
	ctl.appendUserTransaction(c, models.DepositTransaction)
}

// Withdraw records funds paid out to the caller.
func (ctl *Controller) Withdraw(c *gin.Context) {
	ctl.appendUserTransaction(c, models.WithdrawalTransaction)
}

func (ctl *Controller) appendUserTransaction(c *gin.Context, typ models.TransactionType) {
	var req LedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !req.Amount.IsPositive() {
		respondError(c, fmt.Errorf("%w: amount must be positive", services.ErrInvalidInput))
		return
	}
	tx := models.Transaction{
		UserID: callerID(c),
		Type:   typ,
		Amount: req.Amount,
	}
	if err := ctl.Registry.Store().AppendTransaction(c.Request.Context(), &tx); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// GameTransactions lists the ledger entries written for a game.
func (ctl *Controller) GameTransactions(c *gin.Context) {
	txs, err := ctl.Registry.Store().ListTransactions(c.Request.Context(), services.TransactionFilter{
		GameID: c.Param("id"),
		SlipID: c.Query("slip"),
		Type:   models.TransactionType(c.Query("type")),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	c.JSON(http.StatusOK, txs)
}
