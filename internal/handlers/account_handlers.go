package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/fintrack/internal/ledger"
)

type adjustRequest struct {
	UserID     string     `json:"userId"`
	Amount     amountText `json:"amount"`
	IsIncrease bool       `json:"isIncrease"`
}

func GetAccountHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := owner(c, c.Query("userId"))
		if err != nil {
			failErr(c, err)
			return
		}
		account, err := svc.GetAccountByUser(c.Request.Context(), userID)
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "account found", gin.H{"account": account})
	}
}

// AdjustBalanceHandler applies an explicit correction to the caller's
// balance.
func AdjustBalanceHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req adjustRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		userID, err := owner(c, req.UserID)
		if err != nil {
			failErr(c, err)
			return
		}
		account, err := svc.AdjustBalance(c.Request.Context(), userID, string(req.Amount), req.IsIncrease)
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "balance updated", gin.H{"account": account})
	}
}
