package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/fintrack/internal/ledger"
)

type createTransactionRequest struct {
	UserID     string     `json:"userId"`
	CategoryID string     `json:"categoryId"`
	Type       string     `json:"type"`
	Amount     amountText `json:"amount"`
	Note       string     `json:"note"`
}

type updateTransactionRequest struct {
	ID         string      `json:"id"`
	CategoryID *string     `json:"categoryId"`
	Type       *string     `json:"type"`
	Amount     *amountText `json:"amount"`
	Note       *string     `json:"note"`
}

func CreateTransactionHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createTransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		userID, err := owner(c, req.UserID)
		if err != nil {
			failErr(c, err)
			return
		}

		transaction, err := svc.CreateTransaction(c.Request.Context(), ledger.CreateTransactionInput{
			UserID:     userID,
			CategoryID: req.CategoryID,
			Type:       req.Type,
			Amount:     string(req.Amount),
			Note:       req.Note,
		})
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusCreated, "transaction created", gin.H{"transaction": transaction})
	}
}

func GetTransactionsHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := owner(c, c.Query("userId"))
		if err != nil {
			failErr(c, err)
			return
		}
		transactions, err := svc.ListTransactions(c.Request.Context(), userID)
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "transactions found", gin.H{"transactions": transactions})
	}
}

func GetTransactionHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		transaction, err := svc.GetTransaction(c.Request.Context(), idParam(c))
		if err == nil {
			err = checkOwner(c, transaction.UserID)
		}
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "transaction found", gin.H{"transaction": transaction})
	}
}

// UpdateTransactionHandler changes the fields present in the body. The
// balance follows amount and type changes.
func UpdateTransactionHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateTransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ID == "" {
			req.ID = idParam(c)
		}
		ctx := c.Request.Context()

		current, err := svc.GetTransaction(ctx, req.ID)
		if err == nil {
			err = checkOwner(c, current.UserID)
		}
		if err != nil {
			failErr(c, err)
			return
		}

		transaction, err := svc.UpdateTransaction(ctx, req.ID, ledger.UpdateTransactionInput{
			CategoryID: req.CategoryID,
			Type:       req.Type,
			Amount:     req.Amount.ptr(),
			Note:       req.Note,
		})
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "transaction updated", gin.H{"transaction": transaction})
	}
}

func DeleteTransactionHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := idParam(c)
		ctx := c.Request.Context()

		current, err := svc.GetTransaction(ctx, id)
		if err == nil {
			err = checkOwner(c, current.UserID)
		}
		if err == nil {
			err = svc.DeleteTransaction(ctx, id)
		}
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "transaction deleted", nil)
	}
}
