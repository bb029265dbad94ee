package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/fintrack/internal/ledger"
)

type createBudgetRequest struct {
	UserID        string     `json:"userId"`
	CategoryID    string     `json:"categoryId"`
	Name          string     `json:"name"`
	InitialAmount amountText `json:"initialAmount"`
	StartDate     string     `json:"startDate"`
	EndDate       string     `json:"endDate"`
}

type updateBudgetRequest struct {
	ID            string      `json:"id"`
	CategoryID    *string     `json:"categoryId"`
	Name          *string     `json:"name"`
	InitialAmount *amountText `json:"initialAmount"`
	StartDate     *string     `json:"startDate"`
	EndDate       *string     `json:"endDate"`
}

// amountDeltaRequest moves the current amount of a budget or goal.
type amountDeltaRequest struct {
	ID     string     `json:"id"`
	Amount amountText `json:"amount"`
	IsAdd  bool       `json:"isAdd"`
}

func CreateBudgetHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createBudgetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		userID, err := owner(c, req.UserID)
		if err != nil {
			failErr(c, err)
			return
		}
		start, err := parseDate(req.StartDate)
		if err != nil {
			failErr(c, err)
			return
		}
		end, err := parseDate(req.EndDate)
		if err != nil {
			failErr(c, err)
			return
		}

		budget, err := svc.CreateBudget(c.Request.Context(), ledger.BudgetInput{
			UserID:        userID,
			CategoryID:    req.CategoryID,
			Name:          req.Name,
			InitialAmount: string(req.InitialAmount),
			StartDate:     start,
			EndDate:       end,
		})
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusCreated, "budget created", gin.H{"budget": budget})
	}
}

func GetBudgetsHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := owner(c, c.Query("userId"))
		if err != nil {
			failErr(c, err)
			return
		}
		budgets, err := svc.ListBudgets(c.Request.Context(), userID)
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "budgets found", gin.H{"budgets": budgets})
	}
}

func GetBudgetHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		budget, err := svc.GetBudget(c.Request.Context(), idParam(c))
		if err == nil {
			err = checkOwner(c, budget.UserID)
		}
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "budget found", gin.H{"budget": budget})
	}
}

func UpdateBudgetHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateBudgetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ID == "" {
			req.ID = idParam(c)
		}
		ctx := c.Request.Context()

		if err := ownBudget(c, svc, req.ID); err != nil {
			failErr(c, err)
			return
		}
		start, err := parseOptionalDate(req.StartDate)
		if err != nil {
			failErr(c, err)
			return
		}
		end, err := parseOptionalDate(req.EndDate)
		if err != nil {
			failErr(c, err)
			return
		}

		budget, err := svc.UpdateBudget(ctx, req.ID, ledger.BudgetUpdate{
			CategoryID:    req.CategoryID,
			Name:          req.Name,
			InitialAmount: req.InitialAmount.ptr(),
			StartDate:     start,
			EndDate:       end,
		})
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "budget updated", gin.H{"budget": budget})
	}
}

// UpdateBudgetAmountHandler adds to or subtracts from the budget's current
// amount.
func UpdateBudgetAmountHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req amountDeltaRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := ownBudget(c, svc, req.ID); err != nil {
			failErr(c, err)
			return
		}
		budget, err := svc.ApplyBudgetDelta(c.Request.Context(), req.ID, string(req.Amount), req.IsAdd)
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "budget amount updated", gin.H{"budget": budget})
	}
}

func DeleteBudgetHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := owner(c, c.Query("userId"))
		if err != nil {
			failErr(c, err)
			return
		}
		if err := svc.DeleteBudget(c.Request.Context(), idParam(c), userID); err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "budget deleted", nil)
	}
}

func ownBudget(c *gin.Context, svc *ledger.Service, id string) error {
	budget, err := svc.GetBudget(c.Request.Context(), id)
	if err != nil {
		return err
	}
	return checkOwner(c, budget.UserID)
}
