package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/fintrack/internal/ledger"
)

type createGoalRequest struct {
	UserID       string     `json:"userId"`
	CategoryID   string     `json:"categoryId"`
	Title        string     `json:"title"`
	TargetAmount amountText `json:"targetAmount"`
	Deadline     string     `json:"deadline"`
}

type updateGoalRequest struct {
	ID           string      `json:"id"`
	CategoryID   *string     `json:"categoryId"`
	Title        *string     `json:"title"`
	TargetAmount *amountText `json:"targetAmount"`
	Deadline     *string     `json:"deadline"`
}

func CreateGoalHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createGoalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		userID, err := owner(c, req.UserID)
		if err != nil {
			failErr(c, err)
			return
		}
		deadline, err := parseDate(req.Deadline)
		if err != nil {
			failErr(c, err)
			return
		}

		goal, err := svc.CreateGoal(c.Request.Context(), ledger.GoalInput{
			UserID:       userID,
			CategoryID:   req.CategoryID,
			Title:        req.Title,
			TargetAmount: string(req.TargetAmount),
			Deadline:     deadline,
		})
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusCreated, "goal created", gin.H{"goal": goal})
	}
}

func GetGoalsHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := owner(c, c.Query("userId"))
		if err != nil {
			failErr(c, err)
			return
		}
		goals, err := svc.ListGoals(c.Request.Context(), userID)
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "goals found", gin.H{"goals": goals})
	}
}

func GetGoalHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		goal, err := svc.GetGoal(c.Request.Context(), idParam(c))
		if err == nil {
			err = checkOwner(c, goal.UserID)
		}
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "goal found", gin.H{"goal": goal})
	}
}

func UpdateGoalHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateGoalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ID == "" {
			req.ID = idParam(c)
		}
		if err := ownGoal(c, svc, req.ID); err != nil {
			failErr(c, err)
			return
		}
		deadline, err := parseOptionalDate(req.Deadline)
		if err != nil {
			failErr(c, err)
			return
		}

		goal, err := svc.UpdateGoal(c.Request.Context(), req.ID, ledger.GoalUpdate{
			CategoryID:   req.CategoryID,
			Title:        req.Title,
			TargetAmount: req.TargetAmount.ptr(),
			Deadline:     deadline,
		})
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "goal updated", gin.H{"goal": goal})
	}
}

// UpdateGoalAmountHandler records money put aside for the goal, or taken
// back from it.
func UpdateGoalAmountHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req amountDeltaRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := ownGoal(c, svc, req.ID); err != nil {
			failErr(c, err)
			return
		}
		goal, err := svc.ApplyGoalDelta(c.Request.Context(), req.ID, string(req.Amount), req.IsAdd)
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "goal amount updated", gin.H{"goal": goal})
	}
}

func DeleteGoalHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := owner(c, c.Query("userId"))
		if err != nil {
			failErr(c, err)
			return
		}
		if err := svc.DeleteGoal(c.Request.Context(), idParam(c), userID); err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "goal deleted", nil)
	}
}

func ownGoal(c *gin.Context, svc *ledger.Service, id string) error {
	goal, err := svc.GetGoal(c.Request.Context(), id)
	if err != nil {
		return err
	}
	return checkOwner(c, goal.UserID)
}
