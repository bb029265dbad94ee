package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/models"
)

type categoryRequest struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Type   string `json:"type"`
}

func (r *categoryRequest) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	if r.Name == "" {
		return "category name is required"
	}
	if r.Type != "income" && r.Type != "expense" {
		return "category type must be income or expense"
	}
	return ""
}

func CreateCategoryHandler(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			fail(c, http.StatusBadRequest, msg)
			return
		}
		userID, err := owner(c, req.UserID)
		if err != nil {
			failErr(c, err)
			return
		}

		category := &models.Category{UserID: userID, Name: req.Name, Type: req.Type}
		if err := db.CreateCategory(c.Request.Context(), category); err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusCreated, "category created", gin.H{"category": category})
	}
}

func GetCategoriesHandler(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := owner(c, c.Query("userId"))
		if err != nil {
			failErr(c, err)
			return
		}
		categories, err := db.GetCategoriesByUserID(c.Request.Context(), userID)
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "categories found", gin.H{"categories": categories})
	}
}

func UpdateCategoryHandler(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ID == "" {
			req.ID = idParam(c)
		}
		if msg := req.validate(); msg != "" {
			fail(c, http.StatusBadRequest, msg)
			return
		}
		ctx := c.Request.Context()

		category, err := db.GetCategoryByID(ctx, req.ID)
		if err == nil {
			err = checkOwner(c, category.UserID)
		}
		if err != nil {
			failErr(c, err)
			return
		}
		category.Name, category.Type = req.Name, req.Type
		if err := db.UpdateCategory(ctx, category); err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "category updated", gin.H{"category": category})
	}
}

func DeleteCategoryHandler(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := idParam(c)
		ctx := c.Request.Context()

		category, err := db.GetCategoryByID(ctx, id)
		if err == nil {
			err = checkOwner(c, category.UserID)
		}
		if err == nil {
			err = db.DeleteCategory(ctx, id)
		}
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "category deleted", nil)
	}
}
