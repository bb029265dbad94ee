package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/fintrack/internal/ai"
)

const maxReceiptSize = 10 << 20

type extractRequest struct {
	UserID string `json:"userId"`
	Text   string `json:"text"`
}

// ReceiptHandler reads the "image" form file and returns the itemized
// receipt. An unreadable model answer gives an empty list.
func ReceiptHandler(parser *ai.ReceiptParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if parser == nil {
			fail(c, http.StatusServiceUnavailable, "receipt recognition is not configured")
			return
		}
		file, header, err := c.Request.FormFile("image")
		if err != nil {
			fail(c, http.StatusBadRequest, "image file is required")
			return
		}
		defer file.Close()

		image, err := io.ReadAll(io.LimitReader(file, maxReceiptSize+1))
		if err != nil {
			failErr(c, err)
			return
		}
		if len(image) > maxReceiptSize {
			fail(c, http.StatusRequestEntityTooLarge, "image is too large")
			return
		}
		mimeType := header.Header.Get("Content-Type")
		if !strings.HasPrefix(mimeType, "image/") {
			mimeType = http.DetectContentType(image)
		}

		items, err := parser.Parse(c.Request.Context(), image, mimeType)
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "receipt parsed", gin.H{"items": items})
	}
}

// ExtractHandler pulls entities and relationships out of free text and
// stores them in the graph.
func ExtractHandler(extractor *ai.Extractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if extractor == nil {
			fail(c, http.StatusServiceUnavailable, "entity extraction is not configured")
			return
		}
		var req extractRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			fail(c, http.StatusBadRequest, "text is required")
			return
		}
		userID, err := owner(c, req.UserID)
		if err != nil {
			failErr(c, err)
			return
		}
		graph, err := extractor.Extract(c.Request.Context(), userID, req.Text)
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "entities extracted", gin.H{"graph": graph})
	}
}
