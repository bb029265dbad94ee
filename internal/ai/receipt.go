package ai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/fintrack/internal/money"
)

const receiptPrompt = `You are reading a shop receipt. Return only a JSON array, no prose.
Each element must be an object {"category": string, "amount": number, "note": string}.
Group purchases into spending categories such as Food, Transport, Health, Home, Entertainment.
Use the total paid per category as "amount" and list the items in "note".`

type ReceiptItem struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note"`
}

type rawReceiptItem struct {
	Category string          `json:"category"`
	Amount   json.RawMessage `json:"amount"`
	Note     string          `json:"note"`
}

type ReceiptParser struct {
	gen Generator
	log *slog.Logger
}

func NewReceiptParser(gen Generator, logger *slog.Logger) *ReceiptParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReceiptParser{gen: gen, log: logger.With("component", "receipt")}
}

// Parse asks the model to itemize the receipt image. Output that cannot be
// decoded yields an empty result rather than an error; only a failed model
// call is reported.
func (p *ReceiptParser) Parse(ctx context.Context, image []byte, mimeType string) ([]ReceiptItem, error) {
	raw, err := p.gen.Generate(ctx, receiptPrompt, image, mimeType)
	if err != nil {
		return nil, err
	}
	items := ParseReceiptItems(raw)
	p.log.Debug("receipt parsed", "items", len(items))
	return items, nil
}

// ParseReceiptItems decodes the model output. If the first attempt fails,
// quotes are normalized and decoding is retried once. Items whose amount is
// not a positive number are dropped.
func ParseReceiptItems(raw string) []ReceiptItem {
	body := extractJSON(raw, '[', ']')

	var decoded []rawReceiptItem
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		if err := json.Unmarshal([]byte(normalizeQuotes(body)), &decoded); err != nil {
			return []ReceiptItem{}
		}
	}

	items := make([]ReceiptItem, 0, len(decoded))
	for _, d := range decoded {
		amount, err := money.ParsePositive(strings.Trim(string(d.Amount), `"`))
		if err != nil {
			continue
		}
		category := strings.TrimSpace(d.Category)
		if category == "" {
			category = "Other"
		}
		items = append(items, ReceiptItem{Category: category, Amount: amount, Note: strings.TrimSpace(d.Note)})
	}
	return items
}

// extractJSON cuts the outermost open..close span out of raw, dropping
// markdown fences and any prose around it.
func extractJSON(raw string, open, close byte) string {
	start := strings.IndexByte(raw, open)
	end := strings.LastIndexByte(raw, close)
	if start < 0 || end < start {
		return strings.TrimSpace(raw)
	}
	return raw[start : end+1]
}

var quoteReplacer = strings.NewReplacer(
	"'", `"`,
	"“", `"`,
	"”", `"`,
	"‘", `"`,
	"’", `"`,
)

func normalizeQuotes(s string) string {
	return quoteReplacer.Replace(s)
}
