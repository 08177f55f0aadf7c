package nlu

import (
	"time"

	"github.com/Veraticus/penny/internal/model"
	"github.com/shopspring/decimal"
)

// Slots are the typed values extracted from one message.
type Slots struct {
	SubscriptionDate SubscriptionDate    `json:"subscription_date"`
	TransactionDate  time.Time           `json:"transaction_date"`
	Amount           decimal.Decimal     `json:"amount"`
	Currency         model.Currency      `json:"currency"`
	BillingPeriod    model.BillingPeriod `json:"billing_period"`
	Title            string              `json:"title"`
	Category         string              `json:"category,omitempty"`
	HasAmount        bool                `json:"has_amount"`
}

// Analysis is the full NLU result for one message.
type Analysis struct {
	Raw        string       `json:"-"`
	Normalized string       `json:"normalized"`
	Result     IntentResult `json:"result"`
	Slots      Slots        `json:"slots"`
}

// Analyze runs the whole pipeline over a raw message.
func Analyze(raw string, now time.Time) Analysis {
	lang := DetectLanguage(raw)
	lower := NormalizeLower(raw)
	result := Classify(lower, lang)
	return Analysis{
		Raw:        raw,
		Normalized: lower,
		Result:     result,
		Slots:      ExtractSlots(raw, result, now),
	}
}

// ExtractSlots runs every extractor over raw for the given intent. The
// subscription intents read the cost bound to a currency marker; expense and
// income phrasing puts the amount first, so the others read the first number.
func ExtractSlots(raw string, result IntentResult, now time.Time) Slots {
	text := Normalize(raw)
	lower := NormalizeLower(raw)

	var slots Slots
	if result.Intent.IsSubscription() {
		slots.Amount, slots.HasAmount = ExtractSubscriptionCost(lower)
	} else {
		slots.Amount, slots.HasAmount = ExtractCost(lower)
	}
	slots.Currency = DetectCurrency(lower)
	slots.BillingPeriod = DetectBillingPeriod(lower)
	slots.SubscriptionDate = ParseSubscriptionDate(lower, slots.BillingPeriod, result.Lang, now)
	slots.TransactionDate = ParseTransactionDate(lower, now)
	slots.Category, _ = ExtractCategory(text, result.Lang)
	slots.Title = ExtractTitle(lower, slots.Category)
	return slots
}
