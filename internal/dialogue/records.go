package dialogue

import (
	"strings"
	"time"

	"github.com/Veraticus/penny/internal/model"
	"github.com/Veraticus/penny/internal/nlu"
	"github.com/Veraticus/penny/internal/session"
	"github.com/shopspring/decimal"
)

func listKind(intent nlu.Intent) model.RecordKind {
	switch intent {
	case nlu.IntentExpenseList:
		return model.KindExpense
	case nlu.IntentIncomeList:
		return model.KindIncome
	}
	return model.KindSubscription
}

// removeKind maps a removal intent to its kind. The legacy "remove"
// intent removes subscriptions.
func removeKind(intent nlu.Intent) model.RecordKind {
	switch intent {
	case nlu.IntentExpenseRemove:
		return model.KindExpense
	case nlu.IntentIncomeRemove:
		return model.KindIncome
	}
	return model.KindSubscription
}

// addKind maps an add intent to its kind. The legacy "add" intent adds a
// subscription.
func addKind(intent nlu.Intent) model.RecordKind {
	switch intent {
	case nlu.IntentExpenseAdd:
		return model.KindExpense
	case nlu.IntentIncomeAdd:
		return model.KindIncome
	}
	return model.KindSubscription
}

func intentForKind(kind model.RecordKind) nlu.Intent {
	switch kind {
	case model.KindExpense:
		return nlu.IntentExpenseAdd
	case model.KindIncome:
		return nlu.IntentIncomeAdd
	}
	return nlu.IntentSubscriptionAdd
}

func removeIntentForKind(kind model.RecordKind) nlu.Intent {
	switch kind {
	case model.KindExpense:
		return nlu.IntentExpenseRemove
	case model.KindIncome:
		return nlu.IntentIncomeRemove
	}
	return nlu.IntentSubscriptionRemove
}

var kindChoiceConcepts = []struct {
	kind     model.RecordKind
	number   string
	concepts []nlu.Concept
}{
	{kind: model.KindExpense, number: "1", concepts: []nlu.Concept{nlu.ConceptExpenseNoun, nlu.ConceptExpenseTrigger}},
	{kind: model.KindIncome, number: "2", concepts: []nlu.Concept{nlu.ConceptIncomeNoun, nlu.ConceptIncomeTrigger}},
	{kind: model.KindSubscription, number: "3", concepts: []nlu.Concept{nlu.ConceptSubscriptionNoun, nlu.ConceptSubscriptionTrigger}},
}

// resolveKindChoice reads an answer to the type question. Exactly one kind
// must match.
func resolveKindChoice(lower string) (model.RecordKind, bool) {
	answer := strings.Trim(strings.TrimSpace(lower), ".)")
	for _, c := range kindChoiceConcepts {
		if answer == c.number {
			return c.kind, true
		}
	}

	var found []model.RecordKind
	for _, c := range kindChoiceConcepts {
		for _, concept := range c.concepts {
			if nlu.DefaultLexicon.Has(lower, concept) {
				found = append(found, c.kind)
				break
			}
		}
	}
	if len(found) != 1 {
		return "", false
	}
	return found[0], true
}

func draftFromSlots(kind model.RecordKind, slots nlu.Slots) session.Draft {
	return session.Draft{
		Kind:            kind,
		Cost:            slots.Amount,
		HasCost:         slots.HasAmount,
		Currency:        slots.Currency,
		BillingPeriod:   slots.BillingPeriod,
		Category:        slots.Category,
		TransactionDate: slots.TransactionDate,
	}
}

func recordFromSlots(kind model.RecordKind, chatID string, slots nlu.Slots, now time.Time) model.Record {
	draft := draftFromSlots(kind, slots)
	draft.Name = slots.Title
	return recordFromDraft(draft, chatID, slots.SubscriptionDate, now)
}

// recordFromDraft builds the record a finished draft describes. date is
// only used for subscriptions.
func recordFromDraft(d session.Draft, chatID string, date nlu.SubscriptionDate, now time.Time) model.Record {
	amount := d.Cost
	if !d.HasCost {
		amount = decimal.Zero
	}
	currency := d.Currency
	if currency.Code == "" {
		currency = model.DefaultCurrency
	}
	on := d.TransactionDate
	if on.IsZero() {
		on = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}

	switch d.Kind {
	case model.KindExpense:
		return &model.Expense{
			ChatID: chatID, Title: d.Name, Amount: amount, Currency: currency,
			Category: d.Category, SpentAt: on, CreatedAt: now,
		}
	case model.KindIncome:
		return &model.Income{
			ChatID: chatID, Title: d.Name, Amount: amount, Currency: currency,
			Category: d.Category, ReceivedAt: on, CreatedAt: now,
		}
	}
	period := d.BillingPeriod
	if period == "" {
		period = model.BillingMonthly
	}
	return &model.Subscription{
		ChatID:          chatID,
		Name:            d.Name,
		Cost:            amount,
		Currency:        currency,
		BillingPeriod:   period,
		NextPaymentDate: date.Date,
		RecurrenceLabel: date.Recurrence,
		Category:        d.Category,
		CreatedAt:       now,
	}
}
