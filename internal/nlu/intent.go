package nlu

import "strings"

// Intent is the classified user goal.
type Intent string

// Intent vocabulary.
const (
	IntentStart              Intent = "start"
	IntentHelp               Intent = "help"
	IntentCancel             Intent = "cancel"
	IntentSubscriptionList   Intent = "subscription_list"
	IntentExpenseList        Intent = "expense_list"
	IntentIncomeList         Intent = "income_list"
	IntentSubscriptionRemove Intent = "subscription_remove"
	IntentExpenseRemove      Intent = "expense_remove"
	IntentIncomeRemove       Intent = "income_remove"
	IntentRemove             Intent = "remove"
	IntentExpenseAdd         Intent = "expense_add"
	IntentIncomeAdd          Intent = "income_add"
	IntentSubscriptionAdd    Intent = "subscription_add"
	IntentAdd                Intent = "add"
	IntentGreet              Intent = "greet"
	IntentAddAmbiguous       Intent = "add_ambiguous"
	IntentUnknown            Intent = "unknown"
)

// IsAdd reports whether the intent creates a record.
func (i Intent) IsAdd() bool {
	switch i {
	case IntentExpenseAdd, IntentIncomeAdd, IntentSubscriptionAdd, IntentAdd:
		return true
	}
	return false
}

// IsSubscription reports whether the intent targets subscriptions, including
// the legacy add and remove intents.
func (i Intent) IsSubscription() bool {
	switch i {
	case IntentSubscriptionAdd, IntentAdd, IntentSubscriptionList, IntentSubscriptionRemove, IntentRemove:
		return true
	}
	return false
}

// IntentResult is the classifier output for one message. Confidence is a
// heuristic weight used for clarification thresholds, not a probability.
type IntentResult struct {
	Intent     Intent  `json:"intent"`
	Lang       Lang    `json:"lang"`
	Confidence float64 `json:"confidence"`
}

// Rule is one entry of the ordered classification cascade.
type Rule struct {
	Match      func(text string, lx Lexicon) bool
	Name       string
	Intent     Intent
	Confidence float64
}

// Classifier evaluates rules in order; the first matching rule wins.
type Classifier struct {
	lexicon Lexicon
	rules   []Rule
}

// NewClassifier creates a classifier over the given lexicon and rules.
func NewClassifier(lx Lexicon, rules []Rule) *Classifier {
	return &Classifier{lexicon: lx, rules: rules}
}

// Classify maps normalized, lowercased text to an intent.
func (c *Classifier) Classify(text string, lang Lang) IntentResult {
	text = strings.TrimSpace(text)
	for _, r := range c.rules {
		if r.Match(text, c.lexicon) {
			return IntentResult{Intent: r.Intent, Confidence: r.Confidence, Lang: lang}
		}
	}
	return IntentResult{Intent: IntentUnknown, Confidence: unknownConfidence, Lang: lang}
}

// Rules returns the classifier's rules in evaluation order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

const unknownConfidence = 0.1

var defaultClassifier = NewClassifier(DefaultLexicon, DefaultRules)

// Classify runs the default rule cascade over normalized, lowercased text.
func Classify(text string, lang Lang) IntentResult {
	return defaultClassifier.Classify(text, lang)
}

// DefaultRules is the shipped rule cascade, highest priority first.
var DefaultRules = []Rule{
	{Name: "command_start", Intent: IntentStart, Confidence: 1.0, Match: command("start")},
	{Name: "command_help", Intent: IntentHelp, Confidence: 1.0, Match: command("help")},
	{Name: "command_cancel", Intent: IntentCancel, Confidence: 1.0, Match: command("cancel")},

	{Name: "list_subscriptions", Intent: IntentSubscriptionList, Confidence: 0.95, Match: contains(ConceptListSubscriptions)},
	{Name: "list_expenses", Intent: IntentExpenseList, Confidence: 0.95, Match: contains(ConceptListExpenses)},
	{Name: "list_incomes", Intent: IntentIncomeList, Confidence: 0.95, Match: contains(ConceptListIncomes)},

	{Name: "remove_subscription", Intent: IntentSubscriptionRemove, Confidence: 0.9, Match: removeWith(ConceptSubscriptionNoun)},
	{Name: "remove_expense", Intent: IntentExpenseRemove, Confidence: 0.9, Match: removeWith(ConceptExpenseNoun)},
	{Name: "remove_income", Intent: IntentIncomeRemove, Confidence: 0.9, Match: removeWith(ConceptIncomeNoun)},
	{Name: "remove_legacy", Intent: IntentRemove, Confidence: 0.7, Match: has(ConceptRemoveVerb)},

	{Name: "add_expense", Intent: IntentExpenseAdd, Confidence: 0.9, Match: expenseTrigger},
	{Name: "add_income", Intent: IntentIncomeAdd, Confidence: 0.9, Match: incomeTrigger},
	{Name: "add_subscription", Intent: IntentSubscriptionAdd, Confidence: 0.85, Match: has(ConceptSubscriptionTrigger)},

	{Name: "greeting", Intent: IntentGreet, Confidence: 0.8, Match: has(ConceptGreeting)},

	{Name: "money_with_add_verb", Intent: IntentSubscriptionAdd, Confidence: 0.6, Match: moneyWithAddVerb},
	{Name: "money_without_category", Intent: IntentAddAmbiguous, Confidence: 0.45, Match: moneyWithoutCategory},

	{Name: "list_bare", Intent: IntentSubscriptionList, Confidence: 0.55, Match: has(ConceptListBare)},
}

func command(name string) func(string, Lexicon) bool {
	return func(text string, _ Lexicon) bool {
		cmd, ok := SlashCommand(text)
		return ok && cmd == name
	}
}

// expenseTrigger rejects income phrases that reuse an expense word
// ("got paid").
func expenseTrigger(text string, lx Lexicon) bool {
	return lx.Has(text, ConceptExpenseTrigger) && !lx.Has(text, ConceptIncomePhrase)
}

func incomeTrigger(text string, lx Lexicon) bool {
	return lx.Has(text, ConceptIncomeTrigger) || lx.Has(text, ConceptIncomePhrase)
}

func contains(c Concept) func(string, Lexicon) bool {
	return func(text string, lx Lexicon) bool {
		return lx.Contains(text, c)
	}
}

func has(c Concept) func(string, Lexicon) bool {
	return func(text string, lx Lexicon) bool {
		return lx.Has(text, c)
	}
}

func removeWith(c Concept) func(string, Lexicon) bool {
	return func(text string, lx Lexicon) bool {
		return lx.Has(text, ConceptRemoveVerb) && lx.Has(text, c)
	}
}

// looksLikeMoney requires a digit and a currency marker.
func looksLikeMoney(text string) bool {
	if !hasDigit(text) {
		return false
	}
	_, ok := matchCurrency(text)
	return ok
}

func hasCategoryNoun(text string, lx Lexicon) bool {
	return lx.Has(text, ConceptSubscriptionNoun) || lx.Has(text, ConceptExpenseNoun) || lx.Has(text, ConceptIncomeNoun)
}

func moneyWithAddVerb(text string, lx Lexicon) bool {
	return looksLikeMoney(text) && lx.Has(text, ConceptAddVerb)
}

func moneyWithoutCategory(text string, lx Lexicon) bool {
	return looksLikeMoney(text) && !lx.Has(text, ConceptAddVerb) && !hasCategoryNoun(text, lx)
}

// SlashCommand returns the command name of a message starting with "/", with
// any "@botname" suffix removed.
func SlashCommand(text string) (string, bool) {
	text = strings.TrimSpace(strings.ToLower(text))
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	name := strings.TrimPrefix(strings.Fields(text)[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return "", false
	}
	return name, true
}

// IsCancel reports whether the whole message is a cancel word.
func IsCancel(text string) bool {
	return isWholeConcept(text, ConceptCancel)
}

// IsSkip reports whether the whole message is a skip word.
func IsSkip(text string) bool {
	return isWholeConcept(text, ConceptSkip)
}

func isWholeConcept(text string, c Concept) bool {
	text = strings.Trim(NormalizeLower(text), keptPunctuation+" ")
	for _, tok := range DefaultLexicon.Tokens(c) {
		if text == tok {
			return true
		}
	}
	return false
}
