package nlu

// Concept is a language-independent meaning with surface forms per language.
type Concept string

// Concepts used by the classifier and the extractors.
const (
	ConceptListSubscriptions   Concept = "list_subscriptions"
	ConceptListExpenses        Concept = "list_expenses"
	ConceptListIncomes         Concept = "list_incomes"
	ConceptListBare            Concept = "list_bare"
	ConceptRemoveVerb          Concept = "remove_verb"
	ConceptAddVerb             Concept = "add_verb"
	ConceptSubscriptionNoun    Concept = "subscription_noun"
	ConceptExpenseNoun         Concept = "expense_noun"
	ConceptIncomeNoun          Concept = "income_noun"
	ConceptExpenseTrigger      Concept = "expense_trigger"
	ConceptIncomeTrigger       Concept = "income_trigger"
	ConceptIncomePhrase        Concept = "income_phrase"
	ConceptSubscriptionTrigger Concept = "subscription_trigger"
	ConceptGreeting            Concept = "greeting"
	ConceptCancel              Concept = "cancel"
	ConceptSkip                Concept = "skip"
	ConceptYearly              Concept = "yearly"
	ConceptCategoryLabel       Concept = "category_label"
)

// Lexicon maps a concept to its surface tokens, all lowercase, per language.
type Lexicon map[Concept]map[Lang][]string

// Tokens returns the surface forms of c across every language, Russian first.
func (lx Lexicon) Tokens(c Concept) []string {
	forms := lx[c]
	out := make([]string, 0, len(forms[LangRU])+len(forms[LangEN])+len(forms[LangKO]))
	for _, l := range []Lang{LangRU, LangEN, LangKO} {
		out = append(out, forms[l]...)
	}
	return out
}

// Has reports whether text mentions c as a whole token in any language.
func (lx Lexicon) Has(text string, c Concept) bool {
	return containsAnyToken(text, lx.Tokens(c))
}

// Contains reports whether text contains any surface form of c as a substring.
func (lx Lexicon) Contains(text string, c Concept) bool {
	return containsAnySubstring(text, lx.Tokens(c))
}

// DefaultLexicon is the vocabulary shipped with the bot.
var DefaultLexicon = Lexicon{
	ConceptListSubscriptions: {
		LangRU: {"мои подписки", "список подписок", "покажи подписки", "показать подписки", "все подписки"},
		LangEN: {"my subscriptions", "list subscriptions", "show subscriptions", "subscription list", "/subscriptions", "/subs"},
		LangKO: {"구독 목록", "내 구독", "구독 보기", "구독 리스트"},
	},
	ConceptListExpenses: {
		LangRU: {"мои расходы", "список расходов", "покажи расходы", "показать расходы", "все расходы", "мои траты", "покажи траты"},
		LangEN: {"my expenses", "list expenses", "show expenses", "expense list", "/expenses"},
		LangKO: {"지출 목록", "내 지출", "지출 보기", "지출 내역"},
	},
	ConceptListIncomes: {
		LangRU: {"мои доходы", "список доходов", "покажи доходы", "показать доходы", "все доходы"},
		LangEN: {"my income", "list income", "show income", "income list", "/incomes", "/income"},
		LangKO: {"수입 목록", "내 수입", "수입 보기", "수입 내역"},
	},
	ConceptListBare: {
		LangRU: {"список", "покажи", "показать"},
		LangEN: {"list", "show"},
		LangKO: {"목록", "보기"},
	},
	ConceptRemoveVerb: {
		LangRU: {"удали", "удалить", "удалите", "удаляй", "убери", "убрать", "уберите"},
		LangEN: {"delete", "remove", "drop"},
		LangKO: {"삭제", "삭제해", "삭제해줘", "지워", "지워줘", "제거"},
	},
	ConceptAddVerb: {
		LangRU: {"добавь", "добавить", "добавьте", "добавляю", "запиши", "записать", "запишите", "внеси", "новая", "новый"},
		LangEN: {"add", "create", "new", "track", "save", "record"},
		LangKO: {"추가", "추가해", "추가해줘", "등록", "등록해줘", "저장"},
	},
	ConceptSubscriptionNoun: {
		LangRU: {"подписка", "подписку", "подписки", "подписок", "подписке", "подпиской"},
		LangEN: {"subscription", "subscriptions", "sub", "subs"},
		LangKO: {"구독"},
	},
	ConceptExpenseNoun: {
		LangRU: {"расход", "расходы", "расхода", "расходов", "трата", "траты", "трату", "трат"},
		LangEN: {"expense", "expenses", "spending"},
		LangKO: {"지출"},
	},
	ConceptIncomeNoun: {
		LangRU: {"доход", "доходы", "дохода", "доходов"},
		LangEN: {"income", "incomes", "earning", "earnings"},
		LangKO: {"수입"},
	},
	ConceptExpenseTrigger: {
		LangRU: {"расход", "трата", "трату", "потратил", "потратила", "потратили", "купил", "купила", "заплатил", "заплатила", "оплатил", "оплатила"},
		LangEN: {"expense", "spent", "spend", "paid", "bought"},
		LangKO: {"지출", "썼어", "샀어", "결제", "결제했어"},
	},
	ConceptIncomeTrigger: {
		LangRU: {"доход", "получил", "получила", "заработал", "заработала", "зарплата", "зарплату", "премия", "премию"},
		LangEN: {"income", "earned", "received", "salary", "got paid"},
		LangKO: {"수입", "월급", "받았어", "벌었어"},
	},
	ConceptIncomePhrase: {
		LangRU: {"мне заплатили", "заплатили мне", "мне оплатили"},
		LangEN: {"got paid", "get paid", "was paid", "paid me", "payday"},
	},
	ConceptSubscriptionTrigger: {
		LangRU: {"подписка", "подписку", "подписки", "подписок"},
		LangEN: {"subscription", "subscribe", "subscribed"},
		LangKO: {"구독"},
	},
	ConceptGreeting: {
		LangRU: {"привет", "здравствуй", "здравствуйте", "добрый день", "добрый вечер", "доброе утро", "хай"},
		LangEN: {"hi", "hello", "hey", "good morning", "good evening"},
		LangKO: {"안녕", "안녕하세요", "하이"},
	},
	ConceptCancel: {
		LangRU: {"отмена", "отменить", "отмени", "стоп", "хватит"},
		LangEN: {"cancel", "stop", "abort", "nevermind", "never mind"},
		LangKO: {"취소", "그만"},
	},
	ConceptSkip: {
		LangRU: {"пропустить", "пропусти", "пропуск", "дальше"},
		LangEN: {"skip", "next"},
		LangKO: {"건너뛰기", "스킵", "패스"},
	},
	ConceptYearly: {
		LangRU: {"в год", "ежегодно", "ежегодная", "ежегодный", "годовая", "годовой", "раз в год", "/год"},
		LangEN: {"yearly", "annual", "annually", "per year", "a year", "/year", "/yr"},
		LangKO: {"매년", "연간", "1년"},
	},
	ConceptCategoryLabel: {
		LangRU: {"категория", "категории", "категорию", "категорией"},
		LangEN: {"category", "cat"},
		LangKO: {"카테고리", "분류"},
	},
}
