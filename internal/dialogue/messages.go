package dialogue

import (
	"fmt"

	"github.com/Veraticus/penny/internal/model"
	"github.com/Veraticus/penny/internal/nlu"
)

// MessageKey names a reply template. Transports that render their own
// text can switch on it instead of Reply.Text.
type MessageKey string

// Reply templates.
const (
	MsgWelcome              MessageKey = "welcome"
	MsgHelp                 MessageKey = "help"
	MsgPrivacy              MessageKey = "privacy"
	MsgBroadcastDenied      MessageKey = "broadcast_denied"
	MsgGreeting             MessageKey = "greeting"
	MsgCancelled            MessageKey = "cancelled"
	MsgUnknown              MessageKey = "unknown"
	MsgListEmpty            MessageKey = "list_empty"
	MsgListHeader           MessageKey = "list_header"
	MsgAskName              MessageKey = "ask_name"
	MsgNameTooShort         MessageKey = "name_too_short"
	MsgAskCost              MessageKey = "ask_cost"
	MsgCostNotUnderstood    MessageKey = "cost_not_understood"
	MsgAskDate              MessageKey = "ask_date"
	MsgMissingAmount        MessageKey = "missing_amount"
	MsgMissingTitle         MessageKey = "missing_title"
	MsgAskType              MessageKey = "ask_type"
	MsgTypeNotUnderstood    MessageKey = "type_not_understood"
	MsgSubscriptionAdded    MessageKey = "subscription_added"
	MsgExpenseAdded         MessageKey = "expense_added"
	MsgIncomeAdded          MessageKey = "income_added"
	MsgRemoveNeedsName      MessageKey = "remove_needs_name"
	MsgNotFound             MessageKey = "not_found"
	MsgAskRemovalChoice     MessageKey = "ask_removal_choice"
	MsgRemovalChoiceInvalid MessageKey = "removal_choice_invalid"
	MsgRemoved              MessageKey = "removed"
	MsgNameTooLong          MessageKey = "name_too_long"
	MsgAmountOutOfRange     MessageKey = "amount_out_of_range"
	MsgGenericError         MessageKey = "generic_error"
	MsgTranscriptionFailed  MessageKey = "transcription_failed"
)

var catalog = map[MessageKey]map[nlu.Lang]string{
	MsgWelcome: {
		nlu.LangRU: "Привет! Я помогу учитывать подписки, расходы и доходы. Напишите, например: «Добавь Netflix 10000 вон 12 числа» или «Расход 12000 вон кафе сегодня».",
		nlu.LangEN: "Hi! I track your subscriptions, expenses and income. Try \"add Netflix 13$ on the 12th\" or \"spent 15$ on lunch today\".",
		nlu.LangKO: "안녕하세요! 구독, 지출, 수입을 기록해 드려요. 예: \"넷플릭스 13500원 12일 추가\" 또는 \"지출 점심 9000원\".",
	},
	MsgHelp: {
		nlu.LangRU: "Что я умею:\n• добавить подписку: «Добавь Spotify 199 руб 5 числа»\n• записать расход: «Расход 12000 вон кафе»\n• записать доход: «Доход 500000 вон зарплата»\n• показать: «мои подписки», «мои расходы», «мои доходы»\n• удалить: «удали подписку Netflix»\n• отменить: /cancel",
		nlu.LangEN: "What I can do:\n• add a subscription: \"add Spotify 10$ on the 5th\"\n• log an expense: \"spent 15$ on lunch\"\n• log income: \"income 3000$ salary\"\n• show: \"my subscriptions\", \"my expenses\", \"my income\"\n• remove: \"delete subscription Netflix\"\n• cancel: /cancel",
		nlu.LangKO: "할 수 있는 일:\n• 구독 추가: \"넷플릭스 13500원 12일 추가\"\n• 지출 기록: \"지출 점심 9000원\"\n• 수입 기록: \"수입 월급 3000000원\"\n• 보기: \"내 구독\", \"내 지출\", \"내 수입\"\n• 삭제: \"구독 삭제 넷플릭스\"\n• 취소: /cancel",
	},
	MsgPrivacy: {
		nlu.LangRU: "Я храню только то, что вы просите записать: названия, суммы, даты и категории. Текст сообщений не сохраняется в журналах.",
		nlu.LangEN: "I only keep what you ask me to record: names, amounts, dates and categories. Message text is never written to logs.",
		nlu.LangKO: "기록을 요청하신 이름, 금액, 날짜, 분류만 저장합니다. 메시지 내용은 로그에 남지 않습니다.",
	},
	MsgBroadcastDenied: {
		nlu.LangRU: "Рассылка доступна только администратору.",
		nlu.LangEN: "Broadcasts are available to the administrator only.",
		nlu.LangKO: "공지 발송은 관리자만 할 수 있어요.",
	},
	MsgGreeting: {
		nlu.LangRU: "Привет! Чем помочь? Напишите /help, чтобы увидеть примеры.",
		nlu.LangEN: "Hello! How can I help? Send /help for examples.",
		nlu.LangKO: "안녕하세요! /help 로 예시를 볼 수 있어요.",
	},
	MsgCancelled: {
		nlu.LangRU: "Хорошо, отменил.",
		nlu.LangEN: "Okay, cancelled.",
		nlu.LangKO: "취소했어요.",
	},
	MsgUnknown: {
		nlu.LangRU: "Не понял сообщение. Напишите /help, чтобы увидеть примеры.",
		nlu.LangEN: "I didn't understand that. Send /help for examples.",
		nlu.LangKO: "이해하지 못했어요. /help 로 예시를 확인하세요.",
	},
	MsgListEmpty: {
		nlu.LangRU: "Список «%s» пуст.",
		nlu.LangEN: "You have no %s yet.",
		nlu.LangKO: "%s 내역이 없어요.",
	},
	MsgListHeader: {
		nlu.LangRU: "Ваши записи «%s»:",
		nlu.LangEN: "Your %s:",
		nlu.LangKO: "%s 목록:",
	},
	MsgAskName: {
		nlu.LangRU: "Как называется?",
		nlu.LangEN: "What is it called?",
		nlu.LangKO: "이름이 뭔가요?",
	},
	MsgNameTooShort: {
		nlu.LangRU: "Название должно быть не короче 2 символов. Как называется?",
		nlu.LangEN: "The name needs at least 2 characters. What is it called?",
		nlu.LangKO: "이름은 2자 이상이어야 해요. 이름이 뭔가요?",
	},
	MsgAskCost: {
		nlu.LangRU: "Сколько стоит «%s»? Например: 10000 вон",
		nlu.LangEN: "How much is %q? For example: 10$",
		nlu.LangKO: "%s 금액은 얼마인가요? 예: 13500원",
	},
	MsgCostNotUnderstood: {
		nlu.LangRU: "Не нашёл сумму. Напишите число, например: 10000 вон",
		nlu.LangEN: "I couldn't find an amount. Send a number, for example: 10$",
		nlu.LangKO: "금액을 찾지 못했어요. 예: 13500원",
	},
	MsgAskDate: {
		nlu.LangRU: "Когда следующий платёж? Например: 12 числа, 25.03, завтра. Или «пропустить».",
		nlu.LangEN: "When is the next payment? For example: the 12th, 25.03, tomorrow. Or \"skip\".",
		nlu.LangKO: "다음 결제일은 언제인가요? 예: 12일, 4월 10일, 내일. 또는 \"건너뛰기\".",
	},
	MsgMissingAmount: {
		nlu.LangRU: "Не вижу суммы для «%s». Отправьте сообщение ещё раз с суммой.",
		nlu.LangEN: "I don't see an amount for %q. Send the message again with the amount.",
		nlu.LangKO: "%s 금액이 없어요. 금액을 포함해서 다시 보내 주세요.",
	},
	MsgMissingTitle: {
		nlu.LangRU: "Не понял, на что это. Напишите, например: «Расход 12000 вон кафе».",
		nlu.LangEN: "I couldn't tell what it was for. Try \"spent 15$ on lunch\".",
		nlu.LangKO: "무엇에 대한 건지 모르겠어요. 예: \"지출 점심 9000원\".",
	},
	MsgAskType: {
		nlu.LangRU: "Что это: 1) расход, 2) доход, 3) подписка?",
		nlu.LangEN: "What is it: 1 expense, 2 income, 3 subscription?",
		nlu.LangKO: "어떤 항목인가요: 1 지출, 2 수입, 3 구독?",
	},
	MsgTypeNotUnderstood: {
		nlu.LangRU: "Ответьте 1, 2 или 3: расход, доход или подписка.",
		nlu.LangEN: "Reply 1, 2 or 3: expense, income or subscription.",
		nlu.LangKO: "1, 2, 3 중에 답해 주세요: 지출, 수입, 구독.",
	},
	MsgSubscriptionAdded: {
		nlu.LangRU: "Добавил подписку «%s»: %s, %s. Следующий платёж %s.",
		nlu.LangEN: "Added subscription %q: %s, %s. Next payment %s.",
		nlu.LangKO: "구독 %s 추가: %s, %s. 다음 결제일 %s.",
	},
	MsgExpenseAdded: {
		nlu.LangRU: "Записал расход «%s»: %s, %s.",
		nlu.LangEN: "Logged expense %q: %s on %s.",
		nlu.LangKO: "지출 %s 기록: %s, %s.",
	},
	MsgIncomeAdded: {
		nlu.LangRU: "Записал доход «%s»: %s, %s.",
		nlu.LangEN: "Logged income %q: %s on %s.",
		nlu.LangKO: "수입 %s 기록: %s, %s.",
	},
	MsgRemoveNeedsName: {
		nlu.LangRU: "Что удалить? Например: «удали подписку Netflix».",
		nlu.LangEN: "What should I remove? For example: \"delete subscription Netflix\".",
		nlu.LangKO: "무엇을 삭제할까요? 예: \"구독 삭제 넷플릭스\".",
	},
	MsgNotFound: {
		nlu.LangRU: "Не нашёл «%s».",
		nlu.LangEN: "I couldn't find %q.",
		nlu.LangKO: "%s 항목을 찾지 못했어요.",
	},
	MsgAskRemovalChoice: {
		nlu.LangRU: "Нашёл несколько. Какую удалить? Ответьте номером или названием:",
		nlu.LangEN: "I found several. Which one should I remove? Reply with a number or the name:",
		nlu.LangKO: "여러 개를 찾았어요. 번호나 이름으로 골라 주세요:",
	},
	MsgRemovalChoiceInvalid: {
		nlu.LangRU: "Такого варианта нет. Ответьте номером из списка или точным названием.",
		nlu.LangEN: "That is not one of the options. Reply with a number from the list or the exact name.",
		nlu.LangKO: "목록에 없는 선택이에요. 번호나 정확한 이름으로 답해 주세요.",
	},
	MsgRemoved: {
		nlu.LangRU: "Удалил «%s».",
		nlu.LangEN: "Removed %q.",
		nlu.LangKO: "%s 삭제했어요.",
	},
	MsgNameTooLong: {
		nlu.LangRU: "Название длиннее %d символов. Начните заново с более коротким названием.",
		nlu.LangEN: "The name is longer than %d characters. Start again with a shorter name.",
		nlu.LangKO: "이름이 %d자를 넘어요. 더 짧은 이름으로 다시 시작해 주세요.",
	},
	MsgAmountOutOfRange: {
		nlu.LangRU: "Сумма должна быть от 0 до %s. Начните заново.",
		nlu.LangEN: "The amount must be between 0 and %s. Please start again.",
		nlu.LangKO: "금액은 0에서 %s 사이여야 해요. 다시 시작해 주세요.",
	},
	MsgGenericError: {
		nlu.LangRU: "Что-то пошло не так. Попробуйте ещё раз.",
		nlu.LangEN: "Something went wrong. Please try again.",
		nlu.LangKO: "문제가 발생했어요. 다시 시도해 주세요.",
	},
	MsgTranscriptionFailed: {
		nlu.LangRU: "Не удалось распознать голосовое сообщение. Попробуйте ещё раз или напишите текстом.",
		nlu.LangEN: "I couldn't transcribe the voice message. Try again or type it.",
		nlu.LangKO: "음성 메시지를 인식하지 못했어요. 다시 시도하거나 글로 보내 주세요.",
	},
}

var kindLabels = map[model.RecordKind]map[nlu.Lang]string{
	model.KindSubscription: {nlu.LangRU: "подписки", nlu.LangEN: "subscriptions", nlu.LangKO: "구독"},
	model.KindExpense:      {nlu.LangRU: "расходы", nlu.LangEN: "expenses", nlu.LangKO: "지출"},
	model.KindIncome:       {nlu.LangRU: "доходы", nlu.LangEN: "income", nlu.LangKO: "수입"},
}

var recordLines = map[model.RecordKind]map[nlu.Lang]string{
	model.KindSubscription: {
		nlu.LangRU: "%d. %s: %s, %s (следующий платёж %s)",
		nlu.LangEN: "%d. %s: %s, %s (next payment %s)",
		nlu.LangKO: "%d. %s: %s, %s (다음 결제일 %s)",
	},
	model.KindExpense: {
		nlu.LangRU: "%d. %s: %s, %s",
		nlu.LangEN: "%d. %s: %s, %s",
		nlu.LangKO: "%d. %s: %s, %s",
	},
	model.KindIncome: {
		nlu.LangRU: "%d. %s: %s, %s",
		nlu.LangEN: "%d. %s: %s, %s",
		nlu.LangKO: "%d. %s: %s, %s",
	},
}

const dateLayout = "2006-01-02"

// render formats the template for key in lang, falling back to Russian.
func render(key MessageKey, lang nlu.Lang, args ...any) string {
	return sprintf(lookup(catalog[key], lang), args...)
}

func kindLabel(kind model.RecordKind, lang nlu.Lang) string {
	return lookup(kindLabels[kind], lang)
}

func lookup(forms map[nlu.Lang]string, lang nlu.Lang) string {
	if s, ok := forms[lang]; ok {
		return s
	}
	return forms[nlu.LangRU]
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// formatRecord renders one list line.
func formatRecord(n int, rec model.Record, lang nlu.Lang) string {
	format := lookup(recordLines[rec.Kind()], lang)
	switch r := rec.(type) {
	case *model.Subscription:
		return fmt.Sprintf(format, n, r.Name, model.FormatAmount(r.Cost, r.Currency), r.RecurrenceLabel, r.NextPaymentDate.Format(dateLayout))
	case *model.Expense:
		return fmt.Sprintf(format, n, r.Title, model.FormatAmount(r.Amount, r.Currency), r.SpentAt.Format(dateLayout))
	case *model.Income:
		return fmt.Sprintf(format, n, r.Title, model.FormatAmount(r.Amount, r.Currency), r.ReceivedAt.Format(dateLayout))
	}
	return fmt.Sprintf("%d. %s", n, rec.DisplayName())
}
