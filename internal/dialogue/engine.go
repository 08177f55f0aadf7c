package dialogue

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Veraticus/penny/internal/model"
	"github.com/Veraticus/penny/internal/nlu"
	"github.com/Veraticus/penny/internal/session"
)

// Reply is the outcome of one turn.
type Reply struct {
	Intent     nlu.Intent        `json:"intent"`
	State      session.State     `json:"state"`
	Message    MessageKey        `json:"message"`
	Text       string            `json:"text"`
	Kind       model.RecordKind  `json:"kind,omitempty"`
	RecordID   string            `json:"record_id,omitempty"`
	Records    []model.Record    `json:"records,omitempty"`
	Candidates []model.Candidate `json:"candidates,omitempty"`
	Empty      bool              `json:"empty"`
}

// Engine runs the dialogue state machine. Turns for one chat are
// serialized; different chats are handled concurrently.
type Engine struct {
	records     RecordStore
	sessions    session.Store
	transcriber Transcriber
	classifier  *nlu.Classifier
	locks       *session.KeyedMutex
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithTranscriber enables HandleVoice.
func WithTranscriber(t Transcriber) Option {
	return func(e *Engine) { e.transcriber = t }
}

// WithClassifier replaces the default rule cascade.
func WithClassifier(c *nlu.Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// NewEngine creates an engine over a record store and a session store.
func NewEngine(records RecordStore, sessions session.Store, opts ...Option) *Engine {
	e := &Engine{
		records:    records,
		sessions:   sessions,
		classifier: nlu.NewClassifier(nlu.DefaultLexicon, nlu.DefaultRules),
		locks:      session.NewKeyedMutex(),
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// turn carries what one Handle call knows about its message.
type turn struct {
	pending *session.PendingConversation
	chatID  string
	raw     string
	lower   string
	now     time.Time
	lang    nlu.Lang
}

// Handle processes one text message from chatID.
func (e *Engine) Handle(ctx context.Context, chatID, raw string) Reply {
	unlock := e.locks.Lock(chatID)
	defer unlock()

	t := &turn{
		chatID: chatID,
		raw:    raw,
		lower:  nlu.NormalizeLower(raw),
		now:    e.now(),
		lang:   nlu.DetectLanguage(raw),
	}

	pending, err := e.sessions.Get(ctx, chatID)
	if err != nil {
		return e.fail(ctx, t, nlu.IntentUnknown, "load pending conversation", err)
	}
	t.pending = pending

	cmd, isCmd := nlu.SlashCommand(raw)
	if cmd == "cancel" || nlu.IsCancel(raw) {
		return e.cancel(ctx, t)
	}

	if pending != nil {
		if isCmd && (cmd == "start" || cmd == "help") {
			if err := e.sessions.Delete(ctx, chatID); err != nil {
				return e.fail(ctx, t, nlu.IntentUnknown, "clear pending conversation", err)
			}
			t.pending = nil
		} else {
			t.lang = nlu.ParseLang(pending.Lang)
			if isCmd {
				return e.reprompt(t)
			}
			return e.continueConversation(ctx, t)
		}
	}

	if isCmd {
		switch cmd {
		case "privacy":
			return e.reply(t, nlu.IntentUnknown, MsgPrivacy)
		case "broadcast":
			return e.reply(t, nlu.IntentUnknown, MsgBroadcastDenied)
		}
	}
	return e.dispatch(ctx, t)
}

// VoiceEnabled reports whether a Transcriber is configured.
func (e *Engine) VoiceEnabled() bool {
	return e.transcriber != nil
}

// HandleVoice transcribes audio and handles the text. A transcription
// failure resets the chat to idle.
func (e *Engine) HandleVoice(ctx context.Context, chatID string, audio []byte) Reply {
	if e.transcriber == nil {
		return e.voiceFailed(ctx, chatID, ErrNoTranscriber)
	}
	text, err := e.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return e.voiceFailed(ctx, chatID, err)
	}
	if strings.TrimSpace(text) == "" {
		return e.voiceFailed(ctx, chatID, errors.New("empty transcription"))
	}
	return e.Handle(ctx, chatID, text)
}

func (e *Engine) voiceFailed(ctx context.Context, chatID string, err error) Reply {
	unlock := e.locks.Lock(chatID)
	defer unlock()

	e.logger.Error("transcription failed", "chat_id", chatID, "error", err)
	lang := nlu.LangRU
	if pending, getErr := e.sessions.Get(ctx, chatID); getErr == nil && pending != nil {
		lang = nlu.ParseLang(pending.Lang)
	}
	if delErr := e.sessions.Delete(ctx, chatID); delErr != nil {
		e.logger.Error("failed to clear pending conversation", "chat_id", chatID, "error", delErr)
	}
	return Reply{
		Intent:  nlu.IntentUnknown,
		State:   session.StateIdle,
		Message: MsgTranscriptionFailed,
		Text:    render(MsgTranscriptionFailed, lang),
	}
}

func (e *Engine) cancel(ctx context.Context, t *turn) Reply {
	if t.pending != nil {
		if err := e.sessions.Delete(ctx, t.chatID); err != nil {
			return e.fail(ctx, t, nlu.IntentCancel, "clear pending conversation", err)
		}
		t.lang = nlu.ParseLang(t.pending.Lang)
	}
	e.logger.Info("conversation cancelled", "chat_id", t.chatID, "had_pending", t.pending != nil)
	t.pending = nil
	return e.reply(t, nlu.IntentCancel, MsgCancelled)
}

// dispatch handles a message from an idle chat.
func (e *Engine) dispatch(ctx context.Context, t *turn) Reply {
	result := e.classifier.Classify(t.lower, t.lang)
	e.logger.Debug("classified message",
		"chat_id", t.chatID,
		"intent", result.Intent,
		"confidence", result.Confidence,
		"lang", result.Lang)

	switch result.Intent {
	case nlu.IntentStart:
		return e.reply(t, result.Intent, MsgWelcome)
	case nlu.IntentHelp:
		return e.reply(t, result.Intent, MsgHelp)
	case nlu.IntentCancel:
		return e.reply(t, result.Intent, MsgCancelled)
	case nlu.IntentGreet:
		return e.reply(t, result.Intent, MsgGreeting)
	case nlu.IntentSubscriptionList, nlu.IntentExpenseList, nlu.IntentIncomeList:
		return e.list(ctx, t, result.Intent, listKind(result.Intent))
	case nlu.IntentSubscriptionRemove, nlu.IntentExpenseRemove, nlu.IntentIncomeRemove, nlu.IntentRemove:
		return e.remove(ctx, t, result)
	case nlu.IntentSubscriptionAdd, nlu.IntentAdd, nlu.IntentExpenseAdd, nlu.IntentIncomeAdd:
		return e.add(ctx, t, result)
	case nlu.IntentAddAmbiguous:
		return e.addAmbiguous(ctx, t, result)
	}
	return e.reply(t, nlu.IntentUnknown, MsgUnknown)
}

func (e *Engine) continueConversation(ctx context.Context, t *turn) Reply {
	switch t.pending.State {
	case session.StateAwaitingAddName:
		return e.onAddName(ctx, t)
	case session.StateAwaitingAddCost:
		return e.onAddCost(ctx, t)
	case session.StateAwaitingAddDate:
		return e.onAddDate(ctx, t)
	case session.StateAwaitingTypeChoice:
		return e.onTypeChoice(ctx, t)
	case session.StateAwaitingRemovalChoice:
		return e.onRemovalChoice(ctx, t)
	}
	e.logger.Warn("dropping pending conversation in unknown state", "chat_id", t.chatID, "state", t.pending.State)
	if err := e.sessions.Delete(ctx, t.chatID); err != nil {
		return e.fail(ctx, t, nlu.IntentUnknown, "clear pending conversation", err)
	}
	t.pending = nil
	return e.dispatch(ctx, t)
}

// reprompt repeats the pending question. Slash commands are never taken as
// an answer.
func (e *Engine) reprompt(t *turn) Reply {
	p := t.pending
	switch p.State {
	case session.StateAwaitingAddName:
		return e.reply(t, intentForKind(p.Draft.Kind), MsgAskName)
	case session.StateAwaitingAddCost:
		return e.reply(t, intentForKind(p.Draft.Kind), MsgAskCost, p.Draft.Name)
	case session.StateAwaitingAddDate:
		return e.reply(t, nlu.IntentSubscriptionAdd, MsgAskDate)
	case session.StateAwaitingTypeChoice:
		return e.reply(t, nlu.IntentAddAmbiguous, MsgAskType)
	case session.StateAwaitingRemovalChoice:
		r := e.reply(t, removeIntentForKind(p.RemovalKind), MsgAskRemovalChoice)
		r.Kind = p.RemovalKind
		r.Candidates = p.Candidates
		r.Text = r.Text + "\n" + formatCandidates(p.Candidates)
		return r
	}
	return e.reply(t, nlu.IntentUnknown, MsgUnknown)
}

func (e *Engine) list(ctx context.Context, t *turn, intent nlu.Intent, kind model.RecordKind) Reply {
	records, err := e.records.ListRecords(ctx, t.chatID, kind)
	if err != nil {
		return e.fail(ctx, t, intent, "list records", err)
	}

	r := Reply{Intent: intent, State: session.StateIdle, Kind: kind, Records: records}
	label := kindLabel(kind, t.lang)
	if len(records) == 0 {
		r.Empty = true
		r.Message = MsgListEmpty
		r.Text = render(MsgListEmpty, t.lang, label)
		return r
	}

	lines := make([]string, 0, len(records)+1)
	lines = append(lines, render(MsgListHeader, t.lang, label))
	for i, rec := range records {
		lines = append(lines, formatRecord(i+1, rec, t.lang))
	}
	r.Message = MsgListHeader
	r.Text = strings.Join(lines, "\n")
	return r
}

// add handles the *_add intents from idle.
func (e *Engine) add(ctx context.Context, t *turn, result nlu.IntentResult) Reply {
	kind := addKind(result.Intent)
	slots := nlu.ExtractSlots(t.raw, result, t.now)

	if slots.Title == "" {
		draft := draftFromSlots(kind, slots)
		return e.transition(ctx, t, result.Intent, session.StateAwaitingAddName, draft, MsgAskName)
	}
	if !slots.HasAmount {
		return e.reply(t, result.Intent, MsgMissingAmount, slots.Title)
	}
	return e.commit(ctx, t, result.Intent, recordFromSlots(kind, t.chatID, slots, t.now))
}

func (e *Engine) addAmbiguous(ctx context.Context, t *turn, result nlu.IntentResult) Reply {
	slots := nlu.ExtractSlots(t.raw, result, t.now)
	if slots.Title == "" || !slots.HasAmount {
		return e.reply(t, result.Intent, MsgMissingTitle)
	}

	p := e.newPending(t, session.StateAwaitingTypeChoice)
	p.RawText = t.raw
	return e.save(ctx, t, result.Intent, p, MsgAskType)
}

func (e *Engine) onAddName(ctx context.Context, t *turn) Reply {
	name := strings.TrimSpace(nlu.Normalize(t.raw))
	if utf8.RuneCountInString(name) < 2 {
		return e.reply(t, nlu.IntentUnknown, MsgNameTooShort)
	}
	draft := t.pending.Draft
	draft.Name = name
	return e.transition(ctx, t, intentForKind(draft.Kind), session.StateAwaitingAddCost, draft, MsgAskCost, name)
}

func (e *Engine) onAddCost(ctx context.Context, t *turn) Reply {
	draft := t.pending.Draft
	intent := intentForKind(draft.Kind)

	extract := nlu.ExtractCost
	if draft.Kind == model.KindSubscription {
		extract = nlu.ExtractSubscriptionCost
	}
	amount, ok := extract(t.lower)
	if !ok {
		return e.reply(t, intent, MsgCostNotUnderstood)
	}
	draft.Cost = amount
	draft.HasCost = true
	draft.Currency = nlu.DetectCurrency(t.lower)

	if draft.Kind != model.KindSubscription {
		return e.commit(ctx, t, intent, recordFromDraft(draft, t.chatID, nlu.SubscriptionDate{}, t.now))
	}
	return e.transition(ctx, t, intent, session.StateAwaitingAddDate, draft, MsgAskDate)
}

func (e *Engine) onAddDate(ctx context.Context, t *turn) Reply {
	draft := t.pending.Draft
	if nlu.DetectBillingPeriod(t.lower) == model.BillingYearly {
		draft.BillingPeriod = model.BillingYearly
	}
	if draft.BillingPeriod == "" {
		draft.BillingPeriod = model.BillingMonthly
	}

	var date nlu.SubscriptionDate
	if nlu.IsSkip(t.raw) {
		date = nlu.DefaultSubscriptionDate(draft.BillingPeriod, t.lang, t.now)
	} else {
		date = nlu.ParseSubscriptionDate(t.lower, draft.BillingPeriod, t.lang, t.now)
	}
	return e.commit(ctx, t, nlu.IntentSubscriptionAdd, recordFromDraft(draft, t.chatID, date, t.now))
}

func (e *Engine) onTypeChoice(ctx context.Context, t *turn) Reply {
	kind, ok := resolveKindChoice(t.lower)
	if !ok {
		return e.reply(t, nlu.IntentAddAmbiguous, MsgTypeNotUnderstood)
	}

	intent := intentForKind(kind)
	slots := nlu.ExtractSlots(t.pending.RawText, nlu.IntentResult{Intent: intent, Lang: t.lang}, t.now)
	if utf8.RuneCountInString(slots.Title) < 2 {
		return e.abort(ctx, t, intent, MsgMissingTitle)
	}
	if !slots.HasAmount {
		return e.abort(ctx, t, intent, MsgCostNotUnderstood)
	}
	return e.commit(ctx, t, intent, recordFromSlots(kind, t.chatID, slots, t.now))
}

func (e *Engine) remove(ctx context.Context, t *turn, result nlu.IntentResult) Reply {
	kind := removeKind(result.Intent)
	query := nlu.ExtractTitle(t.raw, "")
	if query == "" {
		return e.reply(t, result.Intent, MsgRemoveNeedsName)
	}

	candidates, err := e.records.LookupCandidates(ctx, t.chatID, kind, query)
	if err != nil {
		return e.fail(ctx, t, result.Intent, "lookup candidates", err)
	}

	switch len(candidates) {
	case 0:
		r := e.reply(t, result.Intent, MsgNotFound, query)
		r.Kind = kind
		return r
	case 1:
		return e.deleteCandidate(ctx, t, result.Intent, kind, candidates[0])
	}

	if len(candidates) > session.MaxCandidates {
		candidates = candidates[:session.MaxCandidates]
	}
	p := e.newPending(t, session.StateAwaitingRemovalChoice)
	p.RemovalKind = kind
	p.Candidates = candidates
	r := e.save(ctx, t, result.Intent, p, MsgAskRemovalChoice)
	if r.Message == MsgAskRemovalChoice {
		r.Kind = kind
		r.Candidates = candidates
		r.Text = r.Text + "\n" + formatCandidates(candidates)
	}
	return r
}

func (e *Engine) onRemovalChoice(ctx context.Context, t *turn) Reply {
	intent := removeIntentForKind(t.pending.RemovalKind)
	choice, ok := pickCandidate(t.pending.Candidates, t.raw)
	if !ok {
		r := e.reply(t, intent, MsgRemovalChoiceInvalid)
		r.State = session.StateAwaitingRemovalChoice
		r.Candidates = t.pending.Candidates
		r.Text = r.Text + "\n" + formatCandidates(t.pending.Candidates)
		return r
	}
	return e.deleteCandidate(ctx, t, intent, t.pending.RemovalKind, choice)
}

func (e *Engine) deleteCandidate(ctx context.Context, t *turn, intent nlu.Intent, kind model.RecordKind, c model.Candidate) Reply {
	if err := e.records.DeleteRecord(ctx, t.chatID, kind, c.ID); err != nil {
		return e.fail(ctx, t, intent, "delete record", err)
	}
	if err := e.clearPending(ctx, t); err != nil {
		return e.fail(ctx, t, intent, "clear pending conversation", err)
	}
	e.logger.Info("record removed", "chat_id", t.chatID, "kind", kind, "record_id", c.ID)

	r := e.reply(t, intent, MsgRemoved, c.DisplayName)
	r.Kind = kind
	r.RecordID = c.ID
	return r
}

// commit validates and stores rec, then returns the chat to idle.
func (e *Engine) commit(ctx context.Context, t *turn, intent nlu.Intent, rec model.Record) Reply {
	if err := rec.Validate(); err != nil {
		switch {
		case errors.Is(err, model.ErrNameTooLong):
			return e.abort(ctx, t, intent, MsgNameTooLong, model.MaxNameLength)
		case errors.Is(err, model.ErrAmountOutOfRange):
			return e.abort(ctx, t, intent, MsgAmountOutOfRange, model.MaxAmount.String())
		case errors.Is(err, model.ErrEmptyName):
			return e.abort(ctx, t, intent, MsgMissingTitle)
		}
		return e.fail(ctx, t, intent, "validate record", err)
	}

	id, err := e.records.CommitRecord(ctx, t.chatID, rec)
	if err != nil {
		return e.fail(ctx, t, intent, "commit record", err)
	}
	if err := e.clearPending(ctx, t); err != nil {
		return e.fail(ctx, t, intent, "clear pending conversation", err)
	}
	e.logger.Info("record added", "chat_id", t.chatID, "kind", rec.Kind(), "record_id", id)

	var r Reply
	switch v := rec.(type) {
	case *model.Subscription:
		r = e.reply(t, intent, MsgSubscriptionAdded, v.Name, model.FormatAmount(v.Cost, v.Currency), v.RecurrenceLabel, v.NextPaymentDate.Format(dateLayout))
	case *model.Expense:
		r = e.reply(t, intent, MsgExpenseAdded, v.Title, model.FormatAmount(v.Amount, v.Currency), v.SpentAt.Format(dateLayout))
	case *model.Income:
		r = e.reply(t, intent, MsgIncomeAdded, v.Title, model.FormatAmount(v.Amount, v.Currency), v.ReceivedAt.Format(dateLayout))
	}
	r.Kind = rec.Kind()
	r.RecordID = id
	r.Records = []model.Record{rec}
	return r
}

// abort reports a validation problem and returns the chat to idle.
func (e *Engine) abort(ctx context.Context, t *turn, intent nlu.Intent, key MessageKey, args ...any) Reply {
	if err := e.clearPending(ctx, t); err != nil {
		return e.fail(ctx, t, intent, "clear pending conversation", err)
	}
	e.logger.Info("record rejected", "chat_id", t.chatID, "intent", intent, "reason", key)
	return e.reply(t, intent, key, args...)
}

// fail logs a collaborator error without message content, drops any
// pending conversation and answers with the generic retry message.
func (e *Engine) fail(ctx context.Context, t *turn, intent nlu.Intent, op string, err error) Reply {
	state := session.StateIdle
	if t.pending != nil {
		state = t.pending.State
	}
	e.logger.Error("dialogue turn failed",
		"chat_id", t.chatID,
		"intent", intent,
		"state", state,
		"op", op,
		"error", err)

	if delErr := e.sessions.Delete(ctx, t.chatID); delErr != nil {
		e.logger.Error("failed to clear pending conversation", "chat_id", t.chatID, "error", delErr)
	}
	t.pending = nil
	return e.reply(t, intent, MsgGenericError)
}

func (e *Engine) newPending(t *turn, state session.State) *session.PendingConversation {
	return &session.PendingConversation{
		ChatKey:   t.chatID,
		State:     state,
		Lang:      string(t.lang),
		CreatedAt: t.now,
	}
}

// transition stores a new draft state and asks the next question.
func (e *Engine) transition(ctx context.Context, t *turn, intent nlu.Intent, state session.State, draft session.Draft, key MessageKey, args ...any) Reply {
	p := e.newPending(t, state)
	if t.pending != nil {
		p.Lang = t.pending.Lang
		p.RawText = t.pending.RawText
	}
	p.Draft = draft
	return e.save(ctx, t, intent, p, key, args...)
}

func (e *Engine) save(ctx context.Context, t *turn, intent nlu.Intent, p *session.PendingConversation, key MessageKey, args ...any) Reply {
	if err := e.sessions.Set(ctx, p); err != nil {
		return e.fail(ctx, t, intent, "save pending conversation", err)
	}
	t.pending = p
	e.logger.Debug("conversation state changed", "chat_id", t.chatID, "intent", intent, "state", p.State)
	r := e.reply(t, intent, key, args...)
	r.State = p.State
	return r
}

func (e *Engine) clearPending(ctx context.Context, t *turn) error {
	if t.pending == nil {
		return nil
	}
	if err := e.sessions.Delete(ctx, t.chatID); err != nil {
		return err
	}
	t.pending = nil
	return nil
}

// reply renders key. The state is the stored one, or idle.
func (e *Engine) reply(t *turn, intent nlu.Intent, key MessageKey, args ...any) Reply {
	state := session.StateIdle
	if t.pending != nil {
		state = t.pending.State
	}
	return Reply{
		Intent:  intent,
		State:   state,
		Message: key,
		Text:    render(key, t.lang, args...),
	}
}

func formatCandidates(candidates []model.Candidate) string {
	lines := make([]string, len(candidates))
	for i, c := range candidates {
		lines[i] = strconv.Itoa(i+1) + ". " + c.DisplayName
	}
	return strings.Join(lines, "\n")
}

// pickCandidate accepts a 1-based index or an exact case-insensitive name.
func pickCandidate(candidates []model.Candidate, raw string) (model.Candidate, bool) {
	answer := strings.Trim(strings.TrimSpace(raw), ".)")
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(candidates) {
			return candidates[n-1], true
		}
		return model.Candidate{}, false
	}
	want := nlu.NormalizeLower(raw)
	for _, c := range candidates {
		if nlu.NormalizeLower(c.DisplayName) == want {
			return c, true
		}
	}
	return model.Candidate{}, false
}
