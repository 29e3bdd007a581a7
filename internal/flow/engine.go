package flow

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"zapbot/internal/models"
	"zapbot/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Result is the outcome of one conversation turn. Lead is non-nil
// exactly when the turn completed a flow; SendCatalog requests the
// catalog file-send side effect.
type Result struct {
	Reply       string
	Lead        *models.Lead
	SendCatalog bool
}

// Engine advances a session one inbound message at a time. It mutates
// the session it is given and never performs I/O; side effects are
// requested through the Result.
type Engine struct {
	now      func() time.Time
	orderSeq atomic.Uint64
}

// NewEngine creates a flow engine using the wall clock.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineWithClock creates a flow engine with an injected clock, for
// deterministic tests.
func NewEngineWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

var titleCaser = cases.Title(language.BrazilianPortuguese)

// Handle consumes one inbound message for the given session and returns
// the reply plus any completion side effects. Global commands (greeting
// and cancel tokens) take precedence over stage-specific parsing.
func (e *Engine) Handle(s *models.Session, text string) Result {
	text = validation.SanitizeText(text)
	lower := strings.ToLower(text)

	now := e.now()
	s.LastUserActivity = now

	switch {
	case cancelTokens[lower]:
		s.Reset()
		return Result{Reply: msgCancelled}
	case greetingTokens[lower]:
		s.Reset()
		return Result{Reply: msgWelcome}
	}

	if !s.Active() {
		return e.startFlow(s, lower)
	}

	return e.advance(s, text, lower)
}

func (e *Engine) startFlow(s *models.Session, lower string) Result {
	mode := detectMode(lower)
	if mode == models.ModeNone {
		return Result{Reply: msgFallback + msgWelcome}
	}

	// Starting a new flow replaces whatever came before it.
	s.Reset()
	s.Mode = mode
	s.Stage = models.StageAskName
	return Result{Reply: msgAskName}
}

func detectMode(lower string) models.Mode {
	switch {
	case strings.HasPrefix(lower, "1"), strings.Contains(lower, "compra"),
		strings.Contains(lower, "pedido"):
		return models.ModeOrder
	case strings.HasPrefix(lower, "2"), strings.Contains(lower, "catálogo"),
		strings.Contains(lower, "catalogo"):
		return models.ModeCatalog
	case strings.HasPrefix(lower, "3"), strings.Contains(lower, "atendente"),
		strings.Contains(lower, "humano"), strings.Contains(lower, "suporte"):
		return models.ModeSupport
	}
	return models.ModeNone
}

func (e *Engine) advance(s *models.Session, text, lower string) Result {
	switch s.Stage {
	case models.StageAskName:
		s.Fields[models.FieldName] = titleCaser.String(text)
		s.Stage = models.StageAskPhone
		return Result{Reply: fmt.Sprintf("Ótimo, *%s*! %s", s.Fields[models.FieldName], msgAskPhone)}

	case models.StageAskPhone:
		s.Fields[models.FieldPhone] = digitsOnly(text)
		s.Stage = models.StageAskProfile
		return Result{Reply: msgAskProfile}

	case models.StageAskProfile:
		profile := profileFor(lower)
		if profile == "" {
			// Only stage that re-prompts on unrecognized input.
			return Result{Reply: msgProfileInvalid}
		}
		s.Fields[models.FieldProfile] = profile
		s.Stage = models.StageAskCompany
		return Result{Reply: msgAskCompany}

	case models.StageAskCompany:
		s.Fields[models.FieldCompany] = titleCaser.String(text)
		s.Stage = models.StageAskTaxID
		return Result{Reply: msgAskTaxID}

	case models.StageAskTaxID:
		s.Fields[models.FieldTaxID] = digitsOnly(text)
		s.Stage = models.StageAskAddress
		return Result{Reply: msgAskAddress}

	case models.StageAskAddress:
		s.Fields[models.FieldAddress] = text
		if s.Mode == models.ModeCatalog {
			s.Stage = models.StageAskEmailCatalog
			return Result{Reply: msgAskEmailCatalog}
		}
		s.Stage = models.StageAskEmail
		return Result{Reply: msgAskEmail}

	case models.StageAskEmail:
		s.Fields[models.FieldEmail] = strings.ToLower(text)
		if s.Mode == models.ModeOrder {
			s.Stage = models.StageAskItems
			return Result{Reply: msgAskItems}
		}
		return e.complete(s, msgSupportDone)

	case models.StageAskEmailCatalog:
		s.Fields[models.FieldEmail] = strings.ToLower(text)
		result := e.complete(s, msgCatalogDone)
		result.SendCatalog = true
		return result

	case models.StageAskItems:
		return e.handleItems(s, text, lower)
	}

	// Unreachable for sessions produced by this engine; answer with the
	// menu rather than corrupting state.
	s.Reset()
	return Result{Reply: msgWelcome}
}

func (e *Engine) handleItems(s *models.Session, text, lower string) Result {
	if finalizeTokens[lower] {
		code := e.orderCode(s.Phone)
		summary := fmt.Sprintf(
			"📦 Pedido *%s* registrado!\nItens: %s\nEm breve enviaremos a proposta.",
			code, itemsSummary(s.Cart),
		)
		result := e.complete(s, summary)
		result.Lead.OrderCode = code
		return result
	}

	items := ParseItems(text)
	if len(items) == 0 {
		return Result{Reply: msgItemsNotRecognized}
	}

	s.Cart = append(s.Cart, items...)
	return Result{Reply: msgItemsAdded}
}

// complete transitions the session to the terminal stage and builds the
// lead exactly once per flow instance.
func (e *Engine) complete(s *models.Session, reply string) Result {
	lead := &models.Lead{
		ID:           uuid.NewString(),
		Phone:        s.Phone,
		Name:         s.Fields[models.FieldName],
		ContactPhone: s.Fields[models.FieldPhone],
		Profile:      s.Fields[models.FieldProfile],
		Company:      s.Fields[models.FieldCompany],
		TaxID:        s.Fields[models.FieldTaxID],
		Address:      s.Fields[models.FieldAddress],
		Email:        s.Fields[models.FieldEmail],
		Mode:         s.Mode,
		Items:        append([]models.CartItem(nil), s.Cart...),
		CreatedAt:    e.now(),
	}

	s.Stage = models.StageDone
	return Result{Reply: reply, Lead: lead}
}

// orderCode derives a best-effort unique code from the phone's last four
// digits, the current date and a process-local sequence number.
func (e *Engine) orderCode(phone string) string {
	digits := digitsOnly(phone)
	last4 := digits
	if len(digits) > 4 {
		last4 = digits[len(digits)-4:]
	}
	seq := e.orderSeq.Add(1)
	return fmt.Sprintf("PED-%s-%s-%d", last4, e.now().Format("20060102"), seq)
}

func profileFor(lower string) string {
	if label, ok := profileChoices[lower]; ok {
		return label
	}
	for alias, label := range profileAliases {
		if strings.Contains(lower, alias) {
			return label
		}
	}
	return ""
}

func digitsOnly(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func itemsSummary(cart []models.CartItem) string {
	if len(cart) == 0 {
		return "—"
	}
	parts := make([]string, 0, len(cart))
	for _, it := range cart {
		parts = append(parts, fmt.Sprintf("%s x%d", it.Product, it.Quantity))
	}
	return strings.Join(parts, ", ")
}
