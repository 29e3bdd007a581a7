package models

import "time"

// Mode identifies which conversation flow a session is running.
type Mode string

const (
	ModeNone    Mode = ""
	ModeOrder   Mode = "order"
	ModeCatalog Mode = "catalog"
	ModeSupport Mode = "support"
)

// Stage is the current question within a flow. Stages advance strictly
// forward; only the profile stage re-prompts on unrecognized input.
type Stage string

const (
	StageNone            Stage = ""
	StageAskName         Stage = "ask_name"
	StageAskPhone        Stage = "ask_phone"
	StageAskProfile      Stage = "ask_profile"
	StageAskCompany      Stage = "ask_company"
	StageAskTaxID        Stage = "ask_tax_id"
	StageAskAddress      Stage = "ask_address"
	StageAskEmail        Stage = "ask_email"
	StageAskEmailCatalog Stage = "ask_email_catalog"
	StageAskItems        Stage = "ask_items"
	StageDone            Stage = "done"
)

// Reminder identifies a one-shot follow-up message.
type Reminder string

const (
	ReminderShortIdle Reminder = "short_idle"
	ReminderMidDelay  Reminder = "mid_delay"
	ReminderLongDelay Reminder = "long_delay"
)

// Field keys for answers collected during a flow.
const (
	FieldName    = "name"
	FieldPhone   = "phone"
	FieldProfile = "profile"
	FieldCompany = "company"
	FieldTaxID   = "tax_id"
	FieldAddress = "address"
	FieldEmail   = "email"
)

// CartItem is one recognized product line in an order.
type CartItem struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// Session is the per-phone conversation state. Access is serialized by
// the session store; nothing here is safe for unguarded sharing.
type Session struct {
	Phone            string            `json:"phone"`
	Mode             Mode              `json:"mode"`
	Stage            Stage             `json:"stage"`
	Fields           map[string]string `json:"fields"`
	Cart             []CartItem        `json:"cart,omitempty"`
	LastUserActivity time.Time         `json:"lastUserActivity"`
	LastBotActivity  time.Time         `json:"lastBotActivity"`
	Notified         map[Reminder]bool `json:"notified"`
}

// NewSession creates an idle session for phone.
func NewSession(phone string) *Session {
	return &Session{
		Phone:    phone,
		Fields:   make(map[string]string),
		Notified: make(map[Reminder]bool),
	}
}

// Reset clears the flow state while keeping the phone identity and the
// activity timestamps.
func (s *Session) Reset() {
	s.Mode = ModeNone
	s.Stage = StageNone
	s.Fields = make(map[string]string)
	s.Cart = nil
	s.Notified = make(map[Reminder]bool)
}

// Active reports whether a flow is in progress: started but not yet at
// the terminal stage.
func (s *Session) Active() bool {
	return s.Stage != StageNone && s.Stage != StageDone
}
