package flow

import (
	"testing"
	"time"

	"zapbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine() *Engine {
	fixed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	return NewEngineWithClock(func() time.Time { return fixed })
}

func TestEngine_GreetingShowsMenu(t *testing.T) {
	e := testEngine()
	s := models.NewSession("5511999990000")

	result := e.Handle(s, "oi")

	assert.Equal(t, msgWelcome, result.Reply)
	assert.Nil(t, result.Lead)
	assert.Equal(t, models.StageNone, s.Stage)
}

func TestEngine_UnknownTextFallsBackToMenu(t *testing.T) {
	e := testEngine()
	s := models.NewSession("5511999990000")

	result := e.Handle(s, "qual o preço do frete?")

	assert.Contains(t, result.Reply, "digite *menu*")
	assert.Equal(t, models.StageNone, s.Stage)
}

func TestEngine_OrderScenario(t *testing.T) {
	e := testEngine()
	s := models.NewSession("5511999990000")

	result := e.Handle(s, "compra")
	assert.Equal(t, msgAskName, result.Reply)
	assert.Equal(t, models.ModeOrder, s.Mode)
	assert.Equal(t, models.StageAskName, s.Stage)

	result = e.Handle(s, "Maria")
	assert.Contains(t, result.Reply, "*Maria*")
	assert.Equal(t, models.StageAskPhone, s.Stage)

	e.Handle(s, "(11) 98888-7777")
	assert.Equal(t, "11988887777", s.Fields[models.FieldPhone])
	assert.Equal(t, models.StageAskProfile, s.Stage)

	e.Handle(s, "2")
	assert.Equal(t, "Marcenaria", s.Fields[models.FieldProfile])
	assert.Equal(t, models.StageAskCompany, s.Stage)

	e.Handle(s, "móveis maria ltda")
	assert.Equal(t, "Móveis Maria Ltda", s.Fields[models.FieldCompany])
	assert.Equal(t, models.StageAskTaxID, s.Stage)

	e.Handle(s, "12.345.678/0001-99")
	assert.Equal(t, "12345678000199", s.Fields[models.FieldTaxID])
	assert.Equal(t, models.StageAskAddress, s.Stage)

	e.Handle(s, "Rua das Flores, 100 - São Paulo/SP")
	assert.Equal(t, models.StageAskEmail, s.Stage)

	e.Handle(s, "MARIA@EXEMPLO.COM.BR")
	assert.Equal(t, "maria@exemplo.com.br", s.Fields[models.FieldEmail])
	assert.Equal(t, models.StageAskItems, s.Stage)

	// Finalizing with an empty cart still completes the flow.
	result = e.Handle(s, "finalizar")
	require.NotNil(t, result.Lead)
	assert.Equal(t, models.StageDone, s.Stage)
	assert.Contains(t, result.Reply, "—")
	assert.Contains(t, result.Reply, "PED-0000-20260831-1")

	lead := result.Lead
	assert.Equal(t, models.ModeOrder, lead.Mode)
	assert.Equal(t, "5511999990000", lead.Phone)
	assert.Equal(t, "Maria", lead.Name)
	assert.Equal(t, "11988887777", lead.ContactPhone)
	assert.Equal(t, "Marcenaria", lead.Profile)
	assert.Equal(t, "Móveis Maria Ltda", lead.Company)
	assert.Equal(t, "12345678000199", lead.TaxID)
	assert.Equal(t, "maria@exemplo.com.br", lead.Email)
	assert.Empty(t, lead.Items)
	assert.NotEmpty(t, lead.ID)
}

func TestEngine_OrderWithItems(t *testing.T) {
	e := testEngine()
	s := models.NewSession("5511999990000")
	driveToItems(t, e, s)

	result := e.Handle(s, "Rezymol 982 NI x2, Pitty BSC 1100")
	assert.Equal(t, msgItemsAdded, result.Reply)
	require.Len(t, s.Cart, 2)
	assert.Equal(t, models.CartItem{Product: "Rezymol 982 NI", Quantity: 2}, s.Cart[0])
	assert.Equal(t, models.CartItem{Product: "Pitty BSC 1100", Quantity: 1}, s.Cart[1])

	result = e.Handle(s, "lixa grão 120")
	assert.Equal(t, msgItemsNotRecognized, result.Reply)
	assert.Len(t, s.Cart, 2)

	result = e.Handle(s, "finalizar")
	require.NotNil(t, result.Lead)
	assert.Equal(t, s.Cart, result.Lead.Items)
	assert.Contains(t, result.Reply, "Rezymol 982 NI x2")
	assert.NotEmpty(t, result.Lead.OrderCode)
}

func TestEngine_CatalogFlowRequestsFileSend(t *testing.T) {
	e := testEngine()
	s := models.NewSession("5511988880000")

	e.Handle(s, "quero o catálogo")
	assert.Equal(t, models.ModeCatalog, s.Mode)

	e.Handle(s, "João")
	e.Handle(s, "11977776666")
	e.Handle(s, "lojista")
	e.Handle(s, "casa das tintas")
	e.Handle(s, "98765432000110")
	e.Handle(s, "Av. Central, 55 - Campinas/SP")
	assert.Equal(t, models.StageAskEmailCatalog, s.Stage)

	result := e.Handle(s, "joao@tintas.com")
	require.NotNil(t, result.Lead)
	assert.True(t, result.SendCatalog)
	assert.Equal(t, models.ModeCatalog, result.Lead.Mode)
	assert.Equal(t, models.StageDone, s.Stage)
}

func TestEngine_SupportFlowCompletes(t *testing.T) {
	e := testEngine()
	s := models.NewSession("5511966665555")

	e.Handle(s, "3")
	assert.Equal(t, models.ModeSupport, s.Mode)

	e.Handle(s, "Carlos")
	e.Handle(s, "11955554444")
	e.Handle(s, "distribuidor")
	e.Handle(s, "distribuidora sul")
	e.Handle(s, "11222333000144")
	e.Handle(s, "Rua B, 10 - Curitiba/PR")
	assert.Equal(t, models.StageAskEmail, s.Stage)

	result := e.Handle(s, "carlos@sul.com")
	require.NotNil(t, result.Lead)
	assert.False(t, result.SendCatalog)
	assert.Equal(t, models.ModeSupport, result.Lead.Mode)
	assert.Equal(t, msgSupportDone, result.Reply)
}

func TestEngine_ProfileRepromptsOnInvalidChoice(t *testing.T) {
	e := testEngine()
	s := models.NewSession("5511999990000")
	e.Handle(s, "compra")
	e.Handle(s, "Ana")
	e.Handle(s, "11911112222")

	result := e.Handle(s, "9")
	assert.Equal(t, msgProfileInvalid, result.Reply)
	assert.Equal(t, models.StageAskProfile, s.Stage)

	e.Handle(s, "sou marceneiro")
	assert.Equal(t, "Marcenaria", s.Fields[models.FieldProfile])
	assert.Equal(t, models.StageAskCompany, s.Stage)
}

func TestEngine_CancelResetsAnyStage(t *testing.T) {
	for _, answers := range [][]string{
		{"compra"},
		{"compra", "Maria"},
		{"compra", "Maria", "11988887777", "2", "acme", "123", "rua x", "a@b.c"},
	} {
		e := testEngine()
		s := models.NewSession("5511999990000")
		for _, a := range answers {
			e.Handle(s, a)
		}

		result := e.Handle(s, "cancelar")
		assert.Equal(t, msgCancelled, result.Reply)
		assert.Equal(t, models.ModeNone, s.Mode)
		assert.Equal(t, models.StageNone, s.Stage)
		assert.Empty(t, s.Fields)
		assert.Empty(t, s.Cart)
	}
}

func TestEngine_MenuShortCircuitsActiveFlow(t *testing.T) {
	e := testEngine()
	s := models.NewSession("5511999990000")
	e.Handle(s, "compra")
	e.Handle(s, "Maria")

	result := e.Handle(s, "menu")
	assert.Equal(t, msgWelcome, result.Reply)
	assert.Equal(t, models.StageNone, s.Stage)
	assert.Empty(t, s.Fields)
}

func TestEngine_NewFlowReplacesActiveOne(t *testing.T) {
	e := testEngine()
	s := models.NewSession("5511999990000")
	e.Handle(s, "compra")
	e.Handle(s, "Maria")
	e.Handle(s, "menu")

	e.Handle(s, "catálogo")
	assert.Equal(t, models.ModeCatalog, s.Mode)
	assert.Equal(t, models.StageAskName, s.Stage)
	assert.Empty(t, s.Fields)
}

func TestEngine_OrderCodeSequenceIncrements(t *testing.T) {
	e := testEngine()

	first := e.orderCode("5511999990000")
	second := e.orderCode("5511999991111")

	assert.Equal(t, "PED-0000-20260831-1", first)
	assert.Equal(t, "PED-1111-20260831-2", second)
}

func driveToItems(t *testing.T, e *Engine, s *models.Session) {
	t.Helper()
	for _, answer := range []string{
		"compra", "Maria", "11988887777", "2",
		"móveis maria", "12345678000199", "Rua A, 1", "maria@exemplo.com",
	} {
		e.Handle(s, answer)
	}
	require.Equal(t, models.StageAskItems, s.Stage)
}
