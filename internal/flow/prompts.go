package flow

// User-facing texts for the DSA Cristal Química assistant. Kept in one
// place so the conversation copy can be reviewed without touching the
// state machine.

const msgWelcome = "👋 Olá! Sou o Assistente da *DSA Cristal Química*.\n" +
	"Como posso ajudar hoje?\n\n" +
	"1️⃣ *Fazer um pedido* (Rezymol / Pitty)\n" +
	"2️⃣ *Receber nosso catálogo*\n" +
	"3️⃣ *Falar com um atendente*\n\n" +
	"Você pode digitar o número da opção ou escrever sua dúvida."

const msgFallback = "👍 Entendi. Para começar, digite *menu* ou escolha:\n"

const msgCancelled = "❌ Tudo bem, atendimento cancelado. Digite *menu* quando quiser recomeçar."

const msgAskName = "📞 Vamos agilizar seu atendimento. Qual é o seu *nome*?"

const msgAskPhone = "Qual é o seu *telefone* com DDD? (somente números)"

const msgAskProfile = "Qual é o seu *perfil*?\n\n" +
	"1️⃣ Lojista\n" +
	"2️⃣ Marcenaria\n" +
	"3️⃣ Indústria\n" +
	"4️⃣ Distribuidor\n\n" +
	"Digite o número da opção."

const msgProfileInvalid = "⚠️ Não reconheci essa opção. Digite *1*, *2*, *3* ou *4*, " +
	"ou escreva seu perfil (ex.: lojista, marcenaria, indústria, distribuidor)."

const msgAskCompany = "Perfeito. Qual é o nome da *empresa*?"

const msgAskTaxID = "Qual é o *CNPJ* da empresa? (somente números)"

const msgAskAddress = "Qual é o *endereço* completo (rua, número, cidade/UF)?"

const msgAskEmail = "Para finalizar, qual é o seu *e-mail*?"

const msgAskEmailCatalog = "📄 Para enviar o catálogo, qual é o seu *e-mail*?"

const msgAskItems = "🛒 Agora me diga os *produtos* desejados, um ou mais por mensagem.\n\n" +
	"Linha Rezymol (moveleiro): 1250 BSC, 982 NI, 983 FI, 984 RD, 985 AT\n" +
	"Linha Pitty (biossegurança): BSC 1100, Desincrustante 890\n\n" +
	"Exemplo: *Rezymol 982 NI x2, Pitty BSC 1100*\n" +
	"Quando terminar, digite *finalizar*."

const msgItemsAdded = "✅ Adicionado ao pedido! Envie mais produtos ou digite *finalizar*."

const msgItemsNotRecognized = "⚠️ Não reconheci nenhum produto nessa mensagem. " +
	"Use os nomes do catálogo (ex.: *Rezymol 1250 BSC x2*) ou digite *finalizar*."

const msgSupportDone = "✅ Dados recebidos! Em instantes um atendente DSA falará com você."

const msgCatalogDone = "✅ Dados recebidos! Estou enviando o catálogo agora mesmo."

// MsgApology is sent once when a downstream side effect fails after a
// flow has completed; the stage is never rolled back.
const MsgApology = "😕 Tivemos um problema ao concluir seu atendimento, mas seus dados " +
	"foram registrados. Um atendente DSA entrará em contato em breve."

// Follow-up nudges, one-shot per flow instance.
const (
	MsgReminderShortIdle = "👋 Ainda está por aí? Ficou alguma dúvida? É só responder por aqui."
	MsgReminderMidDelay  = "📋 Conseguiu revisar a proposta do seu pedido? Qualquer ajuste é só me avisar."
	MsgReminderLongDelay = "🤝 Seguimos à disposição para ajudar quando precisar. Digite *menu* para recomeçar."
)

var greetingTokens = map[string]bool{
	"oi":     true,
	"olá":    true,
	"ola":    true,
	"menu":   true,
	"inicio": true,
	"início": true,
	"start":  true,
	"hi":     true,
}

var cancelTokens = map[string]bool{
	"cancelar": true,
	"cancel":   true,
	"sair":     true,
	"parar":    true,
}

var finalizeTokens = map[string]bool{
	"finalizar": true,
	"finalize":  true,
}

// profileChoices maps the numeric menu answer to its label.
var profileChoices = map[string]string{
	"1": "Lojista",
	"2": "Marcenaria",
	"3": "Indústria",
	"4": "Distribuidor",
}

// profileAliases recognizes free-text profile answers.
var profileAliases = map[string]string{
	"lojista":      "Lojista",
	"loja":         "Lojista",
	"marcenaria":   "Marcenaria",
	"marceneiro":   "Marcenaria",
	"moveleiro":    "Marcenaria",
	"indústria":    "Indústria",
	"industria":    "Indústria",
	"distribuidor": "Distribuidor",
	"revenda":      "Distribuidor",
}
