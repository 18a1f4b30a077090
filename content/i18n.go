package content

// Supported UI languages. The first is the fallback.
const (
	LangEnglish = "en"
	LangSpanish = "es"
)

// Languages lists the supported UI languages.
var Languages = []string{LangEnglish, LangSpanish}

type translation struct{ en, es string }

// translations cover the page chrome marked with data-i18n. Owner editable
// content is never translated.
var translations = map[string]translation{
	"nav.problem": {"The Problem", "El Problema"},
	"nav.detox":   {"Free Reset", "Reset Gratis"},
	"nav.faq":     {"FAQ", "Preguntas"},
	"nav.cta":     {"Subscribe", "Suscríbete"},

	"hero.badge":            {"A guided digital detox", "Un detox digital guiado"},
	"hero.namePlaceholder":  {"Your name", "Tu nombre"},
	"hero.emailPlaceholder": {"Your email", "Tu correo"},
	"hero.formButton":       {"Subscribe", "Suscríbete"},

	"detox.namePlaceholder":  {"Your name", "Tu nombre"},
	"detox.emailPlaceholder": {"Your email", "Tu correo"},

	"footer.navigate":         {"Navigate", "Navegar"},
	"footer.connect":          {"Connect", "Conectar"},
	"footer.newsletter":       {"Weekly Letter", "Carta Semanal"},
	"footer.emailPlaceholder": {"Your email address", "Tu correo electrónico"},
	"footer.subscribe":        {"Subscribe", "Suscríbete"},

	"share.copyLink": {"Copy link", "Copiar enlace"},
	"share.email":    {"Email", "Email"},
	"share.whatsapp": {"WhatsApp", "WhatsApp"},
	"share.label":    {"Share this article", "Comparte este artículo"},

	"lang.switchTo": {"ES", "EN"},
}

// NormalizeLang maps anything other than a supported language to English.
func NormalizeLang(lang string) string {
	if lang == LangSpanish {
		return LangSpanish
	}
	return LangEnglish
}

// Translate returns the chrome string for key in lang.
func Translate(key, lang string) (string, bool) {
	tr, ok := translations[key]
	if !ok {
		return "", false
	}
	if NormalizeLang(lang) == LangSpanish {
		return tr.es, tr.es != ""
	}
	return tr.en, tr.en != ""
}
