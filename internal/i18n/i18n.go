// Package i18n holds the localized strings the chat core emits: attachment
// context labels sent to the completion endpoint and user-visible error
// messages. UI-level string tables live with the frontend, not here.
package i18n

const DefaultLanguage = "en"

type Strings struct {
	AppTitle     string
	NewChatTitle string

	// Labels used to build the attachment context prefix.
	AttachNoticeBefore string
	AttachNoticeAfter  string
	FileLabel          string
	ContentLabel       string

	// User-visible error messages.
	ErrorAPI         string
	ErrorPersona     string
	ErrorUnsupported string
	ErrorPDF         string
	ErrorDocx        string
}

var tables = map[string]Strings{
	"en": {
		AppTitle:           "Chatter AI",
		NewChatTitle:       "New chat",
		AttachNoticeBefore: "The user attached",
		AttachNoticeAfter:  "file(s) to this message:",
		FileLabel:          "File:",
		ContentLabel:       "Content:",
		ErrorAPI:           "Sorry, something went wrong while contacting the assistant. Please try again.",
		ErrorPersona:       "No persona instructions are configured for this language.",
		ErrorUnsupported:   "Unsupported file",
		ErrorPDF:           "Could not read PDF",
		ErrorDocx:          "Could not read DOCX",
	},
	"fr": {
		AppTitle:           "Chatter AI",
		NewChatTitle:       "Nouvelle discussion",
		AttachNoticeBefore: "L'utilisateur a joint",
		AttachNoticeAfter:  "fichier(s) à ce message :",
		FileLabel:          "Fichier :",
		ContentLabel:       "Contenu :",
		ErrorAPI:           "Désolé, une erreur est survenue lors de l'appel à l'assistant. Veuillez réessayer.",
		ErrorPersona:       "Aucune consigne de persona n'est configurée pour cette langue.",
		ErrorUnsupported:   "Fichier non pris en charge",
		ErrorPDF:           "Impossible de lire le PDF",
		ErrorDocx:          "Impossible de lire le DOCX",
	},
}

// T returns the string table for lang, falling back to the default language
// for anything unknown.
func T(lang string) Strings {
	if s, ok := tables[lang]; ok {
		return s
	}
	return tables[DefaultLanguage]
}

// Supported reports whether lang has its own string table.
func Supported(lang string) bool {
	_, ok := tables[lang]
	return ok
}
