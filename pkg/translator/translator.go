package translator

import (
	"embed"
	"io/fs"
	"os"
	"path"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

var Translator *i18n.Bundle

//go:embed translation/*.toml
var embeddedTranslations embed.FS

type Config struct {
	// TranslationFolder overrides the catalogs compiled into the binary.
	TranslationFolder  string
	SupportedLanguages []string // List of supported languages
}

const (
	LanguageEn = "en"
	LanguageJa = "ja"
)

var SupportedLanguages = []string{LanguageEn, LanguageJa}

func InitTranslator(cfg Config) {
	Translator = i18n.NewBundle(language.English)
	Translator.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	var (
		fsys fs.FS = embeddedTranslations
		dir        = "translation"
	)
	if cfg.TranslationFolder != "" {
		fsys, dir = os.DirFS(cfg.TranslationFolder), "."
	}

	lstFiles, err := fs.ReadDir(fsys, dir)
	if err != nil {
		zap.L().Error("failed to list translation folder", zap.String("folder", cfg.TranslationFolder), zap.Error(err))
		return
	}

	for _, f := range lstFiles {
		if f.IsDir() {
			continue
		}
		if _, err := Translator.LoadMessageFileFS(fsys, path.Join(dir, f.Name())); err != nil {
			zap.L().Warn("failed to load translation file", zap.String("file", f.Name()), zap.Error(err))
		}
	}
}

// Localize renders a message in lang, falling back to English and then to the
// message id itself.
func Localize(lang, messageID string, data map[string]any) string {
	if Translator == nil {
		return messageID
	}
	l := i18n.NewLocalizer(Translator, lang, LanguageEn)
	msg, err := l.Localize(&i18n.LocalizeConfig{MessageID: messageID, TemplateData: data})
	if err != nil {
		zap.L().Warn("translation not found", zap.String("lang", lang), zap.String("message_id", messageID), zap.Error(err))
		return messageID
	}
	return msg
}
