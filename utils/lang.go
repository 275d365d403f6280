package utils

import (
	"os"
	"path"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

// Languages with translation files under the i18n directory.
var Languages = []string{"en", "hi"}

var bundle *i18n.Bundle

// InitI18NBundle builds the message bundle. Defaults are registered as English
// so every message resolves even without translation files. Files missing from
// dir are skipped.
func InitI18NBundle(dir string, defaults ...*i18n.Message) error {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	if err := b.AddMessages(language.English, defaults...); err != nil {
		return err
	}

	if dir != "" {
		for _, lang := range Languages {
			file := path.Join(dir, lang+".yaml")
			if _, err := os.Stat(file); err != nil {
				continue
			}
			if _, err := b.LoadMessageFile(file); err != nil {
				return err
			}
		}
	}

	bundle = b
	return nil
}

// NewLocalizer returns nil until InitI18NBundle has run.
func NewLocalizer(langs ...string) *i18n.Localizer {
	if bundle == nil {
		return nil
	}
	return i18n.NewLocalizer(bundle, langs...)
}

// Localize renders msg for the localizer, falling back to the message's own
// English text.
func Localize(l *i18n.Localizer, msg *i18n.Message) string {
	if l != nil {
		s, err := l.Localize(&i18n.LocalizeConfig{DefaultMessage: msg})
		if err == nil || s != "" {
			return s
		}
	}
	return msg.Other
}
