package utils

import (
	"embed"
	"path"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

var messageFiles = []string{"en.yaml", "he.yaml"}

//go:embed locales/*.yaml
var bundledLocales embed.FS

// NewI18NBundle loads the message files from dir, or the bundled ones when dir is empty
func NewI18NBundle(dir string) (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	for _, name := range messageFiles {
		if dir != "" {
			if _, err := bundle.LoadMessageFile(path.Join(dir, name)); err != nil {
				return nil, err
			}
			continue
		}

		buf, err := bundledLocales.ReadFile(path.Join("locales", name))
		if err != nil {
			return nil, err
		}
		if _, err := bundle.ParseMessageFileBytes(buf, name); err != nil {
			return nil, err
		}
	}

	return bundle, nil
}

func NewLocalizer(bundle *i18n.Bundle, langs ...string) *i18n.Localizer {
	return i18n.NewLocalizer(bundle, langs...)
}
