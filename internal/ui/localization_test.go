package ui

import (
	"fmt"
	"testing"
)

func TestLocalizationLanguages(t *testing.T) {
	l := NewLocalization()
	if l.GetCurrentLanguage() != "en" {
		t.Errorf("Expected en by default, got %s", l.GetCurrentLanguage())
	}

	tests := []struct {
		lang string
		want string
	}{
		{"ru", "Закрыть"},
		{"pt", "Fechar"},
		{"xx", "Close"},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			l := NewLocalization()
			l.SetLanguage(tt.lang)
			if got := l.GetText(KeyClose); got != tt.want {
				t.Errorf("GetText(KeyClose) in %s = %q, expected %q", tt.lang, got, tt.want)
			}
		})
	}
}

func TestLocalizationSystemLanguage(t *testing.T) {
	l := NewLocalization()
	tests := []struct {
		locale string
		want   string
	}{
		{"pt-BR", "pt"},
		{"ru-RU", "ru"},
		{"en-GB", "en"},
		{"de-DE", "en"},
		{"", "en"},
	}
	for _, tt := range tests {
		if got := l.systemLanguage(tt.locale); got != tt.want {
			t.Errorf("systemLanguage(%q) = %s, expected %s", tt.locale, got, tt.want)
		}
	}

	l.SetLanguage("system")
	if _, ok := l.GetAvailableLanguages()[l.GetCurrentLanguage()]; !ok {
		t.Errorf("Expected an available language, got %s", l.GetCurrentLanguage())
	}
}

func TestLocalizationFallbacks(t *testing.T) {
	l := NewLocalization()
	if got := l.GetText("no_such_key"); got != "no_such_key" {
		t.Errorf("Expected the key itself for unknown keys, got %q", got)
	}
}

func TestLocalizationCoversEveryLanguage(t *testing.T) {
	l := NewLocalization()
	for lang := range l.GetAvailableLanguages() {
		texts, ok := l.texts[lang]
		if !ok {
			t.Errorf("No texts for %s", lang)
			continue
		}
		for key := range l.texts["en"] {
			if _, ok := texts[key]; !ok {
				t.Errorf("Missing %s translation for %s", lang, key)
			}
		}
		if got := fmt.Sprintf(texts[KeyUnreadable], 2); got == texts[KeyUnreadable] {
			t.Errorf("Expected a count placeholder in the %s unreadable text", lang)
		}
	}
}
