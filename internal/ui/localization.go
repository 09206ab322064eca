package ui

import (
	fynelang "fyne.io/fyne/v2/lang"
	"golang.org/x/text/language"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyClose             = "close"
	KeySelected          = "selected"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyLanguage          = "language"
	KeyOpenFolder        = "open_folder"
	KeyOpenManifest      = "open_manifest"
	KeyColumns           = "columns"
	KeyTopMargin         = "top_margin"
	KeyCloseText         = "close_text"
	KeyEnableTilt        = "enable_tilt"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeySettingsSaved     = "settings_saved"
	KeyNoImages          = "no_images"
	KeyErrorLoadingImage = "error_loading_images"
	KeyErrorOpeningFile  = "error_opening_file"
	KeyUnreadable        = "unreadable"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = l.systemLanguage(fynelang.SystemLocale().LanguageString())
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// systemLanguage picks the closest translation for a BCP 47 locale,
// falling back to English.
func (l *Localization) systemLanguage(locale string) string {
	codes := []string{"en"}
	for code := range l.texts {
		if code != "en" {
			codes = append(codes, code)
		}
	}
	tags := make([]language.Tag, len(codes))
	for i, code := range codes {
		tags[i] = language.Make(code)
	}

	_, idx, conf := language.NewMatcher(tags).Match(language.Make(locale))
	if conf == language.No {
		return "en"
	}
	return codes[idx]
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "Photo Gallery",
		KeyClose:             "Close",
		KeySelected:          "Selected!",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyLanguage:          "Language",
		KeyOpenFolder:        "Open Folder",
		KeyOpenManifest:      "Open Manifest",
		KeyColumns:           "Columns",
		KeyTopMargin:         "Top Margin",
		KeyCloseText:         "Close Button Text",
		KeyEnableTilt:        "Swipe vertically to close",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeySettingsSaved:     "Settings saved successfully!",
		KeyNoImages:          "No images found",
		KeyErrorLoadingImage: "Error loading images",
		KeyErrorOpeningFile:  "Error opening file",
		KeyUnreadable:        "%d unreadable",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "Фотогалерея",
		KeyClose:             "Закрыть",
		KeySelected:          "Выбрано!",
		KeySettings:          "Настройки",
		KeyFile:              "Файл",
		KeyLanguage:          "Язык",
		KeyOpenFolder:        "Открыть папку",
		KeyOpenManifest:      "Открыть манифест",
		KeyColumns:           "Колонки",
		KeyTopMargin:         "Верхний отступ",
		KeyCloseText:         "Текст кнопки закрытия",
		KeyEnableTilt:        "Закрывать вертикальным свайпом",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeySettingsSaved:     "Настройки успешно сохранены!",
		KeyNoImages:          "Изображения не найдены",
		KeyErrorLoadingImage: "Ошибка загрузки изображений",
		KeyErrorOpeningFile:  "Ошибка открытия файла",
		KeyUnreadable:        "не читается: %d",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "Galeria de Fotos",
		KeyClose:             "Fechar",
		KeySelected:          "Selecionada!",
		KeySettings:          "Configurações",
		KeyFile:              "Arquivo",
		KeyLanguage:          "Idioma",
		KeyOpenFolder:        "Abrir Pasta",
		KeyOpenManifest:      "Abrir Manifesto",
		KeyColumns:           "Colunas",
		KeyTopMargin:         "Margem Superior",
		KeyCloseText:         "Texto do Botão Fechar",
		KeyEnableTilt:        "Deslizar verticalmente para fechar",
		KeySave:              "Salvar",
		KeyCancel:            "Cancelar",
		KeySettingsSaved:     "Configurações salvas com sucesso!",
		KeyNoImages:          "Nenhuma imagem encontrada",
		KeyErrorLoadingImage: "Erro ao carregar imagens",
		KeyErrorOpeningFile:  "Erro ao abrir arquivo",
		KeyUnreadable:        "%d ilegíveis",
	}
}
