package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const (
	LangRO = "ro"
	LangEN = "en"
)

// Manager holds one flat key/value catalog per language. Catalogs are
// merged over the default language at load time, so a key missing from
// one locale falls back to the default text.
type Manager struct {
	defaultLanguage string
	catalogs        map[string]map[string]string
	supported       []string
	matcher         language.Matcher
}

func NewManager(defaultLanguage string, localesDir string) (*Manager, error) {
	if _, err := os.Stat(localesDir); err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}
	return NewManagerFS(defaultLanguage, os.DirFS(localesDir))
}

// NewManagerFS loads every <lang>.json file at the root of locales. Both
// ro and en must be present.
func NewManagerFS(defaultLanguage string, locales fs.FS) (*Manager, error) {
	raw, err := readCatalogs(locales)
	if err != nil {
		return nil, err
	}
	for _, required := range []string{LangRO, LangEN} {
		if _, ok := raw[required]; !ok {
			return nil, fmt.Errorf("required locale %q missing", required)
		}
	}

	manager := &Manager{catalogs: make(map[string]map[string]string, len(raw))}
	for lang := range raw {
		manager.supported = append(manager.supported, lang)
	}
	sort.Strings(manager.supported)

	manager.defaultLanguage = LangRO
	manager.defaultLanguage = manager.NormalizeLanguage(defaultLanguage)

	fallback := raw[manager.defaultLanguage]
	for lang, messages := range raw {
		merged := make(map[string]string, len(fallback))
		for key, value := range fallback {
			merged[key] = value
		}
		for key, value := range messages {
			if strings.TrimSpace(value) != "" {
				merged[key] = value
			}
		}
		manager.catalogs[lang] = merged
	}

	tags := []language.Tag{language.Make(manager.defaultLanguage)}
	for _, lang := range manager.supported {
		if lang != manager.defaultLanguage {
			tags = append(tags, language.Make(lang))
		}
	}
	manager.matcher = language.NewMatcher(tags)
	return manager, nil
}

func readCatalogs(locales fs.FS) (map[string]map[string]string, error) {
	entries, err := fs.ReadDir(locales, ".")
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	catalogs := map[string]map[string]string{}
	for _, entry := range entries {
		name := strings.ToLower(entry.Name())
		if entry.IsDir() || path.Ext(name) != ".json" {
			continue
		}
		lang := strings.TrimSuffix(name, ".json")

		content, err := fs.ReadFile(locales, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", lang, err)
		}
		messages := map[string]string{}
		if err := json.Unmarshal(content, &messages); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", lang, err)
		}
		if len(messages) == 0 {
			return nil, fmt.Errorf("locale %s is empty", lang)
		}
		catalogs[lang] = messages
	}
	if len(catalogs) == 0 {
		return nil, fmt.Errorf("no locales found")
	}
	return catalogs, nil
}

func (manager *Manager) DefaultLanguage() string {
	return manager.defaultLanguage
}

func (manager *Manager) SupportedLanguages() []string {
	return append([]string(nil), manager.supported...)
}

// NormalizeLanguage reduces a tag such as "en-GB" or "ro_RO" to a supported
// base language, or the default when it is unknown.
func (manager *Manager) NormalizeLanguage(raw string) string {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), "_", "-")
	if raw == "" {
		return manager.defaultLanguage
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return manager.defaultLanguage
	}
	base, _ := tag.Base()
	if slices.Contains(manager.supported, base.String()) {
		return base.String()
	}
	return manager.defaultLanguage
}

func (manager *Manager) DetectFromAcceptLanguage(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return manager.defaultLanguage
	}
	preferred, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(preferred) == 0 {
		return manager.defaultLanguage
	}
	matched, _, confidence := manager.matcher.Match(preferred...)
	if confidence == language.No {
		return manager.defaultLanguage
	}
	return manager.NormalizeLanguage(matched.String())
}

// Messages returns the catalog for language. Callers must not modify it.
func (manager *Manager) Messages(language string) map[string]string {
	return manager.catalogs[manager.NormalizeLanguage(language)]
}

func (manager *Manager) Translate(language string, key string) string {
	if value, ok := manager.Messages(language)[key]; ok {
		return value
	}
	return key
}

func (manager *Manager) Translatef(language string, key string, args ...any) string {
	return fmt.Sprintf(manager.Translate(language, key), args...)
}

func (manager *Manager) MonthName(lang string, month time.Month) string {
	return manager.Translate(lang, fmt.Sprintf("month.%d", int(month)))
}

func (manager *Manager) WeekdayName(lang string, weekday time.Weekday) string {
	return manager.Translate(lang, fmt.Sprintf("weekday.%d", int(weekday)))
}

func (manager *Manager) WeekdayShortName(lang string, weekday time.Weekday) string {
	return manager.Translate(lang, fmt.Sprintf("weekday.short.%d", int(weekday)))
}

// FormatLongDate renders e.g. "Saturday, 3 May".
func (manager *Manager) FormatLongDate(lang string, value time.Time) string {
	return fmt.Sprintf("%s, %d %s", manager.WeekdayName(lang, value.Weekday()), value.Day(), manager.MonthName(lang, value.Month()))
}

func (manager *Manager) FormatMonthYear(lang string, value time.Time) string {
	return fmt.Sprintf("%s %d", manager.MonthName(lang, value.Month()), value.Year())
}
