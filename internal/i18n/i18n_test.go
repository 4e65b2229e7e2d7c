package i18n

import (
	"path/filepath"
	"runtime"
	"testing"
	"testing/fstest"
	"time"
)

func newTestManager(t *testing.T, defaultLanguage string) *Manager {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("resolve test file path: runtime.Caller failed")
	}
	manager, err := NewManager(defaultLanguage, filepath.Join(filepath.Dir(thisFile), "locales"))
	if err != nil {
		t.Fatalf("NewManager() unexpected error: %v", err)
	}
	return manager
}

func TestNewManagerDefaultsToRomanian(t *testing.T) {
	manager := newTestManager(t, "")
	if got := manager.DefaultLanguage(); got != LangRO {
		t.Fatalf("DefaultLanguage() = %q, want %q", got, LangRO)
	}

	manager = newTestManager(t, "EN")
	if got := manager.DefaultLanguage(); got != LangEN {
		t.Fatalf("DefaultLanguage() = %q, want %q", got, LangEN)
	}

	manager = newTestManager(t, "de")
	if got := manager.DefaultLanguage(); got != LangRO {
		t.Fatalf("unsupported default should fall back to ro, got %q", got)
	}
}

func TestNewManagerRejectsMissingDir(t *testing.T) {
	if _, err := NewManager(LangRO, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing locales dir")
	}
}

func TestDetectFromAcceptLanguage(t *testing.T) {
	manager := newTestManager(t, LangRO)

	cases := map[string]string{
		"":                        LangRO,
		"en-US,en;q=0.9":          LangEN,
		"ro-RO,ro;q=0.9,en;q=0.8": LangRO,
		"de-DE,de;q=0.9":          LangRO,
		"fr;q=0.9, en-GB;q=0.8":   LangEN,
	}
	for header, want := range cases {
		if got := manager.DetectFromAcceptLanguage(header); got != want {
			t.Errorf("DetectFromAcceptLanguage(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestTranslateFallsBackToKey(t *testing.T) {
	manager := newTestManager(t, LangRO)

	if got := manager.Translate(LangEN, "nav.home"); got != "Home" {
		t.Fatalf("Translate(en, nav.home) = %q", got)
	}
	if got := manager.Translate(LangEN, "missing.key"); got != "missing.key" {
		t.Fatalf("missing key should translate to itself, got %q", got)
	}
}

func TestDateNames(t *testing.T) {
	manager := newTestManager(t, LangRO)
	date := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)

	if got := manager.FormatLongDate(LangEN, date); got != "Friday, 14 March" {
		t.Fatalf("FormatLongDate(en) = %q", got)
	}
	if got := manager.FormatLongDate(LangRO, date); got != "vineri, 14 martie" {
		t.Fatalf("FormatLongDate(ro) = %q", got)
	}
	if got := manager.FormatMonthYear(LangEN, date); got != "March 2025" {
		t.Fatalf("FormatMonthYear(en) = %q", got)
	}
	if got := manager.WeekdayShortName(LangRO, time.Sunday); got != "Dum" {
		t.Fatalf("WeekdayShortName(ro, Sunday) = %q", got)
	}
}

func TestNewManagerFSFallsBackToDefaultCatalog(t *testing.T) {
	locales := fstest.MapFS{
		"ro.json":   {Data: []byte(`{"nav.home": "Acasă", "nav.blog": "Blog"}`)},
		"en.json":   {Data: []byte(`{"nav.home": "Home", "nav.blog": "  "}`)},
		"notes.txt": {Data: []byte("ignored")},
	}
	manager, err := NewManagerFS(LangRO, locales)
	if err != nil {
		t.Fatalf("NewManagerFS() unexpected error: %v", err)
	}

	if got := manager.Translate("en-GB", "nav.home"); got != "Home" {
		t.Fatalf("Translate(en-GB, nav.home) = %q", got)
	}
	if got := manager.Translate(LangEN, "nav.blog"); got != "Blog" {
		t.Fatalf("blank value should fall back to the default catalog, got %q", got)
	}
	if got := manager.SupportedLanguages(); len(got) != 2 || got[0] != LangEN || got[1] != LangRO {
		t.Fatalf("SupportedLanguages() = %v", got)
	}
}

func TestNewManagerFSRequiresBothLocales(t *testing.T) {
	_, err := NewManagerFS(LangRO, fstest.MapFS{"en.json": {Data: []byte(`{"a": "b"}`)}})
	if err == nil {
		t.Fatal("expected error when ro.json is missing")
	}

	_, err = NewManagerFS(LangRO, fstest.MapFS{
		"en.json": {Data: []byte(`{"a": "b"}`)},
		"ro.json": {Data: []byte(`{}`)},
	})
	if err == nil {
		t.Fatal("expected error for an empty locale")
	}
}
