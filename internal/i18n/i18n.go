// Package i18n holds the localized UI strings, keyed by locale code.
//
// The catalog ships embedded (locales.yaml) and is parsed once. An override
// file may replace or add locales at startup; after that the catalog is
// read-only and safe to share.
package i18n

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Locale is a two-letter language code such as "en".
type Locale string

const (
	English  Locale = "en"
	German   Locale = "de"
	Spanish  Locale = "es"
	Estonian Locale = "et"

	// Fallback is used whenever a lookup misses.
	Fallback = English
)

//go:embed locales.yaml
var embedded []byte

// Strings is the full set of UI strings for one locale.
type Strings struct {
	Code                string   `yaml:"code"`
	Name                string   `yaml:"name"`
	ConsentTitle        string   `yaml:"consent_title"`
	ConsentBody         string   `yaml:"consent_body"`
	AgreeButton         string   `yaml:"agree_button"`
	StartTitle          string   `yaml:"start_title"`
	NamePlaceholder     string   `yaml:"name_placeholder"`
	EmailPlaceholder    string   `yaml:"email_placeholder"`
	StartButton         string   `yaml:"start_button"`
	ResponsePlaceholder string   `yaml:"response_placeholder"`
	SendButton          string   `yaml:"send_button"`
	DownloadButton      string   `yaml:"download_button"`
	Typing              string   `yaml:"typing"`
	QuestionLabelFmt    string   `yaml:"question_label"`
	FollowupFirstFmt    string   `yaml:"followup_first_label"`
	FollowupMoreFmt     string   `yaml:"followup_more_label"`
	GuidelinesLabel     string   `yaml:"guidelines_label"`
	MissingNameEmail    string   `yaml:"missing_name_email"`
	MissingResponse     string   `yaml:"missing_response"`
	AnswerFailed        string   `yaml:"answer_failed"`
	ResumedFmt          string   `yaml:"resumed"`
	DownloadedFmt       string   `yaml:"downloaded"`
	Intro               []string `yaml:"intro"`
}

// Locale returns the strings' locale code.
func (s Strings) Locale() Locale {
	return Locale(s.Code)
}

// QuestionLabel returns the label of main question n (1-based).
func (s Strings) QuestionLabel(n int) string {
	return fmt.Sprintf(s.QuestionLabelFmt, n)
}

// FollowupLabel returns the label of a follow-up to main question n.
// first selects the phrasing used when no follow-up for n was shown yet.
func (s Strings) FollowupLabel(n int, first bool) string {
	if first {
		return fmt.Sprintf(s.FollowupFirstFmt, n)
	}
	return fmt.Sprintf(s.FollowupMoreFmt, n)
}

// Resumed returns the notice shown after a session was resumed at question n.
func (s Strings) Resumed(n int) string {
	return fmt.Sprintf(s.ResumedFmt, n)
}

// Downloaded returns the status line shown after the transcript was saved.
func (s Strings) Downloaded(path string) string {
	return fmt.Sprintf(s.DownloadedFmt, path)
}

// validate reports the first missing or malformed field.
func (s Strings) validate() error {
	if s.Code == "" {
		return errors.New("missing code")
	}
	required := map[string]string{
		"name":                 s.Name,
		"consent_title":        s.ConsentTitle,
		"consent_body":         s.ConsentBody,
		"agree_button":         s.AgreeButton,
		"start_button":         s.StartButton,
		"send_button":          s.SendButton,
		"download_button":      s.DownloadButton,
		"typing":               s.Typing,
		"guidelines_label":     s.GuidelinesLabel,
		"missing_name_email":   s.MissingNameEmail,
		"missing_response":     s.MissingResponse,
		"answer_failed":        s.AnswerFailed,
		"question_label":       s.QuestionLabelFmt,
		"followup_first_label": s.FollowupFirstFmt,
		"followup_more_label":  s.FollowupMoreFmt,
		"resumed":              s.ResumedFmt,
	}
	for key, v := range required {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("locale %q: missing %s", s.Code, key)
		}
	}
	for key, v := range map[string]string{
		"question_label":       s.QuestionLabelFmt,
		"followup_first_label": s.FollowupFirstFmt,
		"followup_more_label":  s.FollowupMoreFmt,
		"resumed":              s.ResumedFmt,
	} {
		if strings.Count(v, "%d") != 1 {
			return fmt.Errorf("locale %q: %s must contain exactly one %%d", s.Code, key)
		}
	}
	if s.DownloadedFmt != "" && strings.Count(s.DownloadedFmt, "%s") != 1 {
		return fmt.Errorf("locale %q: downloaded must contain exactly one %%s", s.Code)
	}
	if len(s.Intro) == 0 {
		return fmt.Errorf("locale %q: missing intro messages", s.Code)
	}
	return nil
}

// Catalog maps locale codes to their strings, preserving file order.
type Catalog struct {
	order   []Locale
	locales map[Locale]Strings
}

// Parse builds a Catalog from YAML data (a list of locale documents).
func Parse(data []byte) (*Catalog, error) {
	c := &Catalog{locales: make(map[Locale]Strings)}
	if err := c.merge(data); err != nil {
		return nil, err
	}
	if len(c.order) == 0 {
		return nil, errors.New("catalog has no locales")
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. It panics if the embedded file is
// invalid, which the package tests guard against.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(embedded)
		if err != nil {
			panic(fmt.Sprintf("i18n: embedded catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Load returns a copy of the embedded catalog with the locales in the
// override file (if any) merged over it.
func Load(overridePath string) (*Catalog, error) {
	c := Default().clone()
	if overridePath == "" {
		return c, nil
	}
	data, err := os.ReadFile(overridePath)
	if err != nil {
		return nil, fmt.Errorf("read locales file: %w", err)
	}
	if err := c.merge(data); err != nil {
		return nil, fmt.Errorf("locales file %s: %w", overridePath, err)
	}
	return c, nil
}

func (c *Catalog) merge(data []byte) error {
	var list []Strings
	if err := yaml.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}
	for _, s := range list {
		s.Code = strings.ToLower(strings.TrimSpace(s.Code))
		if err := s.validate(); err != nil {
			return err
		}
		code := Locale(s.Code)
		if _, exists := c.locales[code]; !exists {
			c.order = append(c.order, code)
		}
		c.locales[code] = s
	}
	return nil
}

func (c *Catalog) clone() *Catalog {
	out := &Catalog{
		order:   append([]Locale(nil), c.order...),
		locales: make(map[Locale]Strings, len(c.locales)),
	}
	for k, v := range c.locales {
		out.locales[k] = v
	}
	return out
}

// Lookup returns the strings for code and whether the locale exists.
func (c *Catalog) Lookup(code string) (Strings, bool) {
	s, ok := c.locales[Locale(strings.ToLower(strings.TrimSpace(code)))]
	return s, ok
}

// Get returns the strings for l, falling back to English.
func (c *Catalog) Get(l Locale) Strings {
	if s, ok := c.locales[l]; ok {
		return s
	}
	if s, ok := c.locales[Fallback]; ok {
		return s
	}
	return c.locales[c.order[0]]
}

// Locales returns the known locales in catalog order.
func (c *Catalog) Locales() []Locale {
	return append([]Locale(nil), c.order...)
}
