package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_HasAllLocales(t *testing.T) {
	c := Default()
	assert.Equal(t, []Locale{English, German, Spanish, Estonian}, c.Locales())

	for _, l := range c.Locales() {
		s, ok := c.Lookup(string(l))
		require.True(t, ok, "locale %s", l)
		assert.NotEmpty(t, s.Intro, "locale %s intro", l)
		assert.NotEmpty(t, s.AnswerFailed, "locale %s error text", l)
	}
}

func TestLabels(t *testing.T) {
	tests := []struct {
		locale   Locale
		question string
		first    string
		more     string
	}{
		{English, "Question 2", "Some more details for Question 2", "A few more details on Question 2"},
		{German, "Frage 2", "Einige weitere Details zu Frage 2", "Noch ein paar Details zu Frage 2"},
		{Spanish, "Pregunta 2", "Más información sobre la Pregunta 2", "Algunos detalles más sobre la Pregunta 2"},
		{Estonian, "Küsimus 2", "Lisateavet 2. küsimuse kohta", "Mõned täiendavad üksikasjad Küsimusele 2"},
	}
	for _, tt := range tests {
		t.Run(string(tt.locale), func(t *testing.T) {
			s := Default().Get(tt.locale)
			assert.Equal(t, tt.question, s.QuestionLabel(2))
			assert.Equal(t, tt.first, s.FollowupLabel(2, true))
			assert.Equal(t, tt.more, s.FollowupLabel(2, false))
		})
	}
}

func TestLookup_NormalizesCode(t *testing.T) {
	s, ok := Default().Lookup(" DE ")
	require.True(t, ok)
	assert.Equal(t, "Richtlinien", s.GuidelinesLabel)

	_, ok = Default().Lookup("fr")
	assert.False(t, ok)
}

func TestGet_FallsBackToEnglish(t *testing.T) {
	s := Default().Get(Locale("fr"))
	assert.Equal(t, English, s.Locale())
}

func TestParse_RejectsBadFormat(t *testing.T) {
	data := []byte(`
- code: xx
  name: Broken
  consent_title: t
  consent_body: b
  agree_button: a
  start_button: s
  send_button: s
  download_button: d
  typing: ...
  guidelines_label: g
  missing_name_email: m
  missing_response: m
  answer_failed: e
  question_label: Question
  followup_first_label: more %d
  followup_more_label: few %d
  resumed: back %d
  intro: [hi]
`)
	_, err := Parse(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "question_label")
}

func TestLoad_OverrideReplacesAndAdds(t *testing.T) {
	en, _ := Default().Lookup("en")
	override := `
- code: en
  name: English
  consent_title: Consent
  consent_body: body
  agree_button: OK
  start_button: Go
  send_button: Send
  download_button: Save
  typing: thinking...
  question_label: Q%d
  followup_first_label: More on Q%d
  followup_more_label: Even more on Q%d
  guidelines_label: Rules
  missing_name_email: need both
  missing_response: need text
  answer_failed: failed
  resumed: resume at %d
  downloaded: saved %s
  intro: [one]
- code: fr
  name: Français
  consent_title: Consentement
  consent_body: corps
  agree_button: Accepter
  start_button: Commencer
  send_button: Envoyer
  download_button: Télécharger
  typing: L'IA écrit...
  question_label: Question %d
  followup_first_label: Plus de détails sur la question %d
  followup_more_label: Encore quelques détails sur la question %d
  guidelines_label: Consignes
  missing_name_email: Nom et e-mail requis.
  missing_response: Réponse requise.
  answer_failed: Erreur.
  resumed: Reprise à la question %d.
  downloaded: Enregistré dans %s
  intro: [Bonjour]
`
	path := filepath.Join(t.TempDir(), "locales.yaml")
	require.NoError(t, os.WriteFile(path, []byte(override), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []Locale{English, German, Spanish, Estonian, Locale("fr")}, c.Locales())
	assert.Equal(t, "Q3", c.Get(English).QuestionLabel(3))

	// The embedded catalog is untouched.
	assert.Equal(t, en.QuestionLabelFmt, Default().Get(English).QuestionLabelFmt)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
