package moderation

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestModerator(t *testing.T, words []string) Moderator {
	m, err := NewModerator(words, '*', slog.Default())
	require.NoError(t, err)
	return m
}

func TestCensor_PlainMatch(t *testing.T) {
	req := require.New(t)
	m := newTestModerator(t, []string{"scam", "fraud"})

	censored, found := m.Censor("this is a scam, pure fraud")

	req.Equal("this is a ****, pure *****", censored)
	req.Len(found, 2)
}

func TestCensor_LeetSpeakVariants(t *testing.T) {
	req := require.New(t)
	m := newTestModerator(t, []string{"scam"})

	cases := []string{"5c4m", "SCAM", "s.c.a.m", "$cam"}
	for _, input := range cases {
		censored, found := m.Censor(input)
		req.NotEmpty(found, "expected %q to be detected", input)
		req.NotContains(strings.ToLower(censored), "cam", "input %q leaked through: %q", input, censored)
	}
}

func TestCensor_MultiWordPattern(t *testing.T) {
	req := require.New(t)
	m := newTestModerator(t, []string{"free money"})

	censored, found := m.Censor("get your free   money today")

	req.Len(found, 1)
	req.NotContains(censored, "money")
	req.Contains(censored, "today", "text after the match must survive")
}

func TestCensor_NoMatchReturnsOriginal(t *testing.T) {
	req := require.New(t)
	m := newTestModerator(t, []string{"scam"})

	original := "a perfectly innocent message"
	censored, found := m.Censor(original)

	req.Equal(original, censored)
	req.Empty(found)
}

func TestCensor_PreservesUncensoredRunes(t *testing.T) {
	req := require.New(t)
	m := newTestModerator(t, []string{"lottery"})

	censored, _ := m.Censor("you won the lottery! congrats")

	req.Contains(censored, "you won the ")
	req.Contains(censored, "! congrats")
	req.NotContains(censored, "lottery")
}

func TestLoadCensoredWords_EmbeddedDictionaries(t *testing.T) {
	req := require.New(t)

	data, err := LoadCensoredWords()
	req.NoError(err)
	req.NotEmpty(data.Words)
	req.Contains(data.Languages, "en")
	req.Contains(data.Languages, "fr")
}
