package dashboard

import (
	"sort"
	"strings"
)

// Default palette token values. Tokens use CSS custom-property names so the
// same map styles the host page and the chart backends.
const (
	tokenAccent       = "chart-accent"
	tokenAccentSoft   = "chart-accent-soft"
	tokenGradientFrom = "chart-gradient-from"
	tokenGradientTo   = "chart-gradient-to"
	tokenText         = "chart-text"
	tokenAxisLine     = "chart-axis"
	tokenSplitLine    = "chart-split"
	tokenBackground   = "chart-bg"
)

var defaultTokens = map[string]string{
	tokenAccent:       "#c23531",
	tokenAccentSoft:   "rgba(194,53,49,0.18)",
	tokenGradientFrom: "#e98f8c",
	tokenGradientTo:   "#c23531",
	tokenText:         "#333333",
	tokenAxisLine:     "#999999",
	tokenSplitLine:    "#e6e6e6",
	tokenBackground:   "#ffffff",
}

// TokenSource supplies the current design tokens. Chart renders re-read the
// source every time, so an external theme switch takes effect on the next
// render without rebuilding any surface.
type TokenSource interface {
	Tokens() map[string]string
}

// StaticTokens is a fixed token map satisfying TokenSource.
type StaticTokens map[string]string

// Tokens returns a copy of the map.
func (s StaticTokens) Tokens() map[string]string {
	return cloneTokens(map[string]string(s))
}

// Theme is a named token set.
type Theme struct {
	Name   string
	Tokens map[string]string
}

// DefaultTheme returns the built-in light theme.
func DefaultTheme() Theme {
	return Theme{Name: "light", Tokens: cloneTokens(defaultTokens)}
}

// Source exposes the theme's tokens as a TokenSource snapshot.
func (t Theme) Source() TokenSource {
	return StaticTokens(cloneTokens(t.Tokens))
}

// CSSVariables normalizes token keys into CSS variable names.
func (t Theme) CSSVariables() map[string]string {
	if len(t.Tokens) == 0 {
		return nil
	}
	vars := make(map[string]string, len(t.Tokens))
	for key, value := range t.Tokens {
		name := normalizeCSSVariable(key)
		if name == "" {
			continue
		}
		vars[name] = value
	}
	return vars
}

// CSSVariablesInline renders the variables as a deterministic style string.
func (t Theme) CSSVariablesInline() string {
	vars := t.CSSVariables()
	if len(vars) == 0 {
		return ""
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	var builder strings.Builder
	for _, name := range names {
		if vars[name] == "" {
			continue
		}
		builder.WriteString(name)
		builder.WriteString(": ")
		builder.WriteString(vars[name])
		builder.WriteString("; ")
	}
	return strings.TrimSpace(builder.String())
}

// Clone deep-copies the theme.
func (t Theme) Clone() Theme {
	return Theme{Name: t.Name, Tokens: cloneTokens(t.Tokens)}
}

// ThemePalette is the concrete color set a chart render uses. Always built
// fresh from a TokenSource; never cached between renders.
type ThemePalette struct {
	Accent       string
	AccentSoft   string
	GradientFrom string
	GradientTo   string
	Text         string
	AxisLine     string
	SplitLine    string
	Background   string
}

// PaletteFromTokens resolves a palette, falling back to defaults for any
// missing token. Keys may carry the -- CSS prefix or not.
func PaletteFromTokens(tokens map[string]string) ThemePalette {
	return ThemePalette{
		Accent:       tokenValue(tokens, tokenAccent),
		AccentSoft:   tokenValue(tokens, tokenAccentSoft),
		GradientFrom: tokenValue(tokens, tokenGradientFrom),
		GradientTo:   tokenValue(tokens, tokenGradientTo),
		Text:         tokenValue(tokens, tokenText),
		AxisLine:     tokenValue(tokens, tokenAxisLine),
		SplitLine:    tokenValue(tokens, tokenSplitLine),
		Background:   tokenValue(tokens, tokenBackground),
	}
}

func tokenValue(tokens map[string]string, name string) string {
	if v, ok := tokens[name]; ok && v != "" {
		return v
	}
	if v, ok := tokens["--"+name]; ok && v != "" {
		return v
	}
	return defaultTokens[name]
}

func normalizeCSSVariable(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "--") {
		return name
	}
	return "--" + name
}

func cloneTokens(tokens map[string]string) map[string]string {
	if tokens == nil {
		return nil
	}
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		out[key] = value
	}
	return out
}
