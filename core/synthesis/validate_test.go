package synthesis

import (
	"testing"

	apperrors "market-radar/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validFragment = `<h2 class="section-title">热门个股</h2>
<div class="stock-card">
  <div class="ticker">NVDA</div>
  <p>财报前讨论热度最高。</p>
  <blockquote class="quote">
    <p class="quote-en">Loaded up on calls before the print</p>
    <p class="quote-zh">财报前加仓了看涨期权</p>
  </blockquote>
</div>
<h2 class="section-title">AI 产业链</h2>
<div class="track-card"><h3>光通信</h3><p>CPO 讨论升温。</p></div>`

func TestValidateFragment_Valid(t *testing.T) {
	assert.NoError(t, ValidateFragment(validFragment))
}

func TestValidateFragment_Violations(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		issue    string
	}{
		{"empty", "   ", "fragment is empty"},
		{"no section header", `<div class="track-card">x</div>`, "section header"},
		{"script", `<h2 class="section-title">A</h2><script>alert(1)</script>`, "disallowed <script>"},
		{"full document", `<html><body><h2 class="section-title">A</h2></body></html>`, "disallowed <html>"},
		{"iframe", `<h2 class="section-title">A</h2><iframe src="x"></iframe>`, "disallowed <iframe>"},
		{"markdown bold", `<h2 class="section-title">**A**</h2>`, "markdown bold"},
		{
			"stock card without ticker",
			`<h2 class="section-title">A</h2><div class="stock-card"><p>NVDA</p></div>`,
			"stock card 1 has no .ticker",
		},
		{
			"ticker holding a quote",
			`<h2 class="section-title">A</h2><div class="stock-card"><div class="ticker">NVDA <blockquote class="quote"><p class="quote-en">x</p><p class="quote-zh">y</p></blockquote></div></div>`,
			"mixes a quote",
		},
		{
			"quote without translation",
			`<h2 class="section-title">A</h2><blockquote class="quote"><p class="quote-en">calls</p></blockquote>`,
			"quote 1 has no .quote-zh",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFragment(tt.fragment)
			require.Error(t, err)
			assert.True(t, apperrors.IsFragment(err))
			assert.Contains(t, err.Error(), tt.issue)
		})
	}
}

func TestValidateFragment_ListsEveryIssue(t *testing.T) {
	err := ValidateFragment(`<style>p{}</style><div class="stock-card"></div><blockquote class="quote"></blockquote>`)

	var fe *apperrors.FragmentError
	require.ErrorAs(t, err, &fe)
	assert.Len(t, fe.Issues, 5)
}
