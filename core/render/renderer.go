// ABOUTME: Page renderer fills the embedded HTML template with the report and gauge
// ABOUTME: Only the synthesized fragment is trusted; every other value is escaped

package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"market-radar/core/domain"
)

// TimestampLayout is the visible "last analyzed" format
const TimestampLayout = "2006-01-02 15:04:05"

//go:embed template.html
var pageTemplate string

// Options configures the renderer
type Options struct {
	// Location is the civil time zone of the timestamp; defaults to UTC
	Location *time.Location

	// Now is the clock; defaults to time.Now
	Now func() time.Time

	// Template replaces the embedded page template when set
	Template string
}

// Renderer produces the final HTML document
type Renderer struct {
	tmpl *template.Template
	loc  *time.Location
	now  func() time.Time
}

// pageData is every value the template may reference
type pageData struct {
	TitleDate   string
	Timestamp   string
	ZoneLabel   string
	Fragment    template.HTML
	Score       int
	RatingLabel string
	GaugeColor  string
	AxisStops   [][]interface{}
}

// NewRenderer parses the page template once
func NewRenderer(opts Options) (*Renderer, error) {
	text := opts.Template
	if text == "" {
		text = pageTemplate
	}

	tmpl, err := template.New("page").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Renderer{tmpl: tmpl, loc: opts.Location, now: opts.Now}, nil
}

// Render executes the template. Any unresolved field fails the render.
func (r *Renderer) Render(fragment domain.ReportFragment, reading domain.SentimentReading) ([]byte, error) {
	now := r.now().In(r.loc)

	data := pageData{
		TitleDate:   now.Format("2006-01-02"),
		Timestamp:   now.Format(TimestampLayout),
		ZoneLabel:   r.loc.String(),
		Fragment:    template.HTML(fragment),
		Score:       reading.Score,
		RatingLabel: reading.Rating.Label(),
		GaugeColor:  ColorForScore(reading.Score),
		AxisStops:   axisStops(),
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}
