package codetiming

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultText is the report template used when none is configured.
const DefaultText = "Elapsed time: {:.4f} seconds"

// TextFunc formats the report for one elapsed duration. Configured with
// WithTextFunc it replaces template rendering entirely, which is the
// escape hatch for humanized or locale-aware output.
type TextFunc func(elapsed time.Duration) string

// LocalizedText returns a TextFunc rendering the elapsed seconds with
// the number conventions of the given language. The template is a
// printf-style format whose single argument is the elapsed time in
// seconds:
//
//	LocalizedText(language.German, "Dauer: %.2f Sekunden")
func LocalizedText(tag language.Tag, template string) TextFunc {
	printer := message.NewPrinter(tag)
	return func(elapsed time.Duration) string {
		return printer.Sprintf(template, elapsed.Seconds())
	}
}
