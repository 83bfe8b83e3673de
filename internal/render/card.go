package render

import (
	_ "embed"
	"html"
	"strings"
	"text/template"

	"github.com/KirkDiggler/agency-sheet/internal/entities/agency"
)

//go:embed assets/card.tmpl
var cardSource string

var cardTemplate = template.Must(template.New("card").
	Funcs(template.FuncMap{"attr": html.EscapeString}).
	Parse(strings.TrimSuffix(cardSource, "\n")))

// renderCards builds the ability cards, at most MaxAbilities of them, each
// starting on a new line and separated by newlines.
func renderCards(abilities []agency.AbilityView) (string, error) {
	var b strings.Builder
	for i, ability := range abilities {
		if i >= agency.MaxAbilities {
			break
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if err := cardTemplate.Execute(&b, ability); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}
