// Package render fills the character sheet template from a record.
//
// A template is parsed once into a flat node list: literal text, {{key}}
// placeholders, the avatar marker, the no-photo text and the ability card
// region. Rendering is a single pass over those nodes, so substituted values
// are never re-scanned for tokens.
package render

import (
	"context"
	_ "embed"
	"strings"

	"github.com/KirkDiggler/agency-sheet/internal/entities/agency"
)

//go:embed assets/template.html
var defaultTemplateSource string

// DefaultTemplateSource returns the built-in sheet template.
func DefaultTemplateSource() string {
	return defaultTemplateSource
}

// DefaultTemplate parses the built-in sheet template.
func DefaultTemplate() *Template {
	return Parse(defaultTemplateSource)
}

// Execute renders the record. Relative portrait paths are resolved against
// projectRoot when they do not exist as given.
func (t *Template) Execute(ctx context.Context, rec agency.Record, projectRoot string) (string, error) {
	img, hasImage := ImageTag(ctx, rec.ImagePath, projectRoot)

	var b strings.Builder
	if err := t.write(&b, t.nodes, rec, img, hasImage); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (t *Template) write(b *strings.Builder, nodes []node, rec agency.Record, img string, hasImage bool) error {
	for _, n := range nodes {
		switch n.kind {
		case nodeText:
			b.WriteString(n.text)
		case nodePlaceholder:
			b.WriteString(rec.Get(n.text))
		case nodeAvatar:
			if hasImage {
				b.WriteString(img)
			} else {
				b.WriteString(n.text)
			}
		case nodeNoPhoto:
			if !hasImage {
				b.WriteString(n.text)
			}
		case nodeAbilities:
			if len(rec.Abilities) == 0 {
				if err := t.write(b, n.children, rec, img, hasImage); err != nil {
					return err
				}
				continue
			}
			cards, err := renderCards(rec.Abilities)
			if err != nil {
				return err
			}
			b.WriteString(cards)
			b.WriteString("\n")
		}
	}
	return nil
}
