package render

import (
	"strings"

	"github.com/KirkDiggler/agency-sheet/internal/entities/agency"
)

// Fixed markers of the sheet template.
const (
	AvatarMarker     = "<!-- AVATAR_PLACEHOLDER -->"
	NoPhotoText      = `<span class="text-xs">角色头像</span>`
	AbilityMarker    = "<!-- 循环 3 次生成能力卡片 (静态写死或之后用脚本) -->"
	NextPageMarker   = "<!-- 第四页"
	regionCloseTag   = "</div>"
	placeholderOpen  = "{{"
	placeholderClose = "}}"
)

// PlaceholderKeys lists the record keys substituted as {{key}} tokens.
var PlaceholderKeys = []string{
	agency.KeyName, agency.KeyPronoun, agency.KeyAgencyTitle, agency.KeyAgencyRank, agency.KeyAnomaly,
	agency.KeyReality, agency.KeyRole, agency.KeyRealityTriggers, agency.KeyOverloadRelease, agency.KeyPrimeDirective,
	agency.KeyPermittedAction1, agency.KeyPermittedAction2, agency.KeyPermittedAction3, agency.KeyPermittedAction4,
	agency.KeyAppearance, agency.KeyPersonality,
	agency.KeyQuestion1, agency.KeyQuestion2, agency.KeyQuestion3, agency.KeyQuestion4,
	agency.KeyQuestion5, agency.KeyQuestion6, agency.KeyQuestion7, agency.KeyNotes,
	agency.KeyFocusMax, agency.KeyDeceptionMax, agency.KeyVitalityMax, agency.KeyEmpathyMax, agency.KeyInitiativeMax,
	agency.KeyPersistenceMax, agency.KeyPresenceMax, agency.KeyExpertiseMax, agency.KeyMysteryMax,
}

var placeholderSet = func() map[string]bool {
	set := make(map[string]bool, len(PlaceholderKeys))
	for _, k := range PlaceholderKeys {
		set[k] = true
	}
	return set
}()

type nodeKind int

const (
	nodeText nodeKind = iota
	nodePlaceholder
	nodeAvatar
	nodeNoPhoto
	nodeAbilities
)

// node is one element of a parsed template. Text nodes carry literal bytes,
// placeholder nodes the record key, and the ability region its static
// content as children.
type node struct {
	kind     nodeKind
	text     string
	children []node
}

// Template is a parsed sheet template.
type Template struct {
	nodes     []node
	hasRegion bool
}

// HasAbilityRegion reports whether the ability card region was located.
func (t *Template) HasAbilityRegion() bool {
	return t.hasRegion
}

// Parse builds the template tree. The ability region runs from the ability
// marker to the container's closing tag, which is the second-to-last closing
// div before the next page marker. When those bounds cannot be found in that
// order the region is not created and its content stays literal.
func Parse(src string) *Template {
	start, end, ok := abilityRegion(src)
	if !ok {
		return &Template{nodes: tokenize(src)}
	}

	nodes := tokenize(src[:start])
	nodes = append(nodes, node{kind: nodeAbilities, children: tokenize(src[start:end])})
	nodes = append(nodes, tokenize(src[end:])...)
	return &Template{nodes: nodes, hasRegion: true}
}

func abilityRegion(src string) (start, end int, ok bool) {
	start = strings.Index(src, AbilityMarker)
	if start < 0 {
		return 0, 0, false
	}
	next := strings.Index(src, NextPageMarker)
	if next < 0 {
		next = len(src)
	}
	end = strings.LastIndex(src[:next], regionCloseTag)
	if end < 0 {
		return 0, 0, false
	}
	end = strings.LastIndex(src[:end], regionCloseTag)
	if end <= start {
		return 0, 0, false
	}
	return start, end, true
}

// tokenize splits literal template text into text, placeholder, avatar and
// no-photo nodes. Only known keys in exact {{key}} form become placeholders.
func tokenize(s string) []node {
	var nodes []node
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			nodes = append(nodes, node{kind: nodeText, text: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(s); {
		rest := s[i:]
		switch {
		case strings.HasPrefix(rest, placeholderOpen):
			if j := strings.Index(rest[len(placeholderOpen):], placeholderClose); j >= 0 {
				key := rest[len(placeholderOpen) : len(placeholderOpen)+j]
				if placeholderSet[key] {
					flush()
					nodes = append(nodes, node{kind: nodePlaceholder, text: key})
					i += len(placeholderOpen) + j + len(placeholderClose)
					continue
				}
			}
		case strings.HasPrefix(rest, AvatarMarker):
			flush()
			nodes = append(nodes, node{kind: nodeAvatar, text: AvatarMarker})
			i += len(AvatarMarker)
			continue
		case strings.HasPrefix(rest, NoPhotoText):
			flush()
			nodes = append(nodes, node{kind: nodeNoPhoto, text: NoPhotoText})
			i += len(NoPhotoText)
			continue
		}
		text.WriteByte(s[i])
		i++
	}
	flush()
	return nodes
}
