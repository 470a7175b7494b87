package infograph

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ThemeAttr a styling attribute of a node or edge
type ThemeAttr string

const (
	ThemeAttrAnimate           ThemeAttr = "animate"
	ThemeAttrShapeColor        ThemeAttr = "shape_color"
	ThemeAttrStrokeStyle       ThemeAttr = "stroke_style"
	ThemeAttrStrokeWidth       ThemeAttr = "stroke_width"
	ThemeAttrStrokeShadeNormal ThemeAttr = "stroke_shade_normal"
	ThemeAttrStrokeShadeHover  ThemeAttr = "stroke_shade_hover"
	ThemeAttrStrokeShadeFocus  ThemeAttr = "stroke_shade_focus"
	ThemeAttrStrokeShadeActive ThemeAttr = "stroke_shade_active"
	ThemeAttrFillShadeNormal   ThemeAttr = "fill_shade_normal"
	ThemeAttrFillShadeHover    ThemeAttr = "fill_shade_hover"
	ThemeAttrFillShadeFocus    ThemeAttr = "fill_shade_focus"
	ThemeAttrFillShadeActive   ThemeAttr = "fill_shade_active"
)

func (a ThemeAttr) MarshalText() ([]byte, error) {
	return []byte(a), nil
}

func (a *ThemeAttr) UnmarshalText(text []byte) error {
	*a = ThemeAttr(text)
	return nil
}

// CSSClassPartials styling attributes of one node or edge
type CSSClassPartials = orderedmap.OrderedMap[ThemeAttr, string]

// Theme styles keyed by node or edge id
type Theme struct {
	Styles *orderedmap.OrderedMap[string, *CSSClassPartials] `json:"styles" yaml:"styles"`
}

func NewTheme() Theme {
	return Theme{
		Styles: orderedmap.New[string, *CSSClassPartials](),
	}
}

// Style returns the attributes of a node or edge
func (t Theme) Style(id string) (*CSSClassPartials, bool) {
	if t.Styles == nil {
		return nil, false
	}
	return t.Styles.Get(id)
}

// Merge sets the given attributes on top of any existing ones
func (t Theme) Merge(id string, partials *CSSClassPartials) {
	existing, ok := t.Styles.Get(id)
	if !ok {
		t.Styles.Set(id, partials)
		return
	}
	for pair := partials.Oldest(); pair != nil; pair = pair.Next() {
		existing.Set(pair.Key, pair.Value)
	}
}

type attrValue struct {
	attr  ThemeAttr
	value string
}

func newPartials(values ...attrValue) *CSSClassPartials {
	p := orderedmap.New[ThemeAttr, string](len(values))
	for _, v := range values {
		p.Set(v.attr, v.value)
	}
	return p
}

func partialsLight() *CSSClassPartials {
	return newPartials(
		attrValue{ThemeAttrStrokeStyle, "dotted"},
		attrValue{ThemeAttrStrokeShadeNormal, "300"},
		attrValue{ThemeAttrStrokeShadeHover, "300"},
		attrValue{ThemeAttrStrokeShadeFocus, "400"},
		attrValue{ThemeAttrStrokeShadeActive, "500"},
		attrValue{ThemeAttrFillShadeNormal, "50"},
		attrValue{ThemeAttrFillShadeHover, "50"},
		attrValue{ThemeAttrFillShadeFocus, "100"},
		attrValue{ThemeAttrFillShadeActive, "200"},
	)
}

func partialsLightColored(color string) *CSSClassPartials {
	p := partialsLight()
	p.Set(ThemeAttrShapeColor, color)
	return p
}

func partialsPush() *CSSClassPartials {
	return newPartials(
		attrValue{ThemeAttrAnimate, "[stroke-dashoffset-move_1s_linear_infinite]"},
		attrValue{ThemeAttrShapeColor, "blue"},
		attrValue{ThemeAttrStrokeStyle, "dasharray:0,40,1,2,1,2,2,2,4,2,8,2,20,50"},
		attrValue{ThemeAttrStrokeShadeNormal, "600"},
		attrValue{ThemeAttrFillShadeNormal, "500"},
	)
}

func partialsPullRequest() *CSSClassPartials {
	return newPartials(
		attrValue{ThemeAttrAnimate, "[stroke-dashoffset-move-request_1.5s_linear_infinite]"},
		attrValue{ThemeAttrShapeColor, "blue"},
		attrValue{ThemeAttrStrokeStyle, "dasharray:0,50,12,2,4,2,2,2,1,2,1,120"},
		attrValue{ThemeAttrStrokeWidth, "[1px]"},
		attrValue{ThemeAttrStrokeShadeNormal, "600"},
		attrValue{ThemeAttrFillShadeNormal, "500"},
	)
}

func partialsPullResponse() *CSSClassPartials {
	return newPartials(
		attrValue{ThemeAttrAnimate, "[stroke-dashoffset-move-response_1.5s_linear_infinite]"},
		attrValue{ThemeAttrShapeColor, "blue"},
		attrValue{ThemeAttrStrokeStyle, "dasharray:0,120,1,2,1,2,2,2,4,2,8,2,20,50"},
		attrValue{ThemeAttrStrokeWidth, "[2px]"},
		attrValue{ThemeAttrStrokeShadeNormal, "600"},
		attrValue{ThemeAttrFillShadeNormal, "500"},
	)
}

func partialsWithin() *CSSClassPartials {
	return newPartials(
		attrValue{ThemeAttrAnimate, "[stroke-dashoffset-move_1s_linear_infinite]"},
		attrValue{ThemeAttrShapeColor, "blue"},
		attrValue{ThemeAttrStrokeStyle, "dashed"},
		attrValue{ThemeAttrStrokeShadeNormal, "600"},
	)
}

// CSS keyframes referenced by the animate attributes
const CSS = `
@keyframes stroke-dashoffset-move {
  0%   { stroke-dashoffset: 136; }
  100% { stroke-dashoffset: 0; }
}
@keyframes stroke-dashoffset-move-request {
  0%   { stroke-dashoffset: 0; }
  100% { stroke-dashoffset: 198; }
}
@keyframes stroke-dashoffset-move-response {
  0%   { stroke-dashoffset: 0; }
  100% { stroke-dashoffset: -218; }
}
`
