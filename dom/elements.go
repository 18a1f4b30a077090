package dom

import (
	"strconv"

	"github.com/eringen/hws/content"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ElementStyleProps lists every per-element style property the panel can
// write, in panel order.
var ElementStyleProps = []string{
	"bgColor", "textColor", "fontSize", "fontWeight", "lineHeight", "letterSpacing", "textAlign",
	"paddingTop", "paddingRight", "paddingBottom", "paddingLeft", "marginTop", "marginBottom",
	"borderRadius", "borderWidth", "borderColor", "borderStyle", "opacity", "maxWidth",
	"btnBgColor", "btnTextColor", "btnBorderRadius", "btnPaddingY", "btnPaddingX", "btnHref", "btnNewTab",
	"imgBorderRadius", "imgOpacity", "imgObjectFit", "imgShadow", "imgAlt",
}

var (
	plainStyleProps = map[string]string{
		"bgColor":      "background-color",
		"textColor":    "color",
		"fontWeight":   "font-weight",
		"lineHeight":   "line-height",
		"textAlign":    "text-align",
		"borderColor":  "border-color",
		"borderStyle":  "border-style",
		"btnBgColor":   "background-color",
		"btnTextColor": "color",
		"imgObjectFit": "object-fit",
	}
	pxStyleProps = map[string][]string{
		"fontSize":        {"font-size"},
		"letterSpacing":   {"letter-spacing"},
		"paddingTop":      {"padding-top"},
		"paddingRight":    {"padding-right"},
		"paddingBottom":   {"padding-bottom"},
		"paddingLeft":     {"padding-left"},
		"marginTop":       {"margin-top"},
		"marginBottom":    {"margin-bottom"},
		"borderRadius":    {"border-radius"},
		"borderWidth":     {"border-width"},
		"maxWidth":        {"max-width"},
		"btnBorderRadius": {"border-radius"},
		"btnPaddingY":     {"padding-top", "padding-bottom"},
		"btnPaddingX":     {"padding-left", "padding-right"},
		"imgBorderRadius": {"border-radius"},
	}
)

// IsElementStyleProp reports whether prop is a known element style property.
func IsElementStyleProp(prop string) bool {
	for _, p := range ElementStyleProps {
		if p == prop {
			return true
		}
	}
	return false
}

// NumericElementStyleProp reports whether prop takes a number.
func NumericElementStyleProp(prop string) bool {
	if _, ok := pxStyleProps[prop]; ok {
		return true
	}
	return prop == "opacity" || prop == "imgOpacity" || prop == "imgShadow" || prop == "fontWeight" || prop == "lineHeight"
}

// StyleTarget returns the node element styles and sizes apply to: the
// image inside an image slot, otherwise the bound node itself.
func StyleTarget(bound *html.Node, key string) *html.Node {
	if content.Classify(key) != content.KindImage {
		return bound
	}
	if img := ImageOf(bound); img != nil {
		return img
	}
	if img := findFirst(bound, func(n *html.Node) bool { return n.DataAtom == atom.Img }); img != nil {
		return img
	}
	return bound
}

// ApplyElementStyle writes one style property. bound is the node carrying
// the binding and target is StyleTarget(bound, key). An empty value clears
// the property.
func ApplyElementStyle(bound, target *html.Node, prop, value string) {
	if css, ok := plainStyleProps[prop]; ok {
		SetStyleProperty(target, css, value)
		return
	}
	if props, ok := pxStyleProps[prop]; ok {
		v := ""
		if value != "" {
			v = value + "px"
		}
		decls := make([]content.Declaration, len(props))
		for i, p := range props {
			decls[i] = content.Declaration{Property: p, Value: v}
		}
		SetStyleProperties(target, decls)
		return
	}
	switch prop {
	case "opacity", "imgOpacity":
		SetStyleProperty(target, "opacity", percent(value))
	case "imgShadow":
		v := ""
		if value != "" {
			v = "0 4px " + value + "px rgba(0,0,0,0.15)"
		}
		SetStyleProperty(target, "box-shadow", v)
	case "btnHref":
		if bound.DataAtom == atom.A && value != "" {
			SetAttr(bound, "href", value)
		}
	case "btnNewTab":
		if bound.DataAtom != atom.A {
			return
		}
		if value == "true" {
			SetAttr(bound, "target", "_blank")
			SetAttr(bound, "rel", "noopener")
			return
		}
		RemoveAttr(bound, "target")
		RemoveAttr(bound, "rel")
	case "imgAlt":
		if target.DataAtom == atom.Img && value != "" {
			SetAttr(target, "alt", value)
		}
	}
}

func percent(value string) string {
	if value == "" {
		return ""
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return ""
	}
	return strconv.FormatFloat(f/100, 'f', -1, 64)
}

// ApplySize pins a node to w x h pixels. Zero dimensions are left alone.
func ApplySize(target *html.Node, w, h int) {
	var decls []content.Declaration
	if w > 0 {
		decls = append(decls,
			content.Declaration{Property: "width", Value: strconv.Itoa(w) + "px"},
			content.Declaration{Property: "max-width", Value: "none"})
	}
	if h > 0 {
		decls = append(decls, content.Declaration{Property: "height", Value: strconv.Itoa(h) + "px"})
	}
	SetStyleProperties(target, decls)
}

// ClearSize removes a size written by ApplySize.
func ClearSize(target *html.Node) {
	SetStyleProperties(target, []content.Declaration{
		{Property: "width"}, {Property: "height"}, {Property: "max-width"},
	})
}
