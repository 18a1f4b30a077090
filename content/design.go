package content

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const sectionPaddingProperty = "--section-padding"

const (
	paddingYKey = "design.sectionPaddingY"
	paddingXKey = "design.sectionPaddingX"
	ctaKey      = "design.colorCta"
)

var designVars = map[string]string{
	"design.colorBg":            "--color-bg-primary",
	"design.colorBgSecondary":   "--color-bg-secondary",
	"design.colorBgTertiary":    "--color-bg-tertiary",
	"design.colorBgAccent":      "--color-bg-accent",
	"design.colorBgDark":        "--color-bg-dark",
	"design.colorText":          "--color-text-primary",
	"design.colorTextSecondary": "--color-text-secondary",
	"design.colorTextMuted":     "--color-text-muted",
	"design.colorTextOnDark":    "--color-text-on-dark",
	"design.colorBrand":         "--color-brand",
	"design.colorBrandHover":    "--color-brand-hover",
	"design.colorCta":           "--color-cta-bg",
	"design.colorCtaHover":      "--color-cta-hover-bg",
	"design.colorAccent1":       "--color-accent-1",
	"design.colorAccent2":       "--color-accent-2",
	"design.colorAccent3":       "--color-accent-3",
	"design.colorAccent4":       "--color-accent-4",
	"design.colorAccent5":       "--color-accent-5",
	"design.colorBorder":        "--color-border",
	"design.colorBorderLight":   "--color-border-light",
	"design.fontHeadingWeight":  "--font-weight-heading",
	"design.fontBodyWeight":     "--font-weight-body",
	"design.borderRadiusSm":     "--border-radius-sm",
	"design.borderRadiusMd":     "--border-radius-md",
	"design.borderRadiusLg":     "--border-radius-lg",
	"design.borderRadiusCard":   "--border-radius-card",
	"design.transitionSpeed":    "--transition-speed",
	"design.animationDistance":  "--animation-distance",
	paddingYKey:                 sectionPaddingProperty,
	paddingXKey:                 sectionPaddingProperty,
}

var designUnits = map[string]string{
	"design.borderRadiusSm":    "px",
	"design.borderRadiusMd":    "px",
	"design.borderRadiusLg":    "px",
	"design.borderRadiusCard":  "px",
	"design.animationDistance": "px",
	"design.transitionSpeed":   "s",
	paddingYKey:                "rem",
	paddingXKey:                "rem",
}

// ctaDerived are written with the raw CTA color whenever design.colorCta is.
var ctaDerived = []string{
	"--color-cta-secondary-border",
	"--color-cta-secondary-text",
	"--color-accent-1",
}

// CSSVar returns the custom property controlled by a design key, or "".
func CSSVar(key string) string { return designVars[key] }

// Unit returns the unit suffix appended to a design value.
func Unit(key string) string { return designUnits[key] }

// Declaration is one CSS property write.
type Declaration struct {
	Property string
	Value    string
}

// Declarations returns the custom property writes for design key set to
// value. resolve supplies the current value of sibling tokens; the two
// section padding tokens compose into one property.
func Declarations(key, value string, resolve func(string) string) []Declaration {
	prop, ok := designVars[key]
	if !ok {
		return nil
	}
	switch key {
	case paddingYKey, paddingXKey:
		y, x := value, value
		if key == paddingYKey {
			x = resolve(paddingXKey)
		} else {
			y = resolve(paddingYKey)
		}
		return []Declaration{{prop, y + "rem " + x + "rem"}}
	case ctaKey:
		decls := []Declaration{{prop, value}}
		for _, d := range ctaDerived {
			decls = append(decls, Declaration{d, value})
		}
		return decls
	}
	return []Declaration{{prop, value + designUnits[key]}}
}

// DesignProperties returns every custom property a design token can write.
func DesignProperties() []string {
	seen := make(map[string]bool)
	var props []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			props = append(props, p)
		}
	}
	for _, f := range designFields {
		add(designVars[f.Key])
	}
	for _, d := range ctaDerived {
		add(d)
	}
	return props
}

// FieldType is the control used to edit a design token.
type FieldType string

const (
	FieldColor FieldType = "color"
	FieldRange FieldType = "range"
)

// Field describes a design token control.
type Field struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Group string    `json:"group"`
	Type  FieldType `json:"type"`
	Min   float64   `json:"min,omitempty"`
	Max   float64   `json:"max,omitempty"`
	Step  float64   `json:"step,omitempty"`
	Unit  string    `json:"unit,omitempty"`
}

func color(key, label, group string) Field {
	return Field{Key: key, Label: label, Group: group, Type: FieldColor}
}

func rng(key, label, group string, min, max, step float64) Field {
	return Field{Key: key, Label: label, Group: group, Type: FieldRange, Min: min, Max: max, Step: step, Unit: designUnits[key]}
}

var designFields = []Field{
	color("design.colorBg", "Primary Background", "Background Colors"),
	color("design.colorBgSecondary", "Secondary Background", "Background Colors"),
	color("design.colorBgTertiary", "Tertiary Background", "Background Colors"),
	color("design.colorBgAccent", "Accent Background", "Background Colors"),
	color("design.colorBgDark", "Dark Background", "Background Colors"),
	color("design.colorText", "Primary Text", "Text Colors"),
	color("design.colorTextSecondary", "Secondary Text", "Text Colors"),
	color("design.colorTextMuted", "Muted Text", "Text Colors"),
	color("design.colorTextOnDark", "Text on Dark", "Text Colors"),
	color("design.colorBrand", "Brand", "Brand & Accent Colors"),
	color("design.colorBrandHover", "Brand Hover", "Brand & Accent Colors"),
	color("design.colorCta", "CTA / Primary Accent", "Brand & Accent Colors"),
	color("design.colorCtaHover", "CTA Hover", "Brand & Accent Colors"),
	color("design.colorAccent1", "Accent 1 (Mauve)", "Brand & Accent Colors"),
	color("design.colorAccent2", "Accent 2 (Steel Blue)", "Brand & Accent Colors"),
	color("design.colorAccent3", "Accent 3 (Lime)", "Brand & Accent Colors"),
	color("design.colorAccent4", "Accent 4 (Orange)", "Brand & Accent Colors"),
	color("design.colorAccent5", "Accent 5 (Yellow)", "Brand & Accent Colors"),
	color("design.colorBorder", "Border", "Borders"),
	color("design.colorBorderLight", "Light Border", "Borders"),
	rng("design.borderRadiusSm", "Border Radius Small", "Shape & Motion", 0, 24, 1),
	rng("design.borderRadiusMd", "Border Radius Medium", "Shape & Motion", 0, 32, 1),
	rng("design.borderRadiusLg", "Border Radius Large", "Shape & Motion", 0, 48, 1),
	rng("design.borderRadiusCard", "Card Border Radius", "Shape & Motion", 0, 32, 1),
	rng(paddingYKey, "Section Padding", "Shape & Motion", 2, 10, 0.5),
	rng(paddingXKey, "Section Side Padding", "Shape & Motion", 0, 4, 0.25),
	rng("design.animationDistance", "Animation Distance", "Shape & Motion", 0, 80, 1),
	rng("design.transitionSpeed", "Transition Speed", "Shape & Motion", 0.1, 1.0, 0.05),
	rng("design.fontHeadingWeight", "Heading Weight", "Typography", 100, 900, 100),
	rng("design.fontBodyWeight", "Body Weight", "Typography", 300, 700, 100),
}

// DesignFields returns the design token controls in panel order.
func DesignFields() []Field {
	out := make([]Field, len(designFields))
	copy(out, designFields)
	return out
}

// DesignField returns the control for key.
func DesignField(key string) (Field, bool) {
	for _, f := range designFields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsHexColor reports whether s is a #rgb or #rrggbb color.
func IsHexColor(s string) bool { return hexColor.MatchString(s) }

// ValidateDesign rejects malformed colors and out of range numbers.
func ValidateDesign(key, value string) error {
	f, ok := DesignField(key)
	if !ok {
		return fmt.Errorf("%w: %q is not a design token", ErrInvalidKey, key)
	}
	value = strings.TrimSpace(value)
	switch f.Type {
	case FieldColor:
		if !IsHexColor(value) {
			return fmt.Errorf("%w: %s expects a hex color, got %q", ErrInvalidValue, key, value)
		}
	case FieldRange:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s expects a number, got %q", ErrInvalidValue, key, value)
		}
		if n < f.Min || n > f.Max {
			return fmt.Errorf("%w: %s must be between %g and %g", ErrInvalidValue, key, f.Min, f.Max)
		}
	}
	return nil
}
