package domain

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AnalysisResult holds the business insights produced by the analysis stage.
// It feeds the prompts of the design and content stages.
type AnalysisResult struct {
	KeyStrengths          []string `json:"key_strengths"`
	CustomerNeeds         []string `json:"customer_needs"`
	ValueProposition      string   `json:"unique_value_proposition"`
	ToneOfVoice           string   `json:"tone_of_voice"`
	CompetitiveAdvantages []string `json:"competitive_advantages"`
}

// DesignTokens is the template-agnostic but template-complete set of design
// values every template's stylesheet references.
type DesignTokens struct {
	PrimaryColor      string `json:"primary_color"`
	SecondaryColor    string `json:"secondary_color"`
	AccentColor       string `json:"accent_color"`
	BackgroundColor   string `json:"background_color"`
	TextColor         string `json:"text_color"`
	GradientPrimary   string `json:"gradient_primary"`
	GradientSecondary string `json:"gradient_secondary"`
	FontFamily        string `json:"font_family"`
	HeadingFont       string `json:"heading_font"`
	LayoutStyle       string `json:"layout_style"`
}

var cssColorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{3}(?:[0-9a-fA-F]{3})?|rgba?\([0-9.,\s%]+\))$`)

// ValidCSSColor reports whether s is a hex or rgb()/rgba() color literal.
func ValidCSSColor(s string) bool {
	return cssColorPattern.MatchString(strings.TrimSpace(s))
}

// Complete reports whether the token set can safely drive a template: every
// color parses as a CSS color literal and every other field is non-empty
// free-form CSS. Free-form fields land in the document unescaped, so any
// markup characters disqualify the whole set.
func (d DesignTokens) Complete() bool {
	for _, c := range []string{d.PrimaryColor, d.SecondaryColor, d.AccentColor, d.BackgroundColor, d.TextColor} {
		if !ValidCSSColor(c) {
			return false
		}
	}
	for _, s := range []string{d.GradientPrimary, d.GradientSecondary, d.FontFamily, d.HeadingFont, d.LayoutStyle} {
		if strings.TrimSpace(s) == "" || strings.ContainsAny(s, "<>") {
			return false
		}
	}
	return true
}

// FallbackDesign is the documented degraded token set applied when the model
// returns malformed or incomplete design output.
func FallbackDesign() DesignTokens {
	return DesignTokens{
		PrimaryColor:      "#2c3e50",
		SecondaryColor:    "#3498db",
		AccentColor:       "#e74c3c",
		BackgroundColor:   "#ffffff",
		TextColor:         "#333333",
		GradientPrimary:   "linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
		GradientSecondary: "linear-gradient(135deg, #f093fb 0%, #f5576c 100%)",
		FontFamily:        "'Inter', 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif",
		HeadingFont:       "'Playfair Display', 'Georgia', serif",
		LayoutStyle:       "modern with animations and interactions",
	}
}

// ServiceItem is one entry of the services section.
type ServiceItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ContentBlock holds every copy string the templates consume.
type ContentBlock struct {
	HeroHeadline  string        `json:"hero_headline"`
	HeroSubtext   string        `json:"hero_subtext"`
	HeroCTA       string        `json:"hero_cta"`
	AboutTitle    string        `json:"about_title"`
	AboutText     string        `json:"about_text"`
	ServicesTitle string        `json:"services_title"`
	ServicesIntro string        `json:"services_intro"`
	ServiceItems  []ServiceItem `json:"service_items"`
	CTATitle      string        `json:"cta_section_title"`
	CTAText       string        `json:"cta_text"`
	CTAButton     string        `json:"cta_button"`
	FooterText    string        `json:"footer_text"`
}

// Usable reports whether the block carries enough copy to render a page.
func (c ContentBlock) Usable() bool {
	return strings.TrimSpace(c.HeroHeadline) != "" && len(c.ServiceItems) > 0
}

// PadServices guarantees at least one service entry per requested service.
// When the model returned fewer entries than the business listed, missing
// cards are derived from the raw service names with generic descriptions.
func (c *ContentBlock) PadServices(requested []string) {
	if len(c.ServiceItems) >= len(requested) {
		return
	}
	titler := cases.Title(language.Und)
	for _, name := range requested[len(c.ServiceItems):] {
		c.ServiceItems = append(c.ServiceItems, ServiceItem{
			Name:        titler.String(name),
			Description: "Professional " + strings.ToLower(name) + " services tailored to your needs.",
		})
	}
}

// Image slot names. ImageSet always carries all of them, real or placeholder.
const (
	SlotHero     = "hero"
	SlotAbout    = "about"
	SlotService1 = "service_1"
	SlotService2 = "service_2"
	SlotService3 = "service_3"
	SlotCTA      = "cta"
)

// MaxServiceImages caps how many service cards carry an image.
const MaxServiceImages = 3

// ImageSet maps semantic slot names to image URLs.
type ImageSet map[string]string

// Slots lists every slot an ImageSet must populate, in render order.
func Slots() []string {
	return []string{SlotHero, SlotAbout, SlotService1, SlotService2, SlotService3, SlotCTA}
}

// ServiceURLs returns the service slot URLs in positional order.
func (s ImageSet) ServiceURLs() []string {
	return []string{s[SlotService1], s[SlotService2], s[SlotService3]}
}

// GeneratedSite is the terminal aggregate of one successful pipeline run. It
// is immutable after construction; only its HTML bytes outlive the response,
// in object storage.
type GeneratedSite struct {
	SessionID   string
	Filename    string
	HTML        string
	Analysis    AnalysisResult
	Design      DesignTokens
	Content     ContentBlock
	Images      ImageSet
	WebsiteURL  string
	DownloadURL string
}
