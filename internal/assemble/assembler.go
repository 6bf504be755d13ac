// Package assemble renders the final HTML document from a loaded template
// and the merged pipeline state. Rendering is a pure function: given
// well-formed inputs it cannot fail, and it performs no I/O.
package assemble

import (
	"fmt"
	"html"
	"strings"

	"sitegen/internal/domain"
	"sitegen/internal/template"
)

// Render substitutes every placeholder token in the template document in a
// single pass. Tokens use the `${name}` delimiter, so CSS braces in the
// template's stylesheet are never substitution candidates.
func Render(tpl *template.Template, info domain.BusinessInfo, design domain.DesignTokens, content domain.ContentBlock, images domain.ImageSet) string {
	replacements := map[string]string{
		"business_name": html.EscapeString(info.BusinessName),

		"primary_color":      design.PrimaryColor,
		"secondary_color":    design.SecondaryColor,
		"accent_color":       design.AccentColor,
		"background_color":   design.BackgroundColor,
		"text_color":         design.TextColor,
		"gradient_primary":   design.GradientPrimary,
		"gradient_secondary": design.GradientSecondary,
		"font_family":        design.FontFamily,
		"heading_font":       design.HeadingFont,

		"hero_headline":     html.EscapeString(content.HeroHeadline),
		"hero_subtext":      html.EscapeString(content.HeroSubtext),
		"hero_cta":          html.EscapeString(content.HeroCTA),
		"about_title":       html.EscapeString(content.AboutTitle),
		"about_text":        html.EscapeString(content.AboutText),
		"services_title":    html.EscapeString(content.ServicesTitle),
		"services_intro":    html.EscapeString(content.ServicesIntro),
		"cta_section_title": html.EscapeString(content.CTATitle),
		"cta_text":          html.EscapeString(content.CTAText),
		"cta_button":        html.EscapeString(content.CTAButton),
		"footer_text":       html.EscapeString(content.FooterText),

		"hero_image":  html.EscapeString(images[domain.SlotHero]),
		"about_image": html.EscapeString(images[domain.SlotAbout]),
		"cta_image":   html.EscapeString(images[domain.SlotCTA]),

		"services_html":   ServicesHTML(content.ServiceItems, images.ServiceURLs()),
		"contact_section": ContactSection(info),
	}

	pairs := make([]string, 0, len(replacements)*2)
	for token, value := range replacements {
		pairs = append(pairs, "${"+token+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(tpl.HTML)
}

// ServicesHTML expands the service entries into card markup. The first
// domain.MaxServiceImages cards carry their positional image; entries beyond
// that render with an icon instead.
func ServicesHTML(items []domain.ServiceItem, serviceURLs []string) string {
	var b strings.Builder
	for i, item := range items {
		name := html.EscapeString(item.Name)
		desc := html.EscapeString(item.Description)

		b.WriteString("\n                <div class=\"service-item\">")
		if i < domain.MaxServiceImages && i < len(serviceURLs) && serviceURLs[i] != "" {
			fmt.Fprintf(&b, `
                    <div class="service-image">
                        <img src="%s" alt="%s" loading="lazy">
                    </div>`, html.EscapeString(serviceURLs[i]), name)
		} else {
			b.WriteString(`
                    <div class="service-icon">&#9733;</div>`)
		}
		fmt.Fprintf(&b, `
                    <h3>%s</h3>
                    <p>%s</p>
                </div>`, name, desc)
	}
	return b.String()
}

// ContactSection renders the contact block, or an empty string when no
// contact field is set so the page never shows a bare "Contact Us" heading.
func ContactSection(info domain.BusinessInfo) string {
	if !info.HasContactInfo() {
		return ""
	}

	var lines []string
	if addr := strings.TrimSpace(info.BusinessAddress); addr != "" {
		lines = append(lines, "<p>"+html.EscapeString(addr)+"</p>")
	}
	if email := strings.TrimSpace(info.BusinessEmail); email != "" {
		escaped := html.EscapeString(email)
		lines = append(lines, `<p><a href="mailto:`+escaped+`">`+escaped+`</a></p>`)
	}
	if phone := strings.TrimSpace(info.ContactNumber); phone != "" {
		lines = append(lines, "<p>"+html.EscapeString(phone)+"</p>")
	}

	return `<section class="contact" id="contact">
        <div class="container">
            <h2>Contact Us</h2>
            <div class="contact-content">
                ` + strings.Join(lines, "\n                ") + `
            </div>
        </div>
    </section>`
}
