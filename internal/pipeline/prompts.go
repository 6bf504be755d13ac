package pipeline

import (
	"fmt"
	"strings"

	"sitegen/internal/domain"
)

func analysisPrompt(info domain.BusinessInfo) string {
	return fmt.Sprintf(`You are a business analysis expert. Respond with ONLY valid JSON, no surrounding text or markdown.

Analyze this business and provide insights:

Business: %s
Description: %s
Services: %s
Target Audience: %s

Return ONLY this JSON structure:
{
  "key_strengths": ["strength1", "strength2", "strength3"],
  "customer_needs": ["need1", "need2", "need3"],
  "unique_value_proposition": "A clear statement of what makes this business special",
  "tone_of_voice": "professional",
  "competitive_advantages": ["advantage1", "advantage2"]
}`, info.BusinessName, info.Description, info.Services, info.TargetAudience)
}

func designPrompt(info domain.BusinessInfo, analysis domain.AnalysisResult) string {
	tone := analysis.ToneOfVoice
	if strings.TrimSpace(tone) == "" {
		tone = "professional"
	}
	return fmt.Sprintf(`You are an expert UI/UX designer. Respond with ONLY valid JSON, no surrounding text or markdown.

Create design suggestions for this business:

Business: %s
Industry: %s
Target Audience: %s
Color Preference: %s
Style Preference: %s
Tone: %s

Every color value must be a valid CSS hex or rgb() literal, and fonts must be real font-family names.
Return ONLY this JSON structure:
{
  "primary_color": "#2c3e50",
  "secondary_color": "#3498db",
  "accent_color": "#e74c3c",
  "background_color": "#ffffff",
  "text_color": "#333333",
  "gradient_primary": "linear-gradient(135deg, #667eea 0%%, #764ba2 100%%)",
  "gradient_secondary": "linear-gradient(135deg, #f093fb 0%%, #f5576c 100%%)",
  "font_family": "'Inter', 'Segoe UI', sans-serif",
  "heading_font": "'Playfair Display', 'Georgia', serif",
  "layout_style": "modern with animations and interactions"
}`, info.BusinessName, info.Description, info.TargetAudience, info.ColorPreference, info.StylePreference, tone)
}

func contentPrompt(info domain.BusinessInfo, analysis domain.AnalysisResult) string {
	return fmt.Sprintf(`You are a web copywriting expert. Respond with ONLY valid JSON, no surrounding text or markdown.

Write website content for this business:

Business: %s
Description: %s
Services: %s
Target Audience: %s
Key Strengths: %s
Value Proposition: %s
Tone: %s

Write one service entry for EVERY listed service.
Return ONLY this JSON structure:
{
  "hero_headline": "Welcome to %s",
  "hero_subtext": "Professional service description",
  "hero_cta": "Get Started",
  "about_title": "About Us",
  "about_text": "About section content",
  "services_title": "Our Services",
  "services_intro": "Brief intro to services",
  "service_items": [
    {"name": "Service 1", "description": "Description"},
    {"name": "Service 2", "description": "Description"}
  ],
  "cta_section_title": "Ready to Get Started?",
  "cta_text": "Contact us today",
  "cta_button": "Contact Us",
  "footer_text": "Footer text about the business"
}`,
		info.BusinessName, info.Description, strings.Join(info.ServiceList(), ", "), info.TargetAudience,
		strings.Join(analysis.KeyStrengths, ", "), analysis.ValueProposition, analysis.ToneOfVoice,
		info.BusinessName)
}
