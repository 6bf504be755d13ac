package domain

import (
	"errors"
	"strings"
)

const minDescriptionLength = 20

// BusinessInfo is the immutable per-request input record. It is created once
// from validated external input and never mutated by the pipeline.
type BusinessInfo struct {
	BusinessName    string `json:"business_name"`
	Description     string `json:"description"`
	Services        string `json:"services"`
	TargetAudience  string `json:"target_audience"`
	ColorPreference string `json:"color_preference"`
	StylePreference string `json:"style_preference"`
	BusinessAddress string `json:"business_address,omitempty"`
	BusinessEmail   string `json:"business_email,omitempty"`
	ContactNumber   string `json:"contact_number,omitempty"`
	TemplateID      string `json:"template_id,omitempty"`
}

// Validate checks the required fields the HTTP contract demands. TemplateID
// is allowed to be empty; the caller substitutes the configured default.
func (b BusinessInfo) Validate() error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"business_name", b.BusinessName},
		{"description", b.Description},
		{"services", b.Services},
		{"target_audience", b.TargetAudience},
		{"color_preference", b.ColorPreference},
		{"style_preference", b.StylePreference},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return errors.New("missing required fields: " + strings.Join(missing, ", "))
	}
	if len(strings.TrimSpace(b.Description)) < minDescriptionLength {
		return errors.New("description must be at least 20 characters")
	}
	return nil
}

// ServiceList splits the comma-separated services field into trimmed,
// non-empty entries, preserving order.
func (b BusinessInfo) ServiceList() []string {
	var out []string
	for _, part := range strings.Split(b.Services, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// HasContactInfo reports whether any optional contact field is set. The
// assembler only renders a contact section when this is true.
func (b BusinessInfo) HasContactInfo() bool {
	return strings.TrimSpace(b.BusinessAddress) != "" ||
		strings.TrimSpace(b.BusinessEmail) != "" ||
		strings.TrimSpace(b.ContactNumber) != ""
}
