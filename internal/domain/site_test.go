package domain

import "testing"

func TestBusinessInfoValidate(t *testing.T) {
	valid := BusinessInfo{
		BusinessName:    "Coffee Haven",
		Description:     "A cozy coffee shop serving artisan coffee and pastries",
		Services:        "Coffee, Pastries, WiFi",
		TargetAudience:  "Students",
		ColorPreference: "warm browns",
		StylePreference: "cozy modern",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate returned error for valid info: %v", err)
	}

	missing := valid
	missing.Services = ""
	if err := missing.Validate(); err == nil {
		t.Fatal("Validate accepted info without services")
	}

	short := valid
	short.Description = "too short"
	if err := short.Validate(); err == nil {
		t.Fatal("Validate accepted a description under 20 characters")
	}
}

func TestServiceList(t *testing.T) {
	info := BusinessInfo{Services: "Coffee,  Pastries , ,WiFi"}
	got := info.ServiceList()
	want := []string{"Coffee", "Pastries", "WiFi"}
	if len(got) != len(want) {
		t.Fatalf("ServiceList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ServiceList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestHasContactInfo(t *testing.T) {
	if (BusinessInfo{}).HasContactInfo() {
		t.Error("empty contact fields should report false")
	}
	if !(BusinessInfo{BusinessEmail: "hello@example.com"}).HasContactInfo() {
		t.Error("email alone should report true")
	}
}

func TestValidCSSColor(t *testing.T) {
	for _, ok := range []string{"#fff", "#2c3e50", "rgb(12, 34, 56)", "rgba(0,0,0,0.5)"} {
		if !ValidCSSColor(ok) {
			t.Errorf("ValidCSSColor(%q) = false, want true", ok)
		}
	}
	for _, bad := range []string{"", "blue-ish", "url(javascript:alert(1))", "#12345g"} {
		if ValidCSSColor(bad) {
			t.Errorf("ValidCSSColor(%q) = true, want false", bad)
		}
	}
}

func TestDesignTokensComplete(t *testing.T) {
	if !FallbackDesign().Complete() {
		t.Fatal("fallback design must always be complete")
	}
	broken := FallbackDesign()
	broken.AccentColor = "sort of red"
	if broken.Complete() {
		t.Error("Complete accepted an invalid color literal")
	}
	empty := FallbackDesign()
	empty.HeadingFont = ""
	if empty.Complete() {
		t.Error("Complete accepted an empty font family")
	}
	hostile := FallbackDesign()
	hostile.GradientPrimary = "</style><script>alert(1)</script>"
	if hostile.Complete() {
		t.Error("Complete accepted markup in a gradient")
	}
	hostileFont := FallbackDesign()
	hostileFont.FontFamily = "'Inter'<img src=x>"
	if hostileFont.Complete() {
		t.Error("Complete accepted markup in a font family")
	}
}

func TestPadServices(t *testing.T) {
	content := ContentBlock{ServiceItems: []ServiceItem{{Name: "Coffee", Description: "Single origin brews"}}}
	content.PadServices([]string{"Coffee", "Pastries", "WiFi"})
	if len(content.ServiceItems) != 3 {
		t.Fatalf("PadServices left %d items, want 3", len(content.ServiceItems))
	}
	if content.ServiceItems[0].Description != "Single origin brews" {
		t.Error("PadServices must not overwrite model-provided entries")
	}
	if content.ServiceItems[1].Name != "Pastries" {
		t.Errorf("padded name = %q, want Pastries", content.ServiceItems[1].Name)
	}
	if content.ServiceItems[2].Description == "" {
		t.Error("padded entries need a generic description")
	}
}

func TestImageSetServiceURLs(t *testing.T) {
	set := ImageSet{SlotService1: "a", SlotService2: "b", SlotService3: "c"}
	got := set.ServiceURLs()
	if got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("ServiceURLs = %v", got)
	}
	if len(Slots()) != 6 {
		t.Errorf("Slots() = %v, want 6 entries", Slots())
	}
}
