package model

import (
	"strings"
	"time"
)

// ChannelKind classifies a contact URL
type ChannelKind string

const (
	ChannelEmail    ChannelKind = "email"
	ChannelLinkedIn ChannelKind = "linkedin"
	ChannelTwitter  ChannelKind = "twitter"
	ChannelWebsite  ChannelKind = "website"
)

// ChannelKinds lists all channel kinds in stable output order
var ChannelKinds = []ChannelKind{ChannelEmail, ChannelLinkedIn, ChannelTwitter, ChannelWebsite}

// Record represents one extracted organization/founder entry
type Record struct {
	OrganizationName string                 `json:"organization_name"`          // May be empty if unknown
	PersonNames      []string               `json:"person_names,omitempty"`     // Role holders, raw line text unless refined
	Roles            map[string]string      `json:"roles,omitempty"`            // Person name -> role label, best-effort
	Location         string                 `json:"location,omitempty"`
	ContactChannels  map[ChannelKind]string `json:"contact_channels,omitempty"` // At most one URL per kind
	SourceLabel      string                 `json:"source_label"`
	CapturedAt       time.Time              `json:"captured_at"`
	JoinYear         int                    `json:"join_year,omitempty"` // Best-effort, 0 when unknown

	// Validation is filled by the optional contact-link validator
	Validation []ChannelValidation `json:"validation,omitempty"`
}

// ChannelValidation records the accessibility of one contact URL
type ChannelValidation struct {
	Kind         ChannelKind `json:"kind"`
	URL          string      `json:"url"`
	IsAccessible bool        `json:"is_accessible"`
	StatusCode   int         `json:"status_code,omitempty"`
	IsDead       bool        `json:"is_dead"` // 404, 410, or unreachable
	Error        string      `json:"error,omitempty"`
}

// HasIdentity reports whether the record carries any identifying information.
// Records without it are discarded at classification time.
func (r *Record) HasIdentity() bool {
	return r.OrganizationName != "" || len(r.PersonNames) > 0
}

// NormalizedName returns the dedup key form of the organization name:
// lowercase, trimmed, internal whitespace collapsed.
func (r *Record) NormalizedName() string {
	return NormalizeName(r.OrganizationName)
}

// NormalizeName normalizes an organization name for dedup comparison
func NormalizeName(name string) string {
	return strings.ToLower(CollapseWhitespace(name))
}

// CollapseWhitespace trims a string and collapses internal whitespace
// runs to single spaces. All stored field values pass through this.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FieldTuple returns a stable equality key over every identifying field.
// Used to keep genuinely different empty-name records distinct.
func (r *Record) FieldTuple() string {
	var b strings.Builder
	b.WriteString(r.OrganizationName)
	b.WriteByte('\x1f')
	b.WriteString(strings.Join(r.PersonNames, "\x1e"))
	b.WriteByte('\x1f')
	b.WriteString(r.Location)
	b.WriteByte('\x1f')
	for _, kind := range ChannelKinds {
		b.WriteString(r.ContactChannels[kind])
		b.WriteByte('\x1e')
	}
	b.WriteByte('\x1f')
	b.WriteString(r.SourceLabel)
	return b.String()
}

// SetContact stores a contact URL for the given kind unless one is
// already present (first found wins).
func (r *Record) SetContact(kind ChannelKind, value string) {
	if value == "" {
		return
	}
	if r.ContactChannels == nil {
		r.ContactChannels = make(map[ChannelKind]string)
	}
	if _, exists := r.ContactChannels[kind]; !exists {
		r.ContactChannels[kind] = value
	}
}

// SetRole records a role label for a person unless one is already present
func (r *Record) SetRole(person, role string) {
	if person == "" || role == "" {
		return
	}
	if r.Roles == nil {
		r.Roles = make(map[string]string)
	}
	if _, exists := r.Roles[person]; !exists {
		r.Roles[person] = role
	}
}
