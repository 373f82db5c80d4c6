package aggregate

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/rmaksimov/founderscout/internal/model"
)

// ResultSet is the insertion-ordered, deduplicated collection of
// Records produced by one pipeline run. It has exactly one owner (the
// run) and is appended to in fetch order; there are no concurrent
// writers.
type ResultSet struct {
	records []*model.Record

	// byName indexes records by normalized organization name.
	// Empty-name records are tracked separately by field tuple so
	// genuinely different person-only entries never collapse.
	byName  map[string]*model.Record
	byTuple map[string]*model.Record

	// personSets mirrors each record's PersonNames for O(1) union
	// membership checks during merges (case-sensitive).
	personSets map[*model.Record]mapset.Set[string]
}

// New creates an empty ResultSet
func New() *ResultSet {
	return &ResultSet{
		byName:     make(map[string]*model.Record),
		byTuple:    make(map[string]*model.Record),
		personSets: make(map[*model.Record]mapset.Set[string]),
	}
}

// Len returns the number of distinct records
func (rs *ResultSet) Len() int {
	return len(rs.records)
}

// Records returns the records in insertion order. The slice is shared;
// callers must not mutate it.
func (rs *ResultSet) Records() []*model.Record {
	return rs.records
}

// Add inserts or merges one record. Records that fail the identity
// invariant are dropped. Returns true when a new distinct entry was
// created (merges return false).
func (rs *ResultSet) Add(record *model.Record) bool {
	if record == nil || !record.HasIdentity() {
		return false
	}

	key := record.NormalizedName()
	if key == "" {
		// Empty-name records dedupe only on full field equality
		tuple := record.FieldTuple()
		if _, exists := rs.byTuple[tuple]; exists {
			return false
		}
		rs.byTuple[tuple] = record
		rs.insert(record)
		return true
	}

	if existing, exists := rs.byName[key]; exists {
		rs.merge(existing, record)
		return false
	}

	rs.byName[key] = record
	rs.insert(record)
	return true
}

// AddAll adds every record and returns how many distinct entries were created
func (rs *ResultSet) AddAll(records []*model.Record) int {
	added := 0
	for _, record := range records {
		if rs.Add(record) {
			added++
		}
	}
	return added
}

func (rs *ResultSet) insert(record *model.Record) {
	rs.records = append(rs.records, record)

	set := mapset.NewThreadUnsafeSet[string]()
	for _, name := range record.PersonNames {
		set.Add(name)
	}
	rs.personSets[record] = set
}

// merge folds incoming into existing on a dedup-key collision:
// person-name set union preserving first-occurrence order and casing,
// first-seen contact per kind, first-write-wins scalar fields.
func (rs *ResultSet) merge(existing, incoming *model.Record) {
	set := rs.personSets[existing]
	for _, name := range incoming.PersonNames {
		if set.Add(name) {
			existing.PersonNames = append(existing.PersonNames, name)
		}
	}

	for kind, value := range incoming.ContactChannels {
		existing.SetContact(kind, value)
	}

	for person, role := range incoming.Roles {
		existing.SetRole(person, role)
	}

	if existing.Location == "" {
		existing.Location = incoming.Location
	}
	if existing.JoinYear == 0 {
		existing.JoinYear = incoming.JoinYear
	}
}

// RegionPredicate decides whether a record belongs to the target
// region, given its identifying fields.
type RegionPredicate func(organization, location, sourceLabel string) bool

// KeywordRegion builds a predicate matching any keyword
// (case-insensitive) against the organization name, location, or
// source label.
func KeywordRegion(keywords []string) RegionPredicate {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		lowered = append(lowered, strings.ToLower(kw))
	}

	return func(organization, location, sourceLabel string) bool {
		haystack := strings.ToLower(organization + " " + location + " " + sourceLabel)
		for _, kw := range lowered {
			if strings.Contains(haystack, kw) {
				return true
			}
		}
		return false
	}
}

// Filter applies a predicate once over the built set, returning a new
// ResultSet. The receiver is not mutated.
func (rs *ResultSet) Filter(keep RegionPredicate) *ResultSet {
	out := New()
	for _, record := range rs.records {
		if keep(record.OrganizationName, record.Location, record.SourceLabel) {
			out.Add(record)
		}
	}
	return out
}
