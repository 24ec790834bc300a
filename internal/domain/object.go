package domain

import (
	"slices"
	"strings"
	"time"
)

// ObjectType represents the kind of planning object tracked in the ledger
type ObjectType int

const (
	TypeUnknown ObjectType = iota
	TypeAOR                // Area of Responsibility
	TypeGoal
	TypeRelationship
	TypeProject
	TypeTask
	TypeCard
)

func (t ObjectType) String() string {
	switch t {
	case TypeAOR:
		return "AOR"
	case TypeGoal:
		return "Goal"
	case TypeRelationship:
		return "Relationship"
	case TypeProject:
		return "Project"
	case TypeTask:
		return "Task"
	case TypeCard:
		return "Card"
	default:
		return "Unknown"
	}
}

// ParseObjectType parses the ledger column value back into an ObjectType
func ParseObjectType(s string) ObjectType {
	switch strings.TrimSpace(s) {
	case "AOR":
		return TypeAOR
	case "Goal":
		return TypeGoal
	case "Relationship":
		return TypeRelationship
	case "Project":
		return TypeProject
	case "Task":
		return TypeTask
	case "Card":
		return TypeCard
	default:
		return TypeUnknown
	}
}

// Prefix returns the single-letter identifier prefix for the type
func (t ObjectType) Prefix() string {
	switch t {
	case TypeAOR:
		return "A"
	case TypeGoal:
		return "G"
	case TypeRelationship:
		return "R"
	case TypeProject:
		return "P"
	case TypeTask:
		return "T"
	case TypeCard:
		return "C"
	default:
		return ""
	}
}

// TypeForPrefix maps an identifier prefix letter back to its type
func TypeForPrefix(prefix string) ObjectType {
	switch prefix {
	case "A":
		return TypeAOR
	case "G":
		return TypeGoal
	case "R":
		return TypeRelationship
	case "P":
		return TypeProject
	case "T":
		return TypeTask
	case "C":
		return TypeCard
	default:
		return TypeUnknown
	}
}

// RequiresParent reports whether an object of this type is structurally
// meaningless without a parent and should be pruned when its parent link
// cannot be resolved. Goals only exist under an Area of Responsibility.
func (t ObjectType) RequiresParent() bool {
	return t == TypeGoal
}

// Object states. State is free-form; StateComplete has special meaning
// (checkbox rendering, bucket-tag stripping, exclusion from active views).
const (
	StateActive   = "Active"
	StateComplete = "Complete"
)

// TagToday is the transient tag the snapshot overlay maintains: present on
// exactly the objects referenced by the most recent daily card. It is never
// rendered inline and never inherited.
const TagToday = "Today"

// LedgerObject is the canonical record for a tracked planning object.
// ParentID and ChildIDs are plain id references, never live pointers, so
// pruning can mutate links without dangling-pointer concerns.
type LedgerObject struct {
	ID             string
	Type           ObjectType
	DisplayName    string
	CanonicalText  string
	Checksum       string
	State          string
	SourceLocation string
	Tags           []string
	People         []string
	ParentID       string
	ChildIDs       []string
	Notes          string
	CreatedAt      time.Time
	ModifiedAt     time.Time
}

// StructuralKey is the (type, source location, canonical text) triple used
// for exact-match identity resolution
type StructuralKey struct {
	Type           ObjectType
	SourceLocation string
	CanonicalText  string
}

// Key returns the object's structural key
func (o *LedgerObject) Key() StructuralKey {
	return StructuralKey{
		Type:           o.Type,
		SourceLocation: o.SourceLocation,
		CanonicalText:  o.CanonicalText,
	}
}

// Rename sets the display name and re-derives the canonical text and
// checksum. The canonical text is never set independently of the name.
func (o *LedgerObject) Rename(displayName string) {
	o.DisplayName = strings.TrimSpace(displayName)
	o.CanonicalText = CanonicalText(o.DisplayName)
	o.Checksum = Checksum(o.CanonicalText)
}

// IsComplete reports whether the object is in the Complete state
func (o *LedgerObject) IsComplete() bool {
	return strings.EqualFold(o.State, StateComplete)
}

// HasTag reports whether the tag is present
func (o *LedgerObject) HasTag(tag string) bool {
	return slices.Contains(o.Tags, tag)
}

// AddTag appends a tag, preserving insertion order and de-duplicating
func (o *LedgerObject) AddTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || o.HasTag(tag) {
		return false
	}
	o.Tags = append(o.Tags, tag)
	return true
}

// RemoveTag removes a tag if present
func (o *LedgerObject) RemoveTag(tag string) {
	o.Tags = slices.DeleteFunc(o.Tags, func(t string) bool { return t == tag })
}

// BucketTag returns the first scheduling-bucket tag, or ""
func (o *LedgerObject) BucketTag() string {
	for _, tag := range o.Tags {
		if IsBucketTag(tag) {
			return tag
		}
	}
	return ""
}

// StripBucketTags removes all scheduling-bucket tags, keeping hashtags.
// Bucket tags are meaningless for completed work.
func (o *LedgerObject) StripBucketTags() {
	o.Tags = slices.DeleteFunc(o.Tags, IsBucketTag)
}

// SetBucketTag assigns the scheduling bucket, replacing any other bucket
// tag. An object belongs to at most one bucket. Reports whether the bucket
// was newly applied.
func (o *LedgerObject) SetBucketTag(bucketID string) bool {
	had := o.HasTag(bucketID)
	o.Tags = slices.DeleteFunc(o.Tags, func(t string) bool { return IsBucketTag(t) && t != bucketID })
	if had {
		return false
	}
	o.Tags = append(o.Tags, bucketID)
	return true
}

// AddPerson appends a person handle, preserving insertion order
func (o *LedgerObject) AddPerson(handle string) bool {
	handle = strings.TrimSpace(handle)
	if handle == "" || slices.Contains(o.People, handle) {
		return false
	}
	o.People = append(o.People, handle)
	return true
}

// AddChild registers a direct child id
func (o *LedgerObject) AddChild(id string) bool {
	if id == "" || slices.Contains(o.ChildIDs, id) {
		return false
	}
	o.ChildIDs = append(o.ChildIDs, id)
	return true
}

// RemoveChild unregisters a direct child id
func (o *LedgerObject) RemoveChild(id string) {
	o.ChildIDs = slices.DeleteFunc(o.ChildIDs, func(c string) bool { return c == id })
}
