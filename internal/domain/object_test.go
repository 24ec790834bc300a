package domain

import (
	"slices"
	"testing"
)

func TestObjectTypeRoundTrip(t *testing.T) {
	types := []ObjectType{TypeAOR, TypeGoal, TypeRelationship, TypeProject, TypeTask, TypeCard}
	for _, ot := range types {
		if got := ParseObjectType(ot.String()); got != ot {
			t.Errorf("ParseObjectType(%q) = %v, want %v", ot.String(), got, ot)
		}
		if got := TypeForPrefix(ot.Prefix()); got != ot {
			t.Errorf("TypeForPrefix(%q) = %v, want %v", ot.Prefix(), got, ot)
		}
	}
	if ParseObjectType("bogus") != TypeUnknown {
		t.Error("unknown type string should parse to TypeUnknown")
	}
}

func TestTagHandling(t *testing.T) {
	obj := &LedgerObject{ID: "T1", Type: TypeTask}

	if !obj.AddTag("S3-2") {
		t.Error("first AddTag should report a change")
	}
	if obj.AddTag("S3-2") {
		t.Error("duplicate AddTag should report no change")
	}
	obj.AddTag("errand")
	obj.AddTag("deep-work")

	if got := obj.BucketTag(); got != "S3-2" {
		t.Errorf("BucketTag() = %q, want S3-2", got)
	}

	obj.StripBucketTags()
	if obj.BucketTag() != "" {
		t.Error("bucket tag survived StripBucketTags")
	}
	want := []string{"errand", "deep-work"}
	if !slices.Equal(obj.Tags, want) {
		t.Errorf("hashtags lost on strip: %v, want %v", obj.Tags, want)
	}
}

func TestSetBucketTagReplacesPrevious(t *testing.T) {
	obj := &LedgerObject{ID: "T1", Type: TypeTask}
	obj.AddTag("S3-1")
	obj.AddTag("errand")

	if !obj.SetBucketTag("S3-2") {
		t.Error("reassignment should report a change")
	}
	if !slices.Equal(obj.Tags, []string{"errand", "S3-2"}) {
		t.Errorf("Tags = %v, want [errand S3-2]", obj.Tags)
	}
	if obj.BucketTag() != "S3-2" {
		t.Errorf("BucketTag() = %q", obj.BucketTag())
	}

	// Re-applying the current bucket neither reports a change nor reorders
	// the tag list.
	if obj.SetBucketTag("S3-2") {
		t.Error("re-applying the same bucket should report no change")
	}
	if !slices.Equal(obj.Tags, []string{"errand", "S3-2"}) {
		t.Errorf("Tags reordered: %v", obj.Tags)
	}
}

func TestIsBucketTag(t *testing.T) {
	tests := []struct {
		tag  string
		want bool
	}{
		{"S3-2", true},
		{"S3-0", true},
		{"S3-12", true},
		{"errand", false},
		{"S3-", false},
		{"s3-2", false},
	}
	for _, tt := range tests {
		if got := IsBucketTag(tt.tag); got != tt.want {
			t.Errorf("IsBucketTag(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestChildRegistration(t *testing.T) {
	parent := &LedgerObject{ID: "P1", Type: TypeProject}
	parent.AddChild("P1.1")
	parent.AddChild("P1.2")
	parent.AddChild("P1.1") // duplicate

	if !slices.Equal(parent.ChildIDs, []string{"P1.1", "P1.2"}) {
		t.Errorf("ChildIDs = %v", parent.ChildIDs)
	}

	parent.RemoveChild("P1.1")
	if !slices.Equal(parent.ChildIDs, []string{"P1.2"}) {
		t.Errorf("ChildIDs after remove = %v", parent.ChildIDs)
	}
}

func TestSortBuckets(t *testing.T) {
	buckets := []Bucket{{ID: "S3-9"}, {ID: "S3-1"}, {ID: "S3-0"}, {ID: "S3-3"}}
	SortBuckets(buckets)

	var ids []string
	for _, b := range buckets {
		ids = append(ids, b.ID)
	}
	if !slices.Equal(ids, []string{"S3-0", "S3-1", "S3-3", "S3-9"}) {
		t.Errorf("sorted bucket order = %v", ids)
	}
}
