package domain

import (
	"regexp"
	"slices"
	"strconv"
)

// Bucket is a static scheduling-category catalog entry. Buckets are loaded
// from configuration and never mutated by the engine; membership is
// expressed as a bucket tag on the object.
type Bucket struct {
	ID          string // e.g. "S3-2"
	DisplayName string
	Description string
}

// UnscheduledBucket is the synthetic catch-all appended to every catalog
var UnscheduledBucket = Bucket{
	ID:          "S3-0",
	DisplayName: "Unscheduled",
	Description: "Tasks awaiting bucket assignment.",
}

var bucketTagRegex = regexp.MustCompile(`^S3-[0-9]+$`)

// IsBucketTag reports whether tag is a scheduling-bucket tag
func IsBucketTag(tag string) bool {
	return bucketTagRegex.MatchString(tag)
}

// BucketPriority returns the numeric sort rank of a bucket id. Unknown or
// empty ids sort after every real bucket.
func BucketPriority(id string) int {
	m := bucketTagRegex.FindString(id)
	if m == "" {
		return 10000
	}
	n, err := strconv.Atoi(id[3:])
	if err != nil {
		return 9999
	}
	return n
}

// SortBuckets orders a catalog by bucket priority in place
func SortBuckets(buckets []Bucket) {
	slices.SortStableFunc(buckets, func(a, b Bucket) int {
		return BucketPriority(a.ID) - BucketPriority(b.ID)
	})
}
