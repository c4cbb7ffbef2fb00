package databases

import "go.mongodb.org/mongo-driver/mongo/options"

// PaginateOptions builds find options for a zero-based page of the given
// size.
func PaginateOptions(limit, page int) *options.FindOptions {
	l := int64(limit)
	skip := int64(page) * l

	return &options.FindOptions{Limit: &l, Skip: &skip}
}
