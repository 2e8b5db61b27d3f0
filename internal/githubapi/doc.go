// Package githubapi wraps the GitHub REST API behind typed records carrying
// only the fields this toolkit reads. It owns pagination, rate-limit waits,
// and the mapping of non-2xx responses to APIError values.
package githubapi
