// Package orgprofile builds profile READMEs for GitHub organizations,
// combining repository listings, inferred categories, and a generated
// organization description.
package orgprofile
