// Package extract turns repository metadata into portable extraction records
// with inferred categories, for portfolio and site generation.
package extract
