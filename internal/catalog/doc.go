// Package catalog loads the local movie catalog the recommender ranks over.
//
// A Catalog is an ordered, read-only list of movies plus a lower-cased title
// index. Two sources produce it: CSVLoader parses the tabular dataset and
// SQLiteStore serves a previously imported copy. Read failures are tagged with
// services.ErrDataUnavailable so callers can classify them.
package catalog
