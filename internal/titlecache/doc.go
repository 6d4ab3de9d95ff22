// Package titlecache persists TMDB title search results to a JSON file so
// repeated lookups of the same title skip the network.
//
// Only searches that produced an exact (case-insensitive) title match are
// cached. Cache wraps a lookup.MetadataService and passes recommendation
// calls straight through. A Cache created with an empty path is inert.
package titlecache
