// Package lookup resolves titles that are missing from the local catalog
// through an external movie metadata service, and confirms that locally
// recommended titles exist there.
//
// Both operations treat any service failure as "no result" for that title:
// errors are logged and never abort the surrounding batch.
package lookup
