package authz

// BelongsToOrganization reports whether a record owned by recordOrg may be
// touched by a caller acting for callerOrg. Ownership never matches an empty
// organization on either side.
func BelongsToOrganization(recordOrg, callerOrg string) bool {
	return recordOrg != "" && recordOrg == callerOrg
}
