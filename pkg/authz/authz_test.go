package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBelongsToOrganization(t *testing.T) {
	require.True(t, BelongsToOrganization("org-1", "org-1"))
	require.False(t, BelongsToOrganization("org-1", "org-2"))
	require.False(t, BelongsToOrganization("", ""))
	require.False(t, BelongsToOrganization("", "org-1"))
}
