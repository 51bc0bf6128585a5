package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRegisterSubscriptionRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1")
	RegisterSubscriptionRoutes(g, nil)

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("GET /api/v1/subscriptions"))
	require.True(t, contains("POST /api/v1/subscriptions"))
	require.True(t, contains("GET /api/v1/subscriptions/:id"))
	require.True(t, contains("PATCH /api/v1/subscriptions/:id"))
	require.True(t, contains("DELETE /api/v1/subscriptions/:id"))
	require.True(t, contains("POST /api/v1/subscriptions/:id/cancel-bills"))
}

func TestRegisterBillRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1")
	RegisterBillRoutes(g, nil)

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("GET /api/v1/bills"))
	require.True(t, contains("GET /api/v1/bills/:id"))
	require.True(t, contains("PATCH /api/v1/bills/:id"))
	require.True(t, contains("DELETE /api/v1/bills/:id"))
}
