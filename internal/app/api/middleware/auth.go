package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	"github.com/condopay/billing/pkg/response"
)

// OrganizationIDKey is where the caller's organization lands in gin.Context
// and the request context.
const OrganizationIDKey = "organization_id"

// AuthMiddleware verifies the bearer session token and extracts the
// organization_id claim. The claim value is trusted from then on; every
// downstream ownership check compares against it.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, &response.APIError{Error: "Unauthorized", Message: "Missing bearer token"})
			return
		}

		token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, &response.APIError{Error: "Unauthorized", Message: "Invalid session token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, &response.APIError{Error: "Unauthorized", Message: "Invalid session token"})
			return
		}
		organizationID, _ := claims[OrganizationIDKey].(string)
		if organizationID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, &response.APIError{Error: "Unauthorized", Message: "Session has no organization"})
			return
		}

		c.Set(OrganizationIDKey, organizationID)
		ctx := context.WithValue(c.Request.Context(), OrganizationIDKey, organizationID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// OrganizationID returns the caller's organization set by AuthMiddleware.
func OrganizationID(c *gin.Context) string {
	return c.GetString(OrganizationIDKey)
}
