package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vibhusapra/phoenix/internal/modules/serializer"
	"github.com/vibhusapra/phoenix/internal/pkg/auth"
)

// Principal authenticates requests that carry a bearer JWT and stores the caller in the
// context under auth.ContextKey. Requests without an Authorization header pass through as
// anonymous; operations that need a caller reject them. A header that is present but invalid
// is rejected here.
func Principal(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}

		p, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}

		// Set user_id attribute on the current span for telemetry filtering
		span := trace.SpanFromContext(c.Request.Context())
		if span.SpanContext().IsValid() {
			span.SetAttributes(attribute.String("user_id", p.Identity))
		}

		c.Set(auth.ContextKey, p)
		c.Next()
	}
}
