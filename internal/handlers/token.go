package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// TokenSource pulls a raw bearer token out of a request.
type TokenSource interface {
	Token(c *gin.Context) (string, bool)
}

// HeaderTokenSource reads "Authorization: Bearer <token>".
type HeaderTokenSource struct{}

func (HeaderTokenSource) Token(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// BodyTokenSource reads the "user_token" field of a JSON body. The body is
// cached on the context so handlers can bind it again with
// ShouldBindBodyWith.
type BodyTokenSource struct{}

type bodyToken struct {
	UserToken string `json:"user_token"`
}

func (BodyTokenSource) Token(c *gin.Context) (string, bool) {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		if _, cached := c.Get(gin.BodyBytesKey); !cached {
			return "", false
		}
	}
	var body bodyToken
	if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil {
		return "", false
	}
	return body.UserToken, body.UserToken != ""
}

// extractToken returns the first token offered by sources, in order.
func extractToken(c *gin.Context, sources []TokenSource) string {
	for _, source := range sources {
		if token, ok := source.Token(c); ok {
			return token
		}
	}
	return ""
}
