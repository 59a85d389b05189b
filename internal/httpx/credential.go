package httpx

import (
	"github.com/fekuna/omnipos-menu-service/internal/auth"
	"github.com/gin-gonic/gin"
)

type credentialBody struct {
	AdminPassword string `json:"admin_password"`
}

// Credential resolves the admin secret for a request whose JSON body has
// already been decoded into a struct carrying admin_password.
func Credential(c *gin.Context, fromBody string) string {
	return auth.CredentialFromRequest(c.Request, fromBody)
}

// CredentialNoBody is Credential for requests that may or may not carry a
// JSON body (DELETE, GET). A missing or malformed body is ignored.
func CredentialNoBody(c *gin.Context) string {
	var body credentialBody
	if c.Request.Body != nil && c.Request.ContentLength != 0 && c.GetHeader("Authorization") == "" {
		_ = c.ShouldBindJSON(&body)
	}
	return auth.CredentialFromRequest(c.Request, body.AdminPassword)
}
