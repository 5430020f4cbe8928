package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/billbook/internal/profiles"
)

func (a *API) me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func (a *API) logout(c *gin.Context) {
	if err := a.svc.Auth.Logout(c.Request.Context(), sessionToken(c)); err != nil {
		a.fail(c, err)
		return
	}
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", a.opts.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (a *API) updateProfile(c *gin.Context) {
	var req profiles.UpdateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		a.fail(c, err)
		return
	}
	u, err := a.svc.Profiles.UpdateProfile(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (a *API) uploadLogo(c *gin.Context) {
	up, err := a.readUpload(c)
	if err != nil {
		a.fail(c, err)
		return
	}
	u, err := a.svc.Profiles.UploadLogo(c.Request.Context(), currentUser(c).ID, up.data, up.contentType)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logo uploaded successfully", "business_logo": u.LogoRef})
}

func (a *API) logo(c *gin.Context) {
	rc, err := a.svc.Profiles.OpenLogo(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	defer rc.Close()
	c.DataFromReader(http.StatusOK, -1, "image/jpeg", rc, nil)
}
