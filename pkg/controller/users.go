package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maximthomas/legacybridge/pkg/log"
	"github.com/maximthomas/legacybridge/pkg/user"
	"github.com/sirupsen/logrus"
)

type UserController struct {
	us     user.Service
	logger logrus.FieldLogger
}

func NewUserController() *UserController {
	return &UserController{
		us:     user.GetUserService(),
		logger: log.WithField("module", "UserController"),
	}
}

// GetUser resolves a user by username, or by email with ?by=email.
func (uc *UserController) GetUser(c *gin.Context) {
	name := c.Param("name")

	var (
		u     user.LegacyUser
		found bool
		err   error
	)
	if c.Query("by") == "email" {
		u, found, err = uc.us.FindByEmail(name)
	} else {
		u, found, err = uc.us.FindByUsername(name)
	}
	if err != nil {
		uc.logger.Errorf("error getting user %v: %v", name, err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "legacy user store unavailable"})
		return
	}
	if !found {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (uc *UserController) ValidatePassword(c *gin.Context) {
	name := c.Param("name")

	var p user.Password
	if err := c.ShouldBindJSON(&p); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	valid, err := uc.us.IsPasswordValid(name, p.Password)
	if err != nil {
		uc.logger.Errorf("error validating password for user %v: %v", name, err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "legacy user store unavailable"})
		return
	}
	c.JSON(http.StatusOK, user.ValidatePasswordResult{Valid: valid})
}
