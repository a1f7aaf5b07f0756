package controller

import (
	"net/http"

	"household-economy/logger"
	"household-economy/web/entity"
	"household-economy/web/service"

	"github.com/gin-gonic/gin"
)

// SecurityController handles the public endpoints: login and signup.
type SecurityController struct {
	authService *service.AuthService
	userService service.UserService
}

// NewSecurityController creates a SecurityController and sets up its routes.
func NewSecurityController(g *gin.RouterGroup, authService *service.AuthService) *SecurityController {
	a := &SecurityController{authService: authService}
	a.initRouter(g)
	return a
}

func (a *SecurityController) initRouter(g *gin.RouterGroup) {
	g.POST("/login", a.login)
	g.POST("/signup", a.signup)
}

// login exchanges credentials for a bearer token. All credential
// failures produce the same message.
func (a *SecurityController) login(c *gin.Context) {
	form := &entity.LoginForm{}
	if err := c.ShouldBind(form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid login request")
		return
	}

	token, user, err := a.authService.Login(form.Username, form.Password, form.TwoFactorCode)
	if err != nil {
		logger.Warningf("login rejected for %q from %s", form.Username, getRemoteIp(c))
		pureJsonMsg(c, http.StatusUnauthorized, false, "wrong username or password")
		return
	}

	jsonObj(c, gin.H{
		"token":  token,
		"userId": user.Id,
	}, nil)
}

var signupMsgs = map[int]string{
	2:  "operation user not defined",
	3:  "user data not defined",
	4:  "no permission to create this user",
	5:  "username not defined",
	6:  "username not valid",
	7:  "password not defined",
	8:  "password not valid",
	9:  "first name not defined",
	10: "email not defined",
	11: "email not valid",
	12: "username or email already registered",
}

// signup registers an independent user hanging from the system user.
func (a *SecurityController) signup(c *gin.Context) {
	data := &service.UserCreateData{}
	if err := c.ShouldBind(data); err != nil {
		jsonMsg(c, "invalid signup request", err)
		return
	}
	jsonResult(c, a.userService.CreateUser(data), signupMsgs)
}
