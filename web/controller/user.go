package controller

import (
	"net/http"

	"household-economy/web/entity"
	"household-economy/web/service"

	"github.com/gin-gonic/gin"
)

// UserController handles user management requests.
type UserController struct {
	userService service.UserService
}

// NewUserController creates a UserController and sets up its routes.
func NewUserController(g *gin.RouterGroup) *UserController {
	a := &UserController{}
	a.initRouter(g)
	return a
}

func (a *UserController) initRouter(g *gin.RouterGroup) {
	g.POST("/add", a.addUser)
	g.GET("/get/:id", a.getUser)
	g.POST("/update", a.updateUser)
	g.POST("/del/:id", a.delUser)
}

type addUserForm struct {
	User         service.UserCreateData `json:"user"`
	ParentUserId *int64                 `json:"parentUserId"`
}

var addUserMsgs = map[int]string{
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

// addUser creates a user under another user.
func (a *UserController) addUser(c *gin.Context) {
	form := &addUserForm{}
	if err := c.ShouldBind(form); err != nil {
		jsonMsg(c, "invalid user data", err)
		return
	}
	result := a.userService.CreateUserOfOther(actorId(c), &form.User, form.ParentUserId)
	jsonResult(c, result, addUserMsgs)
}

var getUserMsgs = map[int]string{
	1: "operation user not defined",
	2: "user id not defined",
	3: "no permission to get this user",
	4: "user does not exist",
}

func (a *UserController) getUser(c *gin.Context) {
	result := a.userService.GetUserById(actorId(c), pathId(c))
	jsonResult(c, result, getUserMsgs)
}

var updateUserMsgs = map[int]string{
	2:  "no permission to edit this user",
	3:  "user to edit not defined",
	5:  "username cannot be blank",
	6:  "username not valid",
	7:  "first name cannot be blank",
	8:  "email cannot be blank",
	9:  "email not valid",
	10: "username already in use",
	11: "email already in use",
}

// updateUser edits a user. The missing-actor and missing-permission
// outcomes are collapsed into a single boundary code so the response
// does not reveal which check failed.
func (a *UserController) updateUser(c *gin.Context) {
	data := &service.UserEditData{}
	if err := c.ShouldBind(data); err != nil {
		jsonMsg(c, "invalid user data", err)
		return
	}

	result := a.userService.SetUser(actorId(c), data)
	if !result.Valid() && result.Code() == 4 {
		c.JSON(http.StatusOK, entity.Msg{
			Success: false,
			Msg:     updateUserMsgs[2],
			ErrCode: 2,
		})
		return
	}
	jsonResult(c, result, updateUserMsgs)
}

var delUserMsgs = map[int]string{
	2: "operation user not found",
	3: "user to delete not found",
	4: "no permission to delete this user",
}

func (a *UserController) delUser(c *gin.Context) {
	result := a.userService.DeleteUserById(actorId(c), pathId(c))
	jsonResult(c, result, delUserMsgs)
}
