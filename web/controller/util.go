// Package controller wires the HTTP routes to the service layer.
package controller

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"household-economy/web/entity"
	"household-economy/web/middleware"
	"household-economy/web/service"

	"github.com/gin-gonic/gin"
)

// getRemoteIp extracts the real IP address from the request headers or
// remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return ips[0]
	}
	addr := c.Request.RemoteAddr
	ip, _, _ := net.SplitHostPort(addr)
	return ip
}

// actorId returns the id of the authenticated user, nil for anonymous
// requests. Services treat a nil actor as their own error code.
func actorId(c *gin.Context) *int64 {
	user := middleware.GetLoginUser(c)
	if user == nil {
		return nil
	}
	return &user.Id
}

// pathId parses the :id path parameter. nil when absent or malformed,
// which services report as their id-not-defined code.
func pathId(c *gin.Context) *int64 {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

// jsonResult renders a service Result. messages maps the operation's
// error codes to their texts; negative codes are always server errors.
func jsonResult[T any](c *gin.Context, result service.Result[T], messages map[int]string) {
	if result.Valid() {
		c.JSON(http.StatusOK, entity.Msg{Success: true, Obj: result.Value()})
		return
	}

	code := result.Code()
	msg := messages[code]
	if code < 0 {
		msg = "server error"
	} else if msg == "" {
		msg = "operation failed"
	}
	c.JSON(http.StatusOK, entity.Msg{
		Success: false,
		Msg:     msg,
		ErrCode: code,
	})
}

// jsonMsg sends a JSON response with a message and error status.
func jsonMsg(c *gin.Context, msg string, err error) {
	jsonMsgObj(c, msg, nil, err)
}

// jsonObj sends a JSON response with an object and error status.
func jsonObj(c *gin.Context, obj any, err error) {
	jsonMsgObj(c, "", obj, err)
}

// jsonMsgObj sends a JSON response with a message, object, and error status.
func jsonMsgObj(c *gin.Context, msg string, obj any, err error) {
	m := entity.Msg{
		Obj: obj,
	}
	if err == nil {
		m.Success = true
		if msg != "" {
			m.Msg = msg
		}
	} else {
		m.Success = false
		m.Msg = msg + " (" + err.Error() + ")"
	}
	c.JSON(http.StatusOK, m)
}

// pureJsonMsg sends a pure JSON message response with custom status code.
func pureJsonMsg(c *gin.Context, statusCode int, success bool, msg string) {
	c.JSON(statusCode, entity.Msg{
		Success: success,
		Msg:     msg,
	})
}
