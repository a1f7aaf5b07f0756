package controller

import (
	"household-economy/web/service"

	"github.com/gin-gonic/gin"
)

// BankController handles bank management requests.
type BankController struct {
	bankService service.BankService
}

// NewBankController creates a BankController and sets up its routes.
func NewBankController(g *gin.RouterGroup) *BankController {
	a := &BankController{}
	a.initRouter(g)
	return a
}

func (a *BankController) initRouter(g *gin.RouterGroup) {
	g.POST("/add", a.addBank)
	g.GET("/get/:id", a.getBank)
	g.POST("/update", a.updateBank)
	g.POST("/del/:id", a.delBank)
}

var addBankMsgs = map[int]string{
	2: "operation user not defined",
	3: "no permission to create a bank",
	4: "bank data not defined",
	5: "bank name not defined",
	6: "bank name not valid",
}

func (a *BankController) addBank(c *gin.Context) {
	data := &service.BankData{}
	if err := c.ShouldBind(data); err != nil {
		jsonMsg(c, "invalid bank data", err)
		return
	}
	jsonResult(c, a.bankService.CreateBank(actorId(c), data), addBankMsgs)
}

var getBankMsgs = map[int]string{
	2: "bank id not defined",
	3: "bank does not exist",
	4: "no permission to get bank info",
	5: "operation user not defined",
}

func (a *BankController) getBank(c *gin.Context) {
	jsonResult(c, a.bankService.GetBankById(actorId(c), pathId(c)), getBankMsgs)
}

var updateBankMsgs = map[int]string{
	2: "operation user not defined",
	3: "no permission to edit this bank",
	4: "bank does not exist",
	5: "bank data not defined",
	6: "bank id not defined",
	7: "bank name not valid",
}

func (a *BankController) updateBank(c *gin.Context) {
	data := &service.BankData{}
	if err := c.ShouldBind(data); err != nil {
		jsonMsg(c, "invalid bank data", err)
		return
	}
	jsonResult(c, a.bankService.EditBank(actorId(c), data), updateBankMsgs)
}

var delBankMsgs = map[int]string{
	2: "bank id not defined",
	3: "bank does not exist",
	4: "no permission to delete this bank",
	5: "operation user not defined",
}

func (a *BankController) delBank(c *gin.Context) {
	jsonResult(c, a.bankService.DeleteBankById(actorId(c), pathId(c)), delBankMsgs)
}
