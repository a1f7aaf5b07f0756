package controller

import (
	"household-economy/web/service"

	"github.com/gin-gonic/gin"
)

// CardController handles bank card requests.
type CardController struct {
	cardService service.CardService
}

// NewCardController creates a CardController and sets up its routes.
func NewCardController(g *gin.RouterGroup) *CardController {
	a := &CardController{}
	a.initRouter(g)
	return a
}

func (a *CardController) initRouter(g *gin.RouterGroup) {
	g.POST("/credit/add", a.addCreditCard)
}

var addCreditCardMsgs = map[int]string{
	2: "operation user not defined",
	3: "card data not defined",
	4: "card number not defined",
	5: "card expiration not defined",
	6: "card owner not defined or does not exist",
	7: "bank account not defined or does not exist",
}

func (a *CardController) addCreditCard(c *gin.Context) {
	data := &service.CardData{}
	if err := c.ShouldBind(data); err != nil {
		jsonMsg(c, "invalid card data", err)
		return
	}
	jsonResult(c, a.cardService.CreateCreditCard(actorId(c), data), addCreditCardMsgs)
}
