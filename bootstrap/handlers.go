package bootstrap

import "pdfchat_backend/handlers"

type Handlers struct {
	DocHandler   *handlers.DocHandler
	WSHandler    *handlers.WSHandler
	ChatHandler  *handlers.ChatHandler
	AuthHandler  *handlers.AuthHandler
	AdminHandler *handlers.AdminHandler
}

func NewHandlers(services *Services, infra *Infrastructure) *Handlers {
	res := &Handlers{}
	d := handlers.NewDocHandler(services.DocService)
	res.DocHandler = d
	w := handlers.NewWSHandler(infra.EventPublisher)
	res.WSHandler = w
	c := handlers.NewChatHandler(services.ChatsService)
	res.ChatHandler = c
	a := handlers.NewAuthHandler(services.AuthService)
	res.AuthHandler = a
	ad := handlers.NewAdminHandler(services.Monitor)
	res.AdminHandler = ad
	return res
}
