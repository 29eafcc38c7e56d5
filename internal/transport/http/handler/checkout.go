package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/service"
	httpez "storefront/internal/transport/http/ez"
)

type CheckoutHandler struct{ svc *service.CheckoutService }

func NewCheckoutHandler(svc *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

type checkoutIn struct {
	Items []service.CartLine `json:"items"`
}

func (h *CheckoutHandler) Mount(r Routes) {
	httpez.Register(httpez.New(r.Public), httpez.Action[checkoutIn, *service.Handoff]{
		Method: http.MethodPost,
		Path:   "/checkout",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *checkoutIn) (*service.Handoff, error) {
			out, err := h.svc.Handoff(c.Request.Context(), in.Items)
			if err != nil {
				return nil, mapError(err, "Checkout failed")
			}
			return out, nil
		},
	})
}
