package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/service"
	httpez "storefront/internal/transport/http/ez"
	resp "storefront/internal/transport/http/response"
)

const HeaderHasMore = "X-Has-More"

type ItemHandler struct{ svc *service.ItemService }

func NewItemHandler(svc *service.ItemService) *ItemHandler { return &ItemHandler{svc: svc} }

func (h *ItemHandler) Priority() int { return 20 }

// 分页参数宽松解析：非法值回落默认
type listQ struct {
	Page  string `form:"page"`
	Limit string `form:"limit"`
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

func (h *ItemHandler) Mount(r Routes) {
	pub := httpez.New(r.Public)
	admin := httpez.New(r.Admin)

	httpez.Register(pub, httpez.Action[listQ, []service.ItemView]{
		Method: http.MethodGet,
		Path:   "/items",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) ([]service.ItemView, error) {
			page := service.NormalizePage(atoiDefault(in.Page, 1), atoiDefault(in.Limit, service.DefaultPageSize))
			items, more, err := h.svc.List(c.Request.Context(), page)
			if err != nil {
				return nil, mapError(err, "Failed to fetch items")
			}
			c.Header(HeaderHasMore, strconv.FormatBool(more))
			return service.NewItemViews(items), nil
		},
	})

	httpez.Register(pub, httpez.Action[struct{}, service.ItemView]{
		Method: http.MethodGet,
		Path:   "/items/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (service.ItemView, error) {
			it, err := h.svc.Get(c.Request.Context(), c.Param("id"))
			if err != nil {
				return service.ItemView{}, mapError(err, "Failed to fetch item")
			}
			return service.NewItemView(it), nil
		},
	})

	httpez.Register(admin, httpez.Action[service.ItemInput, service.ItemView]{
		Method: http.MethodPost,
		Path:   "/items",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.ItemInput) (service.ItemView, error) {
			it, err := h.svc.Create(c.Request.Context(), *in)
			if err != nil {
				return service.ItemView{}, mapError(err, "Failed to create item")
			}
			return service.NewItemView(it), nil
		},
	})

	httpez.Register(admin, httpez.Action[service.ItemInput, service.ItemView]{
		Method: http.MethodPut,
		Path:   "/items/:id",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.ItemInput) (service.ItemView, error) {
			it, err := h.svc.Update(c.Request.Context(), c.Param("id"), *in)
			if err != nil {
				return service.ItemView{}, mapError(err, "Failed to update item")
			}
			return service.NewItemView(it), nil
		},
	})

	httpez.Register(admin, httpez.Action[struct{}, resp.Success]{
		Method: http.MethodDelete,
		Path:   "/items/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Success, error) {
			if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
				return resp.Success{}, mapError(err, "Failed to delete item")
			}
			return resp.OK(), nil
		},
	})
}
