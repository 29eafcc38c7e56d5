package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/service"
	httpez "storefront/internal/transport/http/ez"
)

type UploadHandler struct{ svc *service.UploadService }

func NewUploadHandler(svc *service.UploadService) *UploadHandler { return &UploadHandler{svc: svc} }

type uploadOut struct {
	URL string `json:"url"`
}

func (h *UploadHandler) Mount(r Routes) {
	httpez.Register(httpez.New(r.Admin), httpez.Action[struct{}, uploadOut]{
		Method: http.MethodPost,
		Path:   "/upload",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (uploadOut, error) {
			if !h.svc.Configured() {
				return uploadOut{}, httpez.Unavailable("Image upload is not configured. Set R2 environment variables.", nil)
			}
			// 字段名兼容 file / image
			fh, err := c.FormFile("file")
			if err != nil {
				if fh, err = c.FormFile("image"); err != nil {
					return uploadOut{}, mapError(service.ErrUploadFile, "")
				}
			}
			f, err := fh.Open()
			if err != nil {
				return uploadOut{}, httpez.BadRequest("Invalid form data")
			}
			defer f.Close()

			url, err := h.svc.Upload(c.Request.Context(), fh.Header.Get("Content-Type"), fh.Size, f)
			if err != nil {
				return uploadOut{}, mapError(err, "Upload failed. Check R2 credentials and bucket.")
			}
			return uploadOut{URL: url}, nil
		},
	})
}
