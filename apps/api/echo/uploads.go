package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/itsite/core"
)

const (
	uploadField = "file"
	mediaKind   = "media"
)

type uploadApi struct {
	files         core.FileStore
	maxUploadSize int64
}

// registerUploadAPI lets admins upload the images content records point to.
func registerUploadAPI(admin *echo.Group, files core.FileStore, maxUploadSize int64) {
	api := uploadApi{files: files, maxUploadSize: maxUploadSize}
	admin.POST("/uploads", api.upload)
}

func (api *uploadApi) upload(ctx echo.Context) error {
	up, err := formUpload(ctx, uploadField, api.maxUploadSize)
	if err != nil {
		return err
	}
	if up == nil {
		return core.NewValidationError(nil, core.FieldError{Field: uploadField, Error: "this field is required"})
	}

	url, err := api.files.Save(ctx.Request().Context(), core.UploadKey(mediaKind, *up), *up)
	if err != nil {
		return core.NewStorageError(errors.Wrap(err, "saving upload"))
	}
	return ctx.JSON(http.StatusCreated, UploadResponse{URL: url})
}

type UploadResponse struct {
	URL string `json:"url"`
}
