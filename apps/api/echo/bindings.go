package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/itsite/core"
)

var errHttpNotFound = echo.NewHTTPError(http.StatusNotFound, "not found")

// queryBool parses an optional boolean query param; invalid values are a validation error.
func queryBool(ctx echo.Context, name string) (*bool, error) {
	val := ctx.QueryParam(name)
	if val == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return nil, core.NewValidationError(nil, core.FieldError{Field: name, Error: "must be true or false"})
	}
	return &b, nil
}

// idParam parses the `:id` path param. Malformed ids cannot exist, hence 404.
func idParam(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}

// formUpload reads the optional multipart file `field`; nil if the request carries none.
func formUpload(ctx echo.Context, field string, maxSize int64) (*core.Upload, error) {
	fh, err := ctx.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading form file %s", field)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "opening form file %s", field)
	}
	defer f.Close()
	return core.ReadUpload(field, fh.Filename, f, maxSize)
}

func formatKiB(n int64) string {
	return strconv.FormatInt((n+1023)>>10, 10) + "K"
}

type (
	IDResponse struct {
		ID interface{} `json:"id"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)
