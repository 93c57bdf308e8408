package binder

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"github.com/beanbocchi/multipart/internal/model"
)

// SonicSerializer implements echo.JSONSerializer with sonic.
type SonicSerializer struct{}

func (SonicSerializer) Serialize(c echo.Context, i any, indent string) error {
	enc := sonic.ConfigDefault.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (SonicSerializer) Deserialize(c echo.Context, i any) error {
	if err := sonic.ConfigDefault.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("malformed JSON: %v", err)).SetInternal(err)
	}
	return nil
}

// CustomBinder reports every binding failure as invalid input.
type CustomBinder struct {
	echo.DefaultBinder
}

func NewCustomBinder() *CustomBinder {
	return &CustomBinder{}
}

func (b *CustomBinder) Bind(i any, c echo.Context) error {
	if err := b.DefaultBinder.Bind(i, c); err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return model.ErrInvalidInput.Fmt(fmt.Sprint(httpErr.Message))
		}
		return model.ErrInvalidInput.Fmt(err.Error())
	}
	return nil
}
