package middleware

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/validation"
)

type defaulter interface {
	ApplyDefaults()
}

// BindJSON decodes the request body into obj, fills defaults and validates it
// with its binding rules. On failure it writes a 400 and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	err := json.NewDecoder(c.Request.Body).Decode(obj)
	if errors.Is(err, io.EOF) {
		err = errors.New("request body is empty")
	}
	if err != nil {
		HandleAPIError(c, apperrors.NewBadRequestError("Invalid request format"))
		return false
	}

	if d, ok := obj.(defaulter); ok {
		d.ApplyDefaults()
	}

	if err := validation.Struct(obj); err != nil {
		HandleAPIError(c, err)
		return false
	}
	return true
}
