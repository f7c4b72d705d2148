// Package bind decodes and validates an HTTP request body into a struct.
//
// Controllers pair it with pkg/response:
//
//	var in createOrderInput
//	if errs, err := bind.JSON(r, &in); err != nil {
//		response.BadRequest(w, err.Error())
//		return
//	} else if errs != nil {
//		response.FieldErrors(w, errs)
//		return
//	}
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/chefhut/config"
	"github.com/shashiranjanraj/chefhut/pkg/validate"
)

const defaultBodyLimit = 4 << 20 // 4 MB

func bodyLimit() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", ""), 10, 64)
	if err != nil || n <= 0 {
		return defaultBodyLimit
	}
	return n
}

// JSON decodes r.Body into dest and runs struct-tag validation. It returns
// (errs, nil) on validation failures and (nil, err) when the body is
// malformed or exceeds MAX_BODY_BYTES.
func JSON(r *http.Request, dest interface{}) (map[string]string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, bodyLimit())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", tooBig.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
