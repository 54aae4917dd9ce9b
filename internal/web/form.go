// AngelaMos | 2026
// form.go

package web

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/autosalon/internal/core"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.ZeroEmpty(true)
	d.RegisterConverter(decimal.Decimal{}, func(s string) reflect.Value {
		v, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(v)
	})
	return d
}

// DecodeForm parses a urlencoded or multipart body into dst. Values that do
// not convert come back as a *core.ValidationError keyed by form field.
func DecodeForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parse form: %w", core.ErrInvalidInput)
	}

	if err := decoder.Decode(dst, r.PostForm); err != nil {
		var multi schema.MultiError
		if errors.As(err, &multi) {
			verr := &core.ValidationError{}
			for field := range multi {
				verr.Add(field, "Enter a valid value")
			}
			return verr
		}
		return fmt.Errorf("decode form: %w", core.ErrInvalidInput)
	}

	return nil
}

// PathID reads a numeric route parameter. Malformed ids are reported as not
// found since no row could match them.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s: %w", name, core.ErrNotFound)
	}
	return id, nil
}
