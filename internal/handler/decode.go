package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/aryan0dhankhar/giftexchange/internal/domain"
)

const maxBodyBytes = 1 << 20

// ID is an identifier field. It accepts a JSON string holding an unsigned
// integer ("12") or a plain JSON integer (12).
type ID struct {
	Value uint32
	Set   bool
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ID{}
		return nil
	}

	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return domain.ErrValidation("invalid identifier %s", b)
		}
	}

	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return domain.ErrValidation("invalid identifier %s: must be an unsigned integer", b)
	}
	*id = ID{Value: uint32(v), Set: true}
	return nil
}

// decodeBody decodes a single JSON value from the request body into v.
// Anything after that value other than whitespace is rejected. Every failure
// is reported as a ValidationError.
func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var validation *domain.ValidationError
		switch {
		case errors.As(err, &validation):
			return validation
		case errors.Is(err, io.EOF):
			return domain.ErrValidation("request body is required")
		default:
			return domain.ErrValidation("invalid request body")
		}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return domain.ErrValidation("invalid request body")
	}
	return nil
}

func requireUserID(field string, id ID) (domain.UserID, error) {
	if !id.Set {
		return 0, domain.ErrValidation("missing field %s", field)
	}
	return domain.UserID(id.Value), nil
}

func requireGroupID(field string, id ID) (domain.GroupID, error) {
	if !id.Set {
		return 0, domain.ErrValidation("missing field %s", field)
	}
	return domain.GroupID(id.Value), nil
}
