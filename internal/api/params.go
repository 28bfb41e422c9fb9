package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// maxBodyBytes bounds request bodies; every payload here is a handful of fields.
const maxBodyBytes = 64 << 10

// readParams collects request parameters from the query string and form body.
// A JSON object body overrides both; JSON null removes the key.
func readParams(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form: %w", err)
	}
	params := url.Values{}
	for k, v := range r.Form {
		params[k] = v
	}

	if !isJSON(r) {
		return params, nil
	}

	var body map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid request body: unexpected data after JSON object")
	}

	for k, v := range body {
		switch v := v.(type) {
		case nil:
			params.Del(k)
		case string:
			params.Set(k, v)
		case bool:
			params.Set(k, strconv.FormatBool(v))
		case json.Number:
			params.Set(k, v.String())
		default:
			return nil, fmt.Errorf("invalid value for %s", k)
		}
	}
	return params, nil
}

func isJSON(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(ct)
	return err == nil && mt == "application/json"
}

// paramBool parses a boolean parameter. ok is false when the key is absent.
func paramBool(params url.Values, key string) (value, ok bool, err error) {
	if !params.Has(key) {
		return false, false, nil
	}
	raw := strings.ToLower(strings.TrimSpace(params.Get(key)))
	switch raw {
	case "y", "yes", "on":
		return true, true, nil
	case "n", "no", "off":
		return false, true, nil
	}
	value, err = strconv.ParseBool(raw)
	if err != nil {
		return false, true, fmt.Errorf("%s must be a boolean", key)
	}
	return value, true, nil
}

// paramOptionalID parses a nullable identifier. Absent, empty and "null"
// all mean no value.
func paramOptionalID(params url.Values, key string) (*int64, error) {
	raw := strings.TrimSpace(params.Get(key))
	if raw == "" || raw == "null" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &id, nil
}

// pathID parses an integer path wildcard.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}
