package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type envelope map[string]any

func (s *Server) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, err = w.Write(js)
	return err
}

// validator collects query parameter errors keyed by parameter name.
type validator map[string]string

func (v validator) add(key, message string) {
	if _, exists := v[key]; !exists {
		v[key] = message
	}
}

func (v validator) valid() bool {
	return len(v) == 0
}

func readString(qs url.Values, key string, defaultValue string) string {
	s := strings.TrimSpace(qs.Get(key))
	if s == "" {
		return defaultValue
	}
	return s
}

func readCSV(qs url.Values, key string, defaultValue []string) []string {
	csv := qs.Get(key)
	if csv == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func readInt(qs url.Values, key string, defaultValue int, v validator) int {
	s := qs.Get(key)
	if s == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		v.add(key, "must be an integer value")
		return defaultValue
	}
	if i < 0 {
		v.add(key, "must not be negative")
		return defaultValue
	}
	return i
}

func readDate(qs url.Values, key string, v validator) *time.Time {
	s := qs.Get(key)
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		v.add(key, "must be a valid date (YYYY-MM-DD)")
		return nil
	}
	return &t
}
