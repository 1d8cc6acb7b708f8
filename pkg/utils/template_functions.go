package utils

import (
	"fmt"
	"html/template"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type AssetModTimeFunc func(path string) (time.Time, error)

const defaultTimestampLayout = "2006-01-02"

// GetTemplateFuncs returns the helpers every view parses against.
// randomImage, imageURL and sanitize are placeholders here. The template
// handler rebinds them per request.
func GetTemplateFuncs(assetModTime AssetModTimeFunc) template.FuncMap {
	return template.FuncMap{
		"title": func(s string) string {
			return cases.Title(language.English).String(s)
		},
		"slugify":         GenerateSlug,
		"formatTimestamp": FormatTimestamp,

		"default": func(defaultValue, value interface{}) interface{} {
			if isEmpty(value) {
				return defaultValue
			}
			return value
		},

		"sanitize": func(s string) template.HTML {
			return template.HTML(template.HTMLEscapeString(s))
		},
		"randomImage": func(string) string { return "" },
		"imageURL": func(filename string) string {
			return "/images/" + url.PathEscape(filename)
		},

		"asset": func(path string) string {
			if path == "" {
				return ""
			}
			lowerPath := strings.ToLower(path)
			if strings.HasPrefix(lowerPath, "http://") || strings.HasPrefix(lowerPath, "https://") || strings.HasPrefix(path, "//") {
				return path
			}
			version := int64(0)
			if assetModTime != nil {
				if modTime, err := assetModTime(path); err == nil {
					version = modTime.Unix()
				}
			}
			if version == 0 {
				trimmed := strings.TrimPrefix(path, "/")
				if info, err := os.Stat(filepath.FromSlash(trimmed)); err == nil {
					version = info.ModTime().Unix()
				}
			}
			if version == 0 {
				return path
			}
			separator := "?"
			if strings.Contains(path, "?") {
				separator = "&"
			}
			return fmt.Sprintf("%s%sv=%d", path, separator, version)
		},
	}
}

// FormatTimestamp renders unix seconds with the given Go layout, or as
// 2006-01-02 when no layout is passed. Anything that is not an integer
// renders as an empty string.
func FormatTimestamp(value string, layout ...string) string {
	seconds, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return ""
	}
	format := defaultTimestampLayout
	if len(layout) > 0 && strings.TrimSpace(layout[0]) != "" {
		format = layout[0]
	}
	return time.Unix(seconds, 0).UTC().Format(format)
}

func isEmpty(value interface{}) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)

	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Bool:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Slice, reflect.Array, reflect.Map:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	}

	zero := reflect.Zero(v.Type())
	return reflect.DeepEqual(value, zero.Interface())
}

func NormalizePath(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "/"
	}

	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		if parsed, err := url.Parse(trimmed); err == nil {
			if parsed.Path != "" {
				trimmed = parsed.Path
			} else {
				trimmed = "/"
			}
		}
	}

	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}

	cleaned := path.Clean(trimmed)
	if cleaned == "." || cleaned == "" {
		return "/"
	}

	return cleaned
}
