package gomap

import (
	"reflect"
	"strings"
	"sync"
	"unicode"
)

const tagName = "hconf"

type fieldInfo struct {
	name      string
	index     []int
	omitEmpty bool
	required  bool
}

var fieldCache sync.Map // reflect.Type -> []fieldInfo

// structFields returns the decodable fields of struct type ty, embedded
// structs flattened, in declaration order.
func structFields(ty reflect.Type) []fieldInfo {
	if fs, ok := fieldCache.Load(ty); ok {
		return fs.([]fieldInfo)
	}
	var res []fieldInfo
	seen := map[string]bool{}
	var walk func(t reflect.Type, index []int)
	walk = func(t reflect.Type, index []int) {
		for i := range t.NumField() {
			f := t.Field(i)
			tag := f.Tag.Get(tagName)
			if tag == "-" {
				continue
			}
			idx := append(append([]int(nil), index...), i)
			if f.Anonymous && tag == "" {
				ft := f.Type
				if ft.Kind() == reflect.Struct {
					walk(ft, idx)
					continue
				}
			}
			if !f.IsExported() {
				continue
			}
			fi := parseTag(tag)
			fi.index = idx
			if fi.name == "" {
				fi.name = SnakeCase(f.Name)
			}
			if seen[fi.name] {
				continue
			}
			seen[fi.name] = true
			res = append(res, fi)
		}
	}
	walk(ty, nil)
	fieldCache.Store(ty, res)
	return res
}

func parseTag(tag string) fieldInfo {
	name, rest, _ := strings.Cut(tag, ",")
	fi := fieldInfo{name: name}
	for opt := range strings.SplitSeq(rest, ",") {
		switch opt {
		case "omitempty":
			fi.omitEmpty = true
		case "required":
			fi.required = true
		}
	}
	return fi
}

// SnakeCase converts a Go identifier to snake_case, keeping acronyms
// together: "FFNHiddenSize" is "ffn_hidden_size".
func SnakeCase(s string) string {
	rs := []rune(s)
	var b strings.Builder
	for i, r := range rs {
		if unicode.IsUpper(r) && i > 0 {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
