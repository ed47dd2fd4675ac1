package structadapter

import (
	"reflect"
	"strings"

	"github.com/arloliu/nbtgo/engine"
)

// fieldBinding is the per-field result of discovery: the struct's field
// index path (multi-level for promoted embedded fields), the NBT name
// used on write, the resolved adapter halves, and the field's static Go
// type (needed to Convert a decoded value before Set, the same as the
// sequence and mapping adapters do for their elements).
type fieldBinding struct {
	index       []int
	fieldType   reflect.Type
	primaryName string
	ser         engine.Serializer
	deser       engine.Deserializer
}

// parsedTag is the result of splitting an `nbt` struct tag into its
// write name and read aliases.
type parsedTag struct {
	present bool
	names   []string
}

func parseNBTTag(tag string) parsedTag {
	if tag == "" {
		return parsedTag{}
	}

	parts := strings.Split(tag, ",")
	names := make([]string, 0, len(parts))

	for _, p := range parts {
		if p != "" {
			names = append(names, p)
		}
	}

	return parsedTag{present: len(names) > 0, names: names}
}

// nbtOption is one key[=value] entry from an `nbtopt` struct tag.
type nbtOption struct {
	key   string
	value string
}

func parseNBTOpt(tag string) []nbtOption {
	if tag == "" {
		return nil
	}

	parts := strings.Split(tag, ",")
	opts := make([]nbtOption, 0, len(parts))

	for _, p := range parts {
		if p == "" {
			continue
		}

		if i := strings.IndexByte(p, '='); i >= 0 {
			opts = append(opts, nbtOption{key: p[:i], value: p[i+1:]})
		} else {
			opts = append(opts, nbtOption{key: p})
		}
	}

	return opts
}

// discoverFields walks t's visible fields (including those promoted from
// embedded structs) via reflect.VisibleFields, skipping unexported
// fields and any tagged `nbt:"-"` or `nbtopt:"skip"`.
func discoverFields(t reflect.Type) []reflect.StructField {
	var out []reflect.StructField

	for _, f := range reflect.VisibleFields(t) {
		if f.PkgPath != "" {
			continue
		}

		tag := parseNBTTag(f.Tag.Get("nbt"))
		if tag.present && len(tag.names) == 1 && tag.names[0] == "-" {
			continue
		}

		skip := false

		for _, opt := range parseNBTOpt(f.Tag.Get("nbtopt")) {
			if opt.key == "skip" {
				skip = true
			}
		}

		if skip {
			continue
		}

		out = append(out, f)
	}

	return out
}
