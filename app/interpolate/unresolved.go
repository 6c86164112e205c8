package interpolate

import (
	"sort"

	"github.com/jo-hoe/go-request-template/app/placeholder"
	"github.com/jo-hoe/go-request-template/app/template"
	"github.com/jo-hoe/go-request-template/app/value"
)

// Unresolved lists the distinct placeholder names still present in t, sorted.
func Unresolved(t template.Template) []string {
	seen := map[string]struct{}{}
	collect := func(s string) {
		if !placeholder.Contains(s) {
			return
		}
		for _, name := range placeholder.Names(s) {
			seen[name] = struct{}{}
		}
	}

	collect(t.Endpoint)
	for _, v := range t.Headers {
		collect(v)
	}
	for _, v := range t.Data {
		collectValue(v, collect)
	}
	collect(t.Auth.Username)
	collect(t.Auth.Password)
	collect(t.Auth.Token)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectValue(v value.Value, collect func(string)) {
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		collect(s)
	case value.KindObject:
		obj, _ := v.AsObject()
		for _, item := range obj {
			collectValue(item, collect)
		}
	case value.KindArray:
		items, _ := v.AsArray()
		for _, item := range items {
			collectValue(item, collect)
		}
	}
}
