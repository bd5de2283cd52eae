package collection

import (
	"fmt"
	"strconv"
	"time"
)

// OfflineCreatedAttribute is the attribute a Dynamic record uses to flag a
// record created while offline. It is cleared when the gateway confirms the
// create.
const OfflineCreatedAttribute = "offlineCreated"

// Dynamic is a schemaless record backed by a plain map, for collections
// whose shape is only known from configuration. It round-trips through JSON
// unchanged.
type Dynamic map[string]any

// Clone returns a shallow copy so that With* accessors never mutate the
// caller's map.
func (d Dynamic) Clone() Dynamic {
	out := make(Dynamic, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// timestampLayouts are tried in order when a modification attribute is a
// string. The first two cover API timestamps, the last two date-only fields.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DynamicDescriptor builds a Descriptor for Dynamic records from configured
// attribute names. Empty attribute names leave the corresponding capability
// unconfigured: no idAttr means the collection is never diffed, no modAttr
// and no versionAttr means conflicts cannot be ordered.
func DynamicDescriptor(idAttr, modAttr, versionAttr string) Descriptor[Dynamic] {
	var desc Descriptor[Dynamic]

	if idAttr != "" {
		desc.ID = func(d Dynamic) string {
			return attrString(d, idAttr)
		}
		desc.WithID = func(d Dynamic, id string) Dynamic {
			out := d.Clone()
			out[idAttr] = id
			return out
		}
	}

	if versionAttr != "" {
		desc.Version = func(d Dynamic) (int64, bool) {
			return attrInt(d, versionAttr)
		}
	}

	if modAttr != "" {
		desc.ModifiedAt = func(d Dynamic) time.Time {
			return attrTime(d, modAttr)
		}
		desc.WithModifiedAt = func(d Dynamic, t time.Time) Dynamic {
			out := d.Clone()
			out[modAttr] = t.UTC().Format(time.RFC3339Nano)
			return out
		}
	}

	desc.OfflineCreated = func(d Dynamic) bool {
		b, _ := d[OfflineCreatedAttribute].(bool)
		return b
	}
	desc.WithOfflineCreated = func(d Dynamic, created bool) Dynamic {
		out := d.Clone()
		if created {
			out[OfflineCreatedAttribute] = true
		} else {
			delete(out, OfflineCreatedAttribute)
		}
		return out
	}

	return desc
}

func attrString(d Dynamic, attr string) string {
	switch v := d[attr].(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; integral ids print without an
		// exponent or trailing zeros, fractional ones keep their digits.
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func attrInt(d Dynamic, attr string) (int64, bool) {
	switch v := d[attr].(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func attrTime(d Dynamic, attr string) time.Time {
	switch v := d[attr].(type) {
	case string:
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
		return time.Time{}
	case float64:
		// Unix milliseconds, the other common wire shape.
		return time.UnixMilli(int64(v)).UTC()
	case int64:
		return time.UnixMilli(v).UTC()
	case time.Time:
		return v
	default:
		return time.Time{}
	}
}
