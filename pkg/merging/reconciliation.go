package merging

import (
	"reflect"

	"github.com/pitchside/clover/pkg/models"
)

// listIdentityKeys maps the keyed list fields of PlayerRecord to the struct
// field that identifies an item during union. Items sharing a key are the
// same entry reported twice.
var listIdentityKeys = map[string]string{
	"PlayerAttributes": "Name",
	"Titles":           "Name",
	"Awards":           "Name",
	"Transfers":        "Season",
}

// Reconcile refreshes a persisted record with freshly resolved data. The
// rules are generic over the record's fields:
//
//   - scalar fields take incoming's value unless it is zero/empty, in which
//     case base's value is kept
//   - keyed list fields union base's items with incoming items whose
//     identity key is not already present; base items are never dropped
//   - any other non-empty incoming list replaces base's wholesale
func Reconcile(base, incoming *models.PlayerRecord) *models.PlayerRecord {
	out := *base

	ov := reflect.ValueOf(&out).Elem()
	iv := reflect.ValueOf(incoming).Elem()
	t := ov.Type()

	for i := 0; i < t.NumField(); i++ {
		in := iv.Field(i)

		if in.Kind() == reflect.Slice {
			if in.Len() == 0 {
				continue
			}
			if key, ok := listIdentityKeys[t.Field(i).Name]; ok {
				ov.Field(i).Set(unionByKey(ov.Field(i), in, key))
			} else {
				ov.Field(i).Set(cloneSlice(in))
			}
			continue
		}

		if in.IsZero() {
			continue
		}
		ov.Field(i).Set(in)
	}

	return &out
}

// unionByKey appends incoming items whose key is unseen onto a copy of base.
func unionByKey(base, incoming reflect.Value, keyField string) reflect.Value {
	out := reflect.MakeSlice(base.Type(), 0, base.Len()+incoming.Len())
	seen := make(map[string]bool, base.Len())

	for i := 0; i < base.Len(); i++ {
		item := base.Index(i)
		seen[item.FieldByName(keyField).String()] = true
		out = reflect.Append(out, item)
	}
	for i := 0; i < incoming.Len(); i++ {
		item := incoming.Index(i)
		key := item.FieldByName(keyField).String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = reflect.Append(out, item)
	}

	return out
}

func cloneSlice(v reflect.Value) reflect.Value {
	out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
	reflect.Copy(out, v)
	return out
}
