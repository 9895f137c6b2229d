package fcn

import (
	"encoding/json"
	"maps"
	"slices"
	"testing"
)

func TestEncodeObject(t *testing.T) {
	tests := []struct {
		name  string
		keys  []string
		value func(string) any
		want  string
	}{
		{"empty", nil, nil, `{}`},
		{"document order", []string{"NVDA", "AMD", "2330.TW"}, func(k string) any { return len(k) }, `{"NVDA":4,"AMD":3,"2330.TW":7}`},
		{"escaped keys", []string{`台"積`}, func(string) any { return 1.5 }, `{"台\"積":1.5}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seq := func(yield func(string, any) bool) {
				for _, k := range tc.keys {
					if !yield(k, tc.value(k)) {
						return
					}
				}
			}
			got, err := encodeObject(seq)
			if err != nil {
				t.Fatalf("encodeObject() error = %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("encodeObject() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestEncodeObjectError(t *testing.T) {
	seq := func(yield func(string, any) bool) { yield("ch", make(chan int)) }
	if _, err := encodeObject(seq); err == nil {
		t.Error("encodeObject() of a channel must fail")
	}
}

func TestDecodeObject(t *testing.T) {
	var keys []string
	values := map[string]json.RawMessage{}
	err := decodeObject([]byte(` {"b": [1, 2], "a": {"x": null}, "c": "z"} `), func(key string, dec *json.Decoder) error {
		keys = append(keys, key)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		values[key] = raw
		return nil
	})
	if err != nil {
		t.Fatalf("decodeObject() error = %v", err)
	}
	if want := []string{"b", "a", "c"}; !slices.Equal(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
	if got := slices.Sorted(maps.Keys(values)); len(got) != 3 {
		t.Errorf("values = %v", got)
	}

	for _, doc := range []string{`null`, ` null `} {
		called := false
		if err := decodeObject([]byte(doc), func(string, *json.Decoder) error { called = true; return nil }); err != nil || called {
			t.Errorf("decodeObject(%q) = %v, called = %v", doc, err, called)
		}
	}
	for _, doc := range []string{`[]`, `"x"`, `{"a":1`, ``} {
		if err := decodeObject([]byte(doc), func(_ string, dec *json.Decoder) error {
			var v any
			return dec.Decode(&v)
		}); err == nil {
			t.Errorf("decodeObject(%q) must fail", doc)
		}
	}
}
