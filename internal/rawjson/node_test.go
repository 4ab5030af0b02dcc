package rawjson

import (
	"errors"
	"testing"
)

const sample = `{
	"data": {
		"title": "hello",
		"score": 42,
		"ratio": 0.93,
		"negative": -7,
		"fraction": 1.5,
		"over_18": true,
		"hidden": "true",
		"nothing": null,
		"items": [{"id": "a"}, {"id": "b"}],
		"meta": {"weird.key": {"m": "image/gif"}}
	}
}`

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte(`{"data": `))
	if !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("err = %v, want ErrInvalidJSON", err)
	}
}

func TestAccessors(t *testing.T) {
	root := MustParse(sample)
	data := root.Get("data")

	if got := data.Str("title"); got != "hello" {
		t.Errorf("Str(title) = %q, want %q", got, "hello")
	}
	if got := data.Str("score"); got != "" {
		t.Errorf("Str(score) = %q, want empty for mistyped field", got)
	}
	if got := data.Str("missing"); got != "" {
		t.Errorf("Str(missing) = %q, want empty", got)
	}
	if got := data.Int("score"); got != 42 {
		t.Errorf("Int(score) = %d, want 42", got)
	}
	if got := data.Int("fraction"); got != 0 {
		t.Errorf("Int(fraction) = %d, want 0", got)
	}
	if _, ok := data.LookupUint("negative"); ok {
		t.Error("LookupUint(negative) should fail")
	}
	if got, ok := data.LookupUint("score"); !ok || got != 42 {
		t.Errorf("LookupUint(score) = %d, %v; want 42, true", got, ok)
	}
	if got := data.Float("ratio"); got != 0.93 {
		t.Errorf("Float(ratio) = %v, want 0.93", got)
	}
	if got := data.Float("score"); got != 42 {
		t.Errorf("Float(score) = %v, want 42", got)
	}
	if got := data.FloatOr("nothing", 1); got != 1 {
		t.Errorf("FloatOr(nothing) = %v, want 1", got)
	}
	if !data.Bool("over_18") {
		t.Error("Bool(over_18) should be true")
	}
	if data.Bool("hidden") {
		t.Error("Bool(hidden) should be false for a string value")
	}
}

func TestArraysAndKeys(t *testing.T) {
	data := MustParse(sample).Get("data")

	items := data.Array("items")
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if got := items[1].Str("id"); got != "b" {
		t.Errorf("items[1].id = %q, want %q", got, "b")
	}
	if got := data.Get("items").Index(0).Str("id"); got != "a" {
		t.Errorf("items.Index(0).id = %q, want %q", got, "a")
	}
	if got := data.Get("items.1.id").Str(""); got != "b" {
		t.Errorf("items.1.id = %q, want %q", got, "b")
	}
	if data.Array("title") != nil {
		t.Error("Array(title) should be nil")
	}
	if got := data.Get("meta").Key("weird.key").Str("m"); got != "image/gif" {
		t.Errorf("Key(weird.key).m = %q, want %q", got, "image/gif")
	}
	if got := data.Get("title").Key("x").Str(""); got != "" {
		t.Errorf("Key on a non-object = %q, want empty", got)
	}
}

func TestZeroNode(t *testing.T) {
	var n Node
	if n.IsObject() || n.IsArray() {
		t.Error("zero node should be empty")
	}
	if n.Str("a.b") != "" || n.Int("a") != 0 || n.Bool("a") || n.Array("a") != nil {
		t.Error("zero node accessors should return zero values")
	}
}
