package wire

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/danmuck/bridgectl/internal/testutil/testlog"
)

func TestCBORCodecContract(t *testing.T) {
	testlog.Start(t)
	var c Codec = CBORCodec{}
	if c.Tag() != TagCBOR {
		t.Fatalf("unexpected tag: %q", c.Tag())
	}
	if !c.Binary() {
		t.Fatalf("expected binary framing")
	}
}

func TestCBORRoundTripPreservesModelValues(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name  string
		value any
	}{
		{"nil", nil},
		{"bool", true},
		{"zero", int64(0)},
		{"negative int", int64(-42)},
		{"max int", int64(math.MaxInt64)},
		{"min int", int64(math.MinInt64)},
		{"integral float", float64(2.0)},
		{"fractional float", float64(-0.5)},
		{"exponent float", float64(1e21)},
		{"string", "scan topic é"},
		{"bytes", []byte{0x00, 0x01, 0xfe, 0xff}},
		{"list", []any{int64(1), "two", float64(3.0), nil, true}},
		{"empty map", map[string]any{}},
		{"nested", map[string]any{
			"pose": map[string]any{
				"x":     float64(0.5),
				"y":     float64(-1.0),
				"frame": "map",
			},
			"ranges": []any{float64(1.5), float64(2.5)},
			"seq":    int64(7),
			"blob":   []byte("raw"),
		}},
	}
	c := CBORCodec{}
	for _, tc := range cases {
		data, err := c.Serialize(tc.value)
		if err != nil {
			t.Fatalf("%s: serialize: %v", tc.name, err)
		}
		got, err := c.Deserialize(data)
		if err != nil {
			t.Fatalf("%s: deserialize %x: %v", tc.name, data, err)
		}
		if !reflect.DeepEqual(got, tc.value) {
			t.Fatalf("%s: got %#v want %#v", tc.name, got, tc.value)
		}
	}
}

func TestCBORSerializeIsDeterministic(t *testing.T) {
	testlog.Start(t)
	c := CBORCodec{}
	value := map[string]any{"b": int64(1), "a": int64(0), "aa": int64(2)}

	data, err := c.Serialize(value)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	// Keys sort by encoded bytes: "a", "b", "aa".
	want, _ := hex.DecodeString("a361610061620162616102")
	if !bytes.Equal(data, want) {
		t.Fatalf("got %x want %x", data, want)
	}

	again, err := c.Serialize(value)
	if err != nil {
		t.Fatalf("serialize again: %v", err)
	}
	if !bytes.Equal(again, data) {
		t.Fatalf("serialization not stable: %x vs %x", again, data)
	}
}

func TestCBORCarriesNonFiniteFloats(t *testing.T) {
	testlog.Start(t)
	c := CBORCodec{}

	data, err := c.Serialize(math.Inf(1))
	if err != nil {
		t.Fatalf("serialize inf: %v", err)
	}
	got, err := c.Deserialize(data)
	if err != nil {
		t.Fatalf("deserialize inf: %v", err)
	}
	if f, ok := got.(float64); !ok || !math.IsInf(f, 1) {
		t.Fatalf("got %#v want +inf", got)
	}

	data, err = c.Serialize(math.NaN())
	if err != nil {
		t.Fatalf("serialize nan: %v", err)
	}
	got, err = c.Deserialize(data)
	if err != nil {
		t.Fatalf("deserialize nan: %v", err)
	}
	if f, ok := got.(float64); !ok || !math.IsNaN(f) {
		t.Fatalf("got %#v want nan", got)
	}
}

func TestCBORRejectsMalformedInput(t *testing.T) {
	testlog.Start(t)
	c := CBORCodec{}
	cases := []struct {
		name string
		in   []byte
	}{
		{"empty", nil},
		{"truncated map", []byte{0xa1}},
		{"truncated text", []byte{0x62, 0x61}},
		{"trailing bytes", []byte{0x01, 0x01}},
		{"bare break", []byte{0xff}},
		{"oversized uint", []byte{0x1b, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
		{"integer map key", []byte{0xa1, 0x01, 0x02}},
		{"tagged item", []byte{0xd8, 0x27, 0x01}},
	}
	for _, tc := range cases {
		if _, err := c.Deserialize(tc.in); !errors.Is(err, ErrMalformed) {
			t.Fatalf("%s: expected ErrMalformed, got %v", tc.name, err)
		}
	}
}

func TestCBORRejectsUnsupportedTypes(t *testing.T) {
	testlog.Start(t)
	c := CBORCodec{}
	if _, err := c.Serialize(map[int]string{1: "x"}); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestCodecsAgreeAcrossFormats(t *testing.T) {
	testlog.Start(t)
	value := map[string]any{
		"op":    "publish",
		"topic": "scan",
		"msg": map[string]any{
			"ranges": []any{float64(1.5), float64(2.0)},
			"seq":    int64(3),
			"frame":  "laser",
			"blob":   []byte{0xde, 0xad},
		},
	}

	text, err := (JSONCodec{}).Serialize(value)
	if err != nil {
		t.Fatalf("json serialize: %v", err)
	}
	viaJSON, err := (JSONCodec{}).Deserialize(text)
	if err != nil {
		t.Fatalf("json deserialize: %v", err)
	}

	bin, err := (CBORCodec{}).Serialize(viaJSON)
	if err != nil {
		t.Fatalf("cbor serialize: %v", err)
	}
	viaCBOR, err := (CBORCodec{}).Deserialize(bin)
	if err != nil {
		t.Fatalf("cbor deserialize: %v", err)
	}

	if !reflect.DeepEqual(viaCBOR, value) {
		t.Fatalf("value changed across formats: got %#v want %#v", viaCBOR, value)
	}
}
