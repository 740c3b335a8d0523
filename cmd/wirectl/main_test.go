package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/danmuck/bridgectl/internal/rosbridge"
	"github.com/danmuck/bridgectl/internal/wire"
)

func TestCodecByName(t *testing.T) {
	cases := []struct {
		name string
		tag  string
	}{
		{"json", wire.TagJSON},
		{"JSON", wire.TagJSON},
		{" cbor ", wire.TagCBOR},
		{wire.TagJSON, wire.TagJSON},
		{wire.TagCBOR, wire.TagCBOR},
	}
	for _, tc := range cases {
		codec, err := codecByName(tc.name)
		if err != nil {
			t.Fatalf("codec %q: %v", tc.name, err)
		}
		if codec.Tag() != tc.tag {
			t.Fatalf("codec %q resolved to %s, want %s", tc.name, codec.Tag(), tc.tag)
		}
	}

	if _, err := codecByName("msgpack"); err == nil {
		t.Fatalf("expected unknown codec error")
	}
}

func TestTranscodeJSONToCBOR(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	out := filepath.Join(dir, "out.cbor")
	src := []byte(`{"op":"publish","topic":"scan","msg":{"seq":1}}`)
	if err := os.WriteFile(in, src, 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	opts := options{mode: "transcode", from: "json", to: "cbor", in: in, out: out}
	if err := runTranscode(opts); err != nil {
		t.Fatalf("transcode: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	doc, err := (wire.CBORCodec{}).Deserialize(data)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want, err := (wire.JSONCodec{}).Deserialize(src)
	if err != nil {
		t.Fatalf("decode input: %v", err)
	}
	if !reflect.DeepEqual(doc, want) {
		t.Fatalf("transcode drifted: %#v != %#v", doc, want)
	}
}

func TestTranscodeRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	if err := os.WriteFile(in, []byte(`{"op":`), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	opts := options{mode: "transcode", from: "json", to: "cbor", in: in, out: filepath.Join(dir, "out.cbor")}
	if err := runTranscode(opts); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestPrintEndpointRendersEnvelopes(t *testing.T) {
	var buf bytes.Buffer
	enc := rosbridge.NewEncoding(wire.JSONCodec{})

	op, err := enc.Interpret([]byte(`{"op":"publish","topic":"scan","msg":{"seq":1}}`), nil, printEndpoint{w: &buf})
	if err != nil {
		t.Fatalf("interpret publish: %v", err)
	}
	if op != rosbridge.OpPublish {
		t.Fatalf("unexpected op: %s", op)
	}
	if got, want := buf.String(), "publish topic=scan\nmsg: {\"seq\":1}\n"; got != want {
		t.Fatalf("unexpected output: %q != %q", got, want)
	}

	buf.Reset()
	if _, err := enc.Interpret([]byte(`{"op":"subscribe","topic":"scan"}`), nil, printEndpoint{w: &buf}); err != nil {
		t.Fatalf("interpret subscribe: %v", err)
	}
	if got, want := buf.String(), "subscribe topic=scan type= id=\n"; got != want {
		t.Fatalf("unexpected output: %q != %q", got, want)
	}
}
