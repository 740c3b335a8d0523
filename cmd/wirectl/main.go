package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danmuck/bridgectl/internal/rosbridge"
	"github.com/danmuck/bridgectl/internal/wire"
)

type options struct {
	mode string
	from string
	to   string
	in   string
	out  string
}

func main() {
	opts := parseFlags()
	switch opts.mode {
	case "inspect":
		if err := runInspect(opts); err != nil {
			fatalf("%v", err)
		}
	case "transcode":
		if err := runTranscode(opts); err != nil {
			fatalf("%v", err)
		}
	default:
		fatalf("unknown mode %q (supported: inspect, transcode)", opts.mode)
	}
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.mode, "mode", "inspect", "mode: inspect | transcode")
	flag.StringVar(&opts.from, "from", "json", "input codec: json | cbor")
	flag.StringVar(&opts.to, "to", "cbor", "output codec for transcode mode: json | cbor")
	flag.StringVar(&opts.in, "in", "", "input file (defaults to stdin)")
	flag.StringVar(&opts.out, "out", "", "output file (defaults to stdout)")
	flag.Parse()
	return opts
}

func runInspect(opts options) error {
	codec, err := codecByName(opts.from)
	if err != nil {
		return err
	}
	data, err := readInput(opts.in)
	if err != nil {
		return err
	}

	enc := rosbridge.NewEncoding(codec)
	op, err := enc.Interpret(data, nil, printEndpoint{w: os.Stdout})
	if err != nil {
		return err
	}
	if op == rosbridge.OpUnhandled {
		fmt.Println("op outside the rosbridge v2 vocabulary")
	}
	return nil
}

func runTranscode(opts options) error {
	from, err := codecByName(opts.from)
	if err != nil {
		return err
	}
	to, err := codecByName(opts.to)
	if err != nil {
		return err
	}
	data, err := readInput(opts.in)
	if err != nil {
		return err
	}

	doc, err := from.Deserialize(data)
	if err != nil {
		return fmt.Errorf("decode %s input: %w", from.Tag(), err)
	}
	out, err := to.Serialize(doc)
	if err != nil {
		return fmt.Errorf("encode %s output: %w", to.Tag(), err)
	}
	return writeOutput(opts.out, out)
}

func codecByName(name string) (wire.Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json", wire.TagJSON:
		return wire.JSONCodec{}, nil
	case "cbor", wire.TagCBOR:
		return wire.CBORCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q (supported: json, cbor)", name)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// printEndpoint renders each interpreted envelope as one header line
// plus a canonical JSON dump of its body, if it carries one.
type printEndpoint struct {
	w io.Writer
}

func (p printEndpoint) ReceivePublication(_ rosbridge.ConnectionHandle, topic string, msg any) {
	fmt.Fprintf(p.w, "publish topic=%s\n", topic)
	p.body("msg", msg)
}

func (p printEndpoint) ReceiveServiceRequest(_ rosbridge.ConnectionHandle, service, id string, args any) {
	fmt.Fprintf(p.w, "call_service service=%s id=%s\n", service, id)
	p.body("args", args)
}

func (p printEndpoint) ReceiveServiceResponse(_ rosbridge.ConnectionHandle, service, id string, values any) {
	fmt.Fprintf(p.w, "service_response service=%s id=%s\n", service, id)
	p.body("values", values)
}

func (p printEndpoint) ReceiveSubscription(_ rosbridge.ConnectionHandle, topic, msgType, id string) {
	fmt.Fprintf(p.w, "subscribe topic=%s type=%s id=%s\n", topic, msgType, id)
}

func (p printEndpoint) ReceiveUnsubscription(_ rosbridge.ConnectionHandle, topic, id string) {
	fmt.Fprintf(p.w, "unsubscribe topic=%s id=%s\n", topic, id)
}

func (p printEndpoint) ReceiveTopicAdvertisement(_ rosbridge.ConnectionHandle, topic, msgType, id string) {
	fmt.Fprintf(p.w, "advertise topic=%s type=%s id=%s\n", topic, msgType, id)
}

func (p printEndpoint) ReceiveTopicUnadvertisement(_ rosbridge.ConnectionHandle, topic, id string) {
	fmt.Fprintf(p.w, "unadvertise topic=%s id=%s\n", topic, id)
}

func (p printEndpoint) ReceiveServiceAdvertisement(_ rosbridge.ConnectionHandle, service, svcType string) {
	fmt.Fprintf(p.w, "advertise_service service=%s type=%s\n", service, svcType)
}

func (p printEndpoint) ReceiveServiceUnadvertisement(_ rosbridge.ConnectionHandle, service, svcType string) {
	fmt.Fprintf(p.w, "unadvertise_service service=%s type=%s\n", service, svcType)
}

func (p printEndpoint) body(name string, v any) {
	if v == nil {
		return
	}
	data, err := (wire.JSONCodec{}).Serialize(v)
	if err != nil {
		fmt.Fprintf(p.w, "%s: %v\n", name, v)
		return
	}
	fmt.Fprintf(p.w, "%s: %s\n", name, data)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "wirectl: "+format+"\n", args...)
	os.Exit(1)
}
