package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/danmuck/bridgectl/internal/bridge"
	"github.com/danmuck/bridgectl/internal/observability"
	"github.com/danmuck/bridgectl/internal/wire"
)

// errQuit signals caller-intent to leave the interactive client.
var errQuit = errors.New("quit")

// App drives one interactive session against a remote bridge.
type App struct {
	url      string
	codec    string
	node     string
	attempts int

	conn *bridge.Conn
	in   io.Reader
	out  io.Writer
	log  zerolog.Logger
}

func main() {
	app := &App{in: os.Stdin, out: os.Stdout}
	flag.StringVar(&app.url, "url", "ws://127.0.0.1:9090/ws", "bridge websocket endpoint")
	flag.StringVar(&app.codec, "codec", "json", "wire codec: json | cbor")
	flag.StringVar(&app.node, "node", "client-tm", "node label for logs and metrics")
	flag.IntVar(&app.attempts, "attempts", 5, "dial attempts before giving up")
	flag.Parse()

	app.log = observability.InitLogger(app.node)

	if err := app.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "client-tm: %v\n", err)
		os.Exit(1)
	}
}

func (a *App) Run(ctx context.Context) error {
	codec, err := codecByName(a.codec)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	conn, err := bridge.DialRetry(ctx, bridge.DialConfig{
		URL:   a.url,
		Codec: codec,
		Node:  a.node,
	}, bridge.DefaultBackoff(), a.attempts, a.log)
	if err != nil {
		return err
	}
	a.conn = conn
	defer conn.Close()

	go func() {
		if err := conn.ReadLoop(ctx, bridge.LogEndpoint{Log: a.log}); err != nil {
			a.log.Error().Err(err).Msg("read loop ended")
		}
		cancel()
	}()

	fmt.Fprintf(a.out, "connected to %s as %s (codec %s)\n", a.url, a.node, conn.Tag())
	a.printHelp()

	scanner := bufio.NewScanner(a.in)
	for {
		fmt.Fprint(a.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		name, rest, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		if err := a.execute(name, rest); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			a.log.Error().Err(err).Str("command", name).Msg("command failed")
		}
		select {
		case <-ctx.Done():
			return errors.New("connection closed")
		default:
		}
	}
}

func (a *App) execute(name, rest string) error {
	switch name {
	case "pub":
		args, body, ok := splitArgs(rest, 1)
		if !ok || body == "" {
			return errors.New("usage: pub <topic> <json-body>")
		}
		parsed, err := parseBody(body)
		if err != nil {
			return err
		}
		return a.conn.SendPublication(args[0], "", "", parsed)
	case "sub":
		fields := strings.Fields(rest)
		if len(fields) < 1 || len(fields) > 2 {
			return errors.New("usage: sub <topic> [msg-type]")
		}
		msgType := ""
		if len(fields) == 2 {
			msgType = fields[1]
		}
		return a.conn.SendSubscription(fields[0], msgType, "", nil)
	case "adv":
		fields := strings.Fields(rest)
		if len(fields) != 2 {
			return errors.New("usage: adv <topic> <msg-type>")
		}
		return a.conn.SendTopicAdvertisement(fields[0], fields[1], "", nil)
	case "call":
		args, body, ok := splitArgs(rest, 1)
		if !ok {
			return errors.New("usage: call <service> [json-args]")
		}
		var parsed any
		if body != "" {
			p, err := parseBody(body)
			if err != nil {
				return err
			}
			parsed = p
		}
		id := uuid.NewString()
		fmt.Fprintf(a.out, "call id %s\n", id)
		return a.conn.SendServiceCall(args[0], id, parsed, nil)
	case "resp":
		args, body, ok := splitArgs(rest, 2)
		if !ok {
			return errors.New("usage: resp <service> <true|false> [json-values]")
		}
		result, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("parse result: %w", err)
		}
		var values any
		if body != "" {
			p, err := parseBody(body)
			if err != nil {
				return err
			}
			values = p
		}
		return a.conn.SendServiceResponse(args[0], "", "", values, result)
	case "advsvc":
		fields := strings.Fields(rest)
		if len(fields) != 2 {
			return errors.New("usage: advsvc <service> <svc-type>")
		}
		return a.conn.SendServiceAdvertisement(fields[0], fields[1])
	case "help":
		a.printHelp()
		return nil
	case "quit", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q (try help)", name)
	}
}

func (a *App) printHelp() {
	fmt.Fprint(a.out, `commands:
  pub <topic> <json-body>                publish to a topic
  sub <topic> [msg-type]                 subscribe to a topic
  adv <topic> <msg-type>                 advertise a topic
  call <service> [json-args]             call a service
  resp <service> <true|false> [json]     answer a service call
  advsvc <service> <svc-type>            advertise a service
  help                                   show this text
  quit                                   leave
`)
}

// parseLine splits one input line into its command word and the
// untouched remainder. Blank lines are skipped.
func parseLine(line string) (string, string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", "", false
	}
	name, rest, _ := strings.Cut(trimmed, " ")
	return strings.ToLower(name), strings.TrimSpace(rest), true
}

// splitArgs peels n space-separated fields off rest. The remainder
// keeps its interior spacing so JSON bodies survive intact.
func splitArgs(rest string, n int) ([]string, string, bool) {
	args := make([]string, 0, n)
	for i := 0; i < n; i++ {
		field, tail, _ := strings.Cut(strings.TrimSpace(rest), " ")
		if field == "" {
			return nil, "", false
		}
		args = append(args, field)
		rest = tail
	}
	return args, strings.TrimSpace(rest), true
}

// parseBody reads a JSON literal into the wire value model.
func parseBody(s string) (any, error) {
	body, err := (wire.JSONCodec{}).Deserialize([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("parse body: %w", err)
	}
	return body, nil
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
