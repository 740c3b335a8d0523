package rosbridge

import (
	"testing"

	"github.com/danmuck/bridgectl/internal/testutil/testlog"
)

func TestParseOpCoversVocabulary(t *testing.T) {
	testlog.Start(t)
	known := []Op{
		OpAdvertise,
		OpUnadvertise,
		OpPublish,
		OpSubscribe,
		OpUnsubscribe,
		OpCallService,
		OpAdvertiseService,
		OpUnadvertiseService,
		OpServiceResponse,
	}
	for _, want := range known {
		got, ok := ParseOp(string(want))
		if !ok || got != want {
			t.Fatalf("parse %q: got %q ok=%v", want, got, ok)
		}
	}
}

func TestParseOpRejectsUnknownNames(t *testing.T) {
	testlog.Start(t)
	for _, name := range []string{"", "ping", "Publish", "publish ", "fragment", "unhandled"} {
		got, ok := ParseOp(name)
		if ok {
			t.Fatalf("expected %q to be unknown", name)
		}
		if got != OpUnhandled {
			t.Fatalf("unknown op mapped to %q", got)
		}
	}
}
