package notify

import (
	"context"
	"os"
	"testing"

	"github.com/ctessum/geom"
)

func TestSendDevModeReturns999AndNoNetworkIO(t *testing.T) {
	os.Setenv("PLUME_PLUGIN_DEV", "1")
	defer os.Unsetenv("PLUME_PLUGIN_DEV")

	sink := NewSink("http://unreachable.invalid:0", "/notify", map[string]string{
		"class": "d1", "type": "fc", "expver": "0001", "date": "20250101", "time": "0000",
	})
	status, err := sink.Send(context.Background(), `{"step":"1h"}`, []geom.Point{{X: 1, Y: 2}})
	if err != nil {
		t.Fatalf("dev mode should never return an error, got %v", err)
	}
	if status != devSuccessStatus {
		t.Errorf("status = %d, want %d", status, devSuccessStatus)
	}
}

func TestEncodeURLMatchesSchemaAndPolygonOrdering(t *testing.T) {
	sink := NewSink("https://aviso.example", "/notify", map[string]string{
		"class": "d1", "type": "fc", "expver": "0001", "date": "20250101", "time": "0000",
	})
	got := sink.encodeURL([]geom.Point{{X: 250.3, Y: 16.9}, {X: 247.4, Y: 14.4}})
	want := "https://aviso.example/notify?class=d1&date=20250101&expver=0001&time=0000&type=fc&polygon=250.3,16.9,247.4,14.4"
	if got != want {
		t.Errorf("encodeURL =\n%s\nwant\n%s", got, want)
	}
}

func TestInspectorRecentReturnsLast64OldestFirst(t *testing.T) {
	os.Setenv("PLUME_PLUGIN_DEV", "1")
	defer os.Unsetenv("PLUME_PLUGIN_DEV")

	insp := NewInspector()
	sink := NewSink("http://x", "/n", map[string]string{"class": "c"}, WithInspector(insp))

	const total = 70
	for i := 0; i < total; i++ {
		payload := string(rune('a' + i%26))
		sink.Send(context.Background(), payload, nil)
	}
	recent := insp.Recent()
	if len(recent) != inspectorCapacity {
		t.Fatalf("got %d records, want %d", len(recent), inspectorCapacity)
	}
	// The oldest retained record corresponds to call index total-64.
	wantFirst := string(rune('a' + (total-inspectorCapacity)%26))
	if recent[0].Payload != wantFirst {
		t.Errorf("oldest retained payload = %q, want %q", recent[0].Payload, wantFirst)
	}
	wantLast := string(rune('a' + (total-1)%26))
	if recent[len(recent)-1].Payload != wantLast {
		t.Errorf("newest payload = %q, want %q", recent[len(recent)-1].Payload, wantLast)
	}
}
