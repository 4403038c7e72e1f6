package mstime

import (
	"testing"
	"time"
)

func TestUnixMilliRoundTrip(t *testing.T) {
	tests := []int64{0, 1, 999, 1000, 1001, 1603971234567, -1500}
	for _, ms := range tests {
		converted := TimeToUnixMilli(UnixMilliToTime(ms))
		if converted != ms {
			t.Errorf("TimeToUnixMilli(UnixMilliToTime(%d)) = %d", ms, converted)
		}
	}
}

func TestReduceToMillisecondPrecision(t *testing.T) {
	original := time.Unix(1600000000, 123456789)
	reduced := ReduceToMillisecondPrecision(original)
	if reduced.Nanosecond() != 123000000 {
		t.Fatalf("expected 123000000 nanoseconds, got %d", reduced.Nanosecond())
	}
	if reduced.Unix() != original.Unix() {
		t.Fatalf("seconds changed: %d != %d", reduced.Unix(), original.Unix())
	}
}
