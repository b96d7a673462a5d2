package metrics

import (
	"testing"
	"time"
)

func TestCollector_RecordTiming(t *testing.T) {
	c := NewCollector()

	c.RecordTiming(OpSearch, 10*time.Millisecond)
	c.RecordTiming(OpSearch, 30*time.Millisecond)

	snap := c.Snapshot()
	if snap.Search == nil {
		t.Fatal("search snapshot is nil")
	}
	if snap.Search.Count != 2 {
		t.Errorf("count = %d, want 2", snap.Search.Count)
	}
	if snap.Search.MinTimeMs != 10 || snap.Search.MaxTimeMs != 30 {
		t.Errorf("min/max = %d/%d, want 10/30", snap.Search.MinTimeMs, snap.Search.MaxTimeMs)
	}
	if snap.Transform != nil {
		t.Error("unrecorded operation should snapshot as nil")
	}
}

func TestCollector_RecordChatUsage(t *testing.T) {
	c := NewCollector()

	c.RecordChatUsage(100*time.Millisecond, 120, 45)
	c.RecordChatUsage(200*time.Millisecond, 80, 15)

	snap := c.Snapshot()
	if snap.Chat == nil {
		t.Fatal("chat snapshot is nil")
	}
	if snap.Chat.TotalInputTokens == nil || *snap.Chat.TotalInputTokens != 200 {
		t.Errorf("input tokens = %v, want 200", snap.Chat.TotalInputTokens)
	}
	if snap.Chat.TotalOutputTokens == nil || *snap.Chat.TotalOutputTokens != 60 {
		t.Errorf("output tokens = %v, want 60", snap.Chat.TotalOutputTokens)
	}
}
