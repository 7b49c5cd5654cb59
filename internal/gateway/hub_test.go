package gateway

import (
	"encoding/json"
	"testing"
)

func TestHub_JoinLeaveCounts(t *testing.T) {
	hub := NewHub(nil)

	a := newClient("a", nil, 0)
	b := newClient("b", nil, 0)
	hub.Register(a)
	hub.Register(b)

	hub.Join(a, "market:1.1")
	hub.Join(b, "market:1.1")
	hub.Join(b, "market:1.2")

	if got := hub.RoomMemberCount("market:1.1"); got != 2 {
		t.Errorf("market:1.1 members = %d, want 2", got)
	}
	if got := hub.RoomMemberCount("market:1.2"); got != 1 {
		t.Errorf("market:1.2 members = %d, want 1", got)
	}

	hub.Leave(a, "market:1.1")
	if got := hub.RoomMemberCount("market:1.1"); got != 1 {
		t.Errorf("after leave, market:1.1 members = %d, want 1", got)
	}

	if got := hub.RoomMemberCount("market:9.9"); got != 0 {
		t.Errorf("unknown room members = %d, want 0", got)
	}
}

func TestHub_UnregisterLeavesEveryRoom(t *testing.T) {
	hub := NewHub(nil)

	c := newClient("a", nil, 0)
	hub.Register(c)
	hub.Join(c, "market:1.1")
	hub.Join(c, "market:1.2")

	hub.Unregister(c)

	if got := hub.RoomMemberCount("market:1.1"); got != 0 {
		t.Errorf("market:1.1 members = %d, want 0", got)
	}
	if got := hub.RoomMemberCount("market:1.2"); got != 0 {
		t.Errorf("market:1.2 members = %d, want 0", got)
	}
	if got := hub.ClientCount(); got != 0 {
		t.Errorf("client count = %d, want 0", got)
	}
}

func TestHub_JoinBeforeRegisterIsIgnored(t *testing.T) {
	hub := NewHub(nil)

	c := newClient("a", nil, 0)
	hub.Join(c, "market:1.1")

	if got := hub.RoomMemberCount("market:1.1"); got != 0 {
		t.Errorf("unregistered join should not count, got %d", got)
	}
}

func TestHub_EmitToRoomDeliversEnvelope(t *testing.T) {
	hub := NewHub(nil)

	member := newClient("a", nil, 0)
	outsider := newClient("b", nil, 0)
	hub.Register(member)
	hub.Register(outsider)
	hub.Join(member, "market:1.1")
	hub.Join(outsider, "market:2.2")

	hub.EmitToRoom("market:1.1", "market:data:1.1", map[string]string{"marketId": "1.1"})

	select {
	case frame := <-member.send:
		var env struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatalf("invalid frame: %v", err)
		}
		if env.Event != "market:data:1.1" {
			t.Errorf("event = %q, want %q", env.Event, "market:data:1.1")
		}
	default:
		t.Fatal("member received no frame")
	}

	select {
	case <-outsider.send:
		t.Fatal("outsider received a frame for a room it never joined")
	default:
	}
}
