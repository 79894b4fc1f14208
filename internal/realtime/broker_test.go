package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func recvEvent(t *testing.T, ch chan ClientEvent) ClientEvent {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return ClientEvent{}
	}
}

func expectNoEvent(t *testing.T, ch chan ClientEvent) {
	t.Helper()
	select {
	case e := <-ch:
		t.Fatalf("unexpected event: %+v", e)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestBrokerTargetedDelivery(t *testing.T) {
	broker := NewBroker()
	alice := uuid.New()
	bob := uuid.New()

	aliceCh := make(chan ClientEvent, 4)
	bobCh := make(chan ClientEvent, 4)
	broker.Register(alice, aliceCh)
	broker.Register(bob, bobCh)
	defer broker.Unregister(alice, aliceCh)
	defer broker.Unregister(bob, bobCh)

	broker.Send(ClientEvent{
		Change: Change{Event: EventInsert, Table: "notifications"},
		UserID: alice,
	})

	if got := recvEvent(t, aliceCh); got.Table != "notifications" {
		t.Fatalf("event %+v", got)
	}
	expectNoEvent(t, bobCh)
}

func TestBrokerBroadcast(t *testing.T) {
	broker := NewBroker()
	alice := uuid.New()
	bob := uuid.New()

	aliceCh := make(chan ClientEvent, 4)
	bobCh := make(chan ClientEvent, 4)
	broker.Register(alice, aliceCh)
	broker.Register(bob, bobCh)
	defer broker.Unregister(alice, aliceCh)
	defer broker.Unregister(bob, bobCh)

	broker.Send(ClientEvent{Change: Change{Event: EventInsert, Table: "posts"}})

	recvEvent(t, aliceCh)
	recvEvent(t, bobCh)
}

func TestBrokerUnregisterClosesChannel(t *testing.T) {
	broker := NewBroker()
	user := uuid.New()

	ch := make(chan ClientEvent, 1)
	broker.Register(user, ch)
	if broker.ClientCount(user) != 1 {
		t.Fatal("client not counted")
	}

	broker.Unregister(user, ch)
	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed")
	}
	if broker.ClientCount(user) != 0 {
		t.Fatal("client still counted")
	}

	// sending after unregister must not panic
	broker.Send(ClientEvent{Change: Change{Event: EventInsert, Table: "posts"}, UserID: user})
}

func TestPumpRoutesTargetedTablesByRowUser(t *testing.T) {
	bus := NewBus()
	broker := NewBroker()
	alice := uuid.New()
	bob := uuid.New()

	stop := StartPump(bus, broker, map[string]bool{"notifications": true}, "notifications", "posts")
	defer stop()

	aliceCh := make(chan ClientEvent, 4)
	bobCh := make(chan ClientEvent, 4)
	broker.Register(alice, aliceCh)
	broker.Register(bob, bobCh)
	defer broker.Unregister(alice, aliceCh)
	defer broker.Unregister(bob, bobCh)

	// a notification row lands only on its recipient's stream
	row, _ := json.Marshal(map[string]string{"user_id": alice.String(), "title": "hi"})
	bus.Publish(Change{Event: EventInsert, Table: "notifications", RowID: uuid.New(), Row: row})

	if got := recvEvent(t, aliceCh); got.Table != "notifications" {
		t.Fatalf("event %+v", got)
	}
	expectNoEvent(t, bobCh)

	// a post change is broadcast to everyone
	bus.Publish(Change{Event: EventInsert, Table: "posts", RowID: uuid.New()})
	recvEvent(t, aliceCh)
	recvEvent(t, bobCh)
}
