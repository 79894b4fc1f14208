package realtime

import (
	"encoding/json"

	"github.com/google/uuid"
)

// StartPump routes bus changes into the broker. Tables listed in targeted are
// delivered only to the user named by the row's user_id field; changes on all
// other tables are broadcast to every connected client. The returned cancel
// func stops the pump.
func StartPump(bus *Bus, broker *Broker, targeted map[string]bool, tables ...string) func() {
	ch, cancel := bus.Subscribe(tables...)

	go func() {
		for change := range ch {
			event := ClientEvent{Change: change}
			if targeted[change.Table] && change.Row != nil {
				var row struct {
					UserID uuid.UUID `json:"user_id"`
				}
				if err := json.Unmarshal(change.Row, &row); err == nil {
					event.UserID = row.UserID
				}
			}
			broker.Send(event)
		}
	}()
	return cancel
}
