package registry

// Handle is an opaque reference to a value in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

const (
	indexBits  = 24
	indexMask  = 1<<indexBits - 1
	maxEntries = indexMask
)

func makeHandle(index int, gen uint8) Handle {
	return Handle(uint32(gen)<<indexBits | uint32(index+1))
}

func (h Handle) index() int {
	return int(uint32(h)&indexMask) - 1
}

func (h Handle) generation() uint8 {
	return uint8(uint32(h) >> indexBits)
}

// EventType identifies a table lifecycle notification.
type EventType uint8

const (
	EventInserted EventType = iota
	EventRemoved
	EventReclaimed
)

func (t EventType) String() string {
	switch t {
	case EventInserted:
		return "inserted"
	case EventRemoved:
		return "removed"
	case EventReclaimed:
		return "reclaimed"
	}
	return "unknown"
}

// Event represents a table lifecycle event.
type Event struct {
	Value  any
	Handle Handle
	Type   EventType
}

// Observer receives notifications about table lifecycle events.
type Observer interface {
	OnRegistryEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// OnRegistryEvent calls f(e).
func (f ObserverFunc) OnRegistryEvent(e Event) { f(e) }

// Dropper is optionally implemented by values that need cleanup when they
// leave the table.
type Dropper interface {
	Drop()
}
