package events

import (
	"time"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Event type names
const (
	TypeEntryCreated  = "entry.created"
	TypeEntryUpdated  = "entry.updated"
	TypeEntryArchived = "entry.archived"

	TypeGraphRebuilt      = "graph.rebuilt"
	TypeLayoutApplied     = "graph.layout_applied"
	TypeSimulationSettled = "graph.simulation_settled"
	TypeNodePinned        = "graph.node_pinned"
	TypeNodeReleased      = "graph.node_released"
	TypeEditRequested     = "graph.edit_requested"
	TypeSessionClosed     = "graph.session_closed"
)

// Entry Events

// EntryCreated is raised when a new entry is captured
type EntryCreated struct {
	BaseEvent
	EntryID string   `json:"entry_id"`
	Tags    []string `json:"tags"`
}

// NewEntryCreated creates an EntryCreated event
func NewEntryCreated(entryID string, tags []string, timestamp time.Time) EntryCreated {
	return EntryCreated{
		BaseEvent: BaseEvent{
			AggregateID: entryID,
			EventType:   TypeEntryCreated,
			Timestamp:   timestamp,
			Version:     1,
		},
		EntryID: entryID,
		Tags:    tags,
	}
}

// EntryUpdated is raised when entry text (and so its hashtags) changes
type EntryUpdated struct {
	BaseEvent
	EntryID string   `json:"entry_id"`
	Tags    []string `json:"tags"`
}

// NewEntryUpdated creates an EntryUpdated event
func NewEntryUpdated(entryID string, tags []string, timestamp time.Time) EntryUpdated {
	return EntryUpdated{
		BaseEvent: BaseEvent{
			AggregateID: entryID,
			EventType:   TypeEntryUpdated,
			Timestamp:   timestamp,
			Version:     1,
		},
		EntryID: entryID,
		Tags:    tags,
	}
}

// EntryArchived is raised when an entry is archived
type EntryArchived struct {
	BaseEvent
	EntryID string `json:"entry_id"`
}

// NewEntryArchived creates an EntryArchived event
func NewEntryArchived(entryID string, timestamp time.Time) EntryArchived {
	return EntryArchived{
		BaseEvent: BaseEvent{
			AggregateID: entryID,
			EventType:   TypeEntryArchived,
			Timestamp:   timestamp,
			Version:     1,
		},
		EntryID: entryID,
	}
}

// Visualization session events. The aggregate id is the session id.

// GraphRebuilt is raised after a full connection-builder pass
type GraphRebuilt struct {
	BaseEvent
	NodeCount int           `json:"node_count"`
	EdgeCount int           `json:"edge_count"`
	Threshold float64       `json:"threshold"`
	Duration  time.Duration `json:"duration"`
}

// NewGraphRebuilt creates a GraphRebuilt event
func NewGraphRebuilt(sessionID string, nodes, edges int, threshold float64, took time.Duration, timestamp time.Time) GraphRebuilt {
	return GraphRebuilt{
		BaseEvent: BaseEvent{
			AggregateID: sessionID,
			EventType:   TypeGraphRebuilt,
			Timestamp:   timestamp,
			Version:     1,
		},
		NodeCount: nodes,
		EdgeCount: edges,
		Threshold: threshold,
		Duration:  took,
	}
}

// LayoutApplied is raised after a layout pass
type LayoutApplied struct {
	BaseEvent
	Mode     string        `json:"mode"`
	Duration time.Duration `json:"duration"`
}

// NewLayoutApplied creates a LayoutApplied event
func NewLayoutApplied(sessionID, mode string, took time.Duration, timestamp time.Time) LayoutApplied {
	return LayoutApplied{
		BaseEvent: BaseEvent{
			AggregateID: sessionID,
			EventType:   TypeLayoutApplied,
			Timestamp:   timestamp,
			Version:     1,
		},
		Mode:     mode,
		Duration: took,
	}
}

// SimulationSettled is raised when the force simulation cools below alphaMin
type SimulationSettled struct {
	BaseEvent
	Ticks int `json:"ticks"`
}

// NewSimulationSettled creates a SimulationSettled event
func NewSimulationSettled(sessionID string, ticks int, timestamp time.Time) SimulationSettled {
	return SimulationSettled{
		BaseEvent: BaseEvent{
			AggregateID: sessionID,
			EventType:   TypeSimulationSettled,
			Timestamp:   timestamp,
			Version:     1,
		},
		Ticks: ticks,
	}
}

// NodePinChanged is raised when a node is pinned by a drag or released
type NodePinChanged struct {
	BaseEvent
	NodeID string  `json:"node_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// NewNodePinned creates a pin event
func NewNodePinned(sessionID, nodeID string, x, y float64, timestamp time.Time) NodePinChanged {
	return NodePinChanged{
		BaseEvent: BaseEvent{
			AggregateID: sessionID,
			EventType:   TypeNodePinned,
			Timestamp:   timestamp,
			Version:     1,
		},
		NodeID: nodeID,
		X:      x,
		Y:      y,
	}
}

// NewNodeReleased creates a release event
func NewNodeReleased(sessionID, nodeID string, timestamp time.Time) NodePinChanged {
	return NodePinChanged{
		BaseEvent: BaseEvent{
			AggregateID: sessionID,
			EventType:   TypeNodeReleased,
			Timestamp:   timestamp,
			Version:     1,
		},
		NodeID: nodeID,
	}
}

// EditRequested is raised when the user asks to edit an entry from the graph
type EditRequested struct {
	BaseEvent
	EntryID string `json:"entry_id"`
}

// NewEditRequested creates an EditRequested event
func NewEditRequested(sessionID, entryID string, timestamp time.Time) EditRequested {
	return EditRequested{
		BaseEvent: BaseEvent{
			AggregateID: sessionID,
			EventType:   TypeEditRequested,
			Timestamp:   timestamp,
			Version:     1,
		},
		EntryID: entryID,
	}
}

// SessionClosed is raised on teardown
type SessionClosed struct {
	BaseEvent
}

// NewSessionClosed creates a SessionClosed event
func NewSessionClosed(sessionID string, timestamp time.Time) SessionClosed {
	return SessionClosed{
		BaseEvent: BaseEvent{
			AggregateID: sessionID,
			EventType:   TypeSessionClosed,
			Timestamp:   timestamp,
			Version:     1,
		},
	}
}
