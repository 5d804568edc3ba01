package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"

	"github.com/roomforge/roomforge/internal/config"
	"github.com/roomforge/roomforge/internal/door"
	"github.com/roomforge/roomforge/internal/editor"
	"github.com/roomforge/roomforge/internal/geometry"
	"github.com/roomforge/roomforge/internal/protocol"
	"github.com/roomforge/roomforge/internal/ws"
)

type server struct {
	cfg      config.Config
	logger   *log.Logger
	hub      *ws.Hub
	sequence uint64

	mu    sync.Mutex
	state editor.State
}

func newServer(state editor.State, cfg config.Config, logger *log.Logger) *server {
	return &server{
		cfg:    cfg,
		logger: logger,
		hub:    ws.NewHub(),
		state:  state,
	}
}

func (s *server) currentState() editor.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *server) snapshot() protocol.Snapshot {
	s.mu.Lock()
	st := s.state
	s.mu.Unlock()
	return protocol.Snapshot{
		TileSize:        geometry.TilePx,
		Rooms:           st.Rooms,
		WallGroups:      st.Groups,
		EdgeDoors:       st.EdgeDoors,
		SegmentStates:   st.SegmentStates,
		RenderPieces:    st.RenderPieces(),
		Pillars:         st.Pillars(),
		LastSequence:    atomic.LoadUint64(&s.sequence),
		ProtocolVersion: protocol.Version,
	}
}

func (s *server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.snapshot()); err != nil {
		s.logger.Error("encode snapshot", "err", err)
	}
}

func (s *server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		return
	}
	s.hub.Add(conn)
	s.logger.Debug("client connected", "clients", s.hub.ClientCount())

	hello, _ := json.Marshal(protocol.PatchEnvelope{
		Sequence: atomic.LoadUint64(&s.sequence),
		Type:     "Snapshot",
		Payload:  s.snapshot(),
	})
	_ = conn.Write(context.Background(), websocket.MessageText, hello)

	go func(c *websocket.Conn) {
		defer s.hub.Remove(c)
		defer c.Close(websocket.StatusNormalClosure, "")
		for {
			_, data, err := c.Read(context.Background())
			if err != nil {
				return
			}
			s.handleMessage(c, data)
		}
	}(conn)
}

func (s *server) handleMessage(conn *websocket.Conn, data []byte) {
	var env protocol.IntentEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return
	}
	broadcasts, reply := s.applyIntent(env)
	for _, p := range broadcasts {
		if b, err := json.Marshal(p); err == nil {
			s.hub.Broadcast(b)
		}
	}
	if reply != nil {
		if b, err := json.Marshal(*reply); err == nil {
			_ = s.hub.Send(conn, b)
		}
	}
}

// applyIntent runs one intent against the layout state. Structural edits
// broadcast the full changed layout; door and segment toggles broadcast
// only what moved; drag previews reply to the requester alone.
func (s *server) applyIntent(env protocol.IntentEnvelope) (broadcasts []protocol.PatchEnvelope, reply *protocol.PatchEnvelope) {
	switch env.Type {
	case "RequestPlaceRoom":
		var req protocol.RequestPlaceRoom
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return nil, nil
		}
		s.mu.Lock()
		next, rm, err := s.state.PlaceRoom(req.TilesW, req.TilesH, req.X, req.Y, req.FloorStyleID)
		if err == nil {
			s.state = next
		}
		s.mu.Unlock()
		if err != nil {
			return nil, s.rejection(env.Type, err)
		}
		s.logger.Info("room placed", "room", rm.ID, "at", [2]int{rm.X, rm.Y})
		return []protocol.PatchEnvelope{s.layoutPatch()}, nil

	case "RequestMoveRoom":
		var req protocol.RequestMoveRoom
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return nil, nil
		}
		s.mu.Lock()
		next, err := s.state.MoveRoom(req.RoomID, req.X, req.Y)
		if err == nil {
			s.state = next
		}
		s.mu.Unlock()
		if err != nil {
			return nil, s.rejection(env.Type, err)
		}
		s.logger.Info("room moved", "room", req.RoomID, "to", [2]int{req.X, req.Y})
		return []protocol.PatchEnvelope{s.layoutPatch()}, nil

	case "RequestRotateRoom":
		var req protocol.RequestRotateRoom
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return nil, nil
		}
		s.mu.Lock()
		next, err := s.state.RotateRoom(req.RoomID, req.Clockwise)
		if err == nil {
			s.state = next
		}
		s.mu.Unlock()
		if err != nil {
			return nil, s.rejection(env.Type, err)
		}
		s.logger.Info("room rotated", "room", req.RoomID, "clockwise", req.Clockwise)
		return []protocol.PatchEnvelope{s.layoutPatch()}, nil

	case "RequestDeleteRoom":
		var req protocol.RequestDeleteRoom
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return nil, nil
		}
		s.mu.Lock()
		next, err := s.state.DeleteRoom(req.RoomID)
		if err == nil {
			s.state = next
		}
		s.mu.Unlock()
		if err != nil {
			return nil, s.rejection(env.Type, err)
		}
		s.logger.Info("room deleted", "room", req.RoomID)
		return []protocol.PatchEnvelope{s.layoutPatch()}, nil

	case "RequestDoorClick":
		var req protocol.RequestDoorClick
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return nil, nil
		}
		s.mu.Lock()
		next, changed := s.state.DoorClick(req.EdgeID, req.OffsetPx)
		if changed {
			s.state = next
		}
		doors := s.state.EdgeDoors[req.EdgeID]
		s.mu.Unlock()
		if !changed {
			return nil, nil
		}
		return []protocol.PatchEnvelope{s.patch("DoorsChanged", protocol.DoorsChanged{
			EdgeID: req.EdgeID,
			Doors:  doors,
		})}, nil

	case "RequestSegmentClick":
		var req protocol.RequestSegmentClick
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return nil, nil
		}
		s.mu.Lock()
		next, changed := s.state.SegmentClick(req.SegmentID, req.RightClick)
		if changed {
			s.state = next
		}
		var statePtr *door.SegmentState
		if st, ok := s.state.SegmentStates[req.SegmentID]; ok {
			statePtr = &st
		}
		s.mu.Unlock()
		if !changed {
			return nil, nil
		}
		return []protocol.PatchEnvelope{s.patch("SegmentChanged", protocol.SegmentChanged{
			SegmentID: req.SegmentID,
			State:     statePtr,
		})}, nil

	case "RequestDragPreview":
		var req protocol.RequestDragPreview
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return nil, nil
		}
		s.mu.Lock()
		x, y, preview, err := s.state.DragPreview(req.RoomID, req.CursorX, req.CursorY, s.cfg.SnapThresholdPx)
		s.mu.Unlock()
		if err != nil {
			return nil, s.rejection(env.Type, err)
		}
		p := s.reply("DragPreviewResult", protocol.DragPreviewResult{
			RoomID:  req.RoomID,
			X:       x,
			Y:       y,
			Preview: preview,
		})
		return nil, &p

	default:
		s.logger.Debug("unknown intent", "type", env.Type)
		return nil, nil
	}
}

func (s *server) layoutPatch() protocol.PatchEnvelope {
	s.mu.Lock()
	st := s.state
	s.mu.Unlock()
	return s.patch("LayoutChanged", protocol.LayoutChanged{
		Rooms:         st.Rooms,
		WallGroups:    st.Groups,
		EdgeDoors:     st.EdgeDoors,
		SegmentStates: st.SegmentStates,
		RenderPieces:  st.RenderPieces(),
		Pillars:       st.Pillars(),
	})
}

func (s *server) patch(patchType string, payload any) protocol.PatchEnvelope {
	return protocol.PatchEnvelope{
		Sequence: atomic.AddUint64(&s.sequence, 1),
		Type:     patchType,
		Payload:  payload,
	}
}

// reply builds a direct-reply envelope without consuming a sequence number.
func (s *server) reply(patchType string, payload any) protocol.PatchEnvelope {
	return protocol.PatchEnvelope{
		Sequence: atomic.LoadUint64(&s.sequence),
		Type:     patchType,
		Payload:  payload,
	}
}

func (s *server) rejection(intent string, err error) *protocol.PatchEnvelope {
	var oe *editor.OpError
	code := "internal"
	if errors.As(err, &oe) {
		code = oe.Code
	}
	s.logger.Debug("intent rejected", "intent", intent, "err", err)
	p := s.reply("IntentRejected", protocol.IntentRejected{
		Intent:  intent,
		Code:    code,
		Message: err.Error(),
	})
	return &p
}
