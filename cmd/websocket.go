package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"homevistaBack/internal/search"
)

const (
	readLimit     = 1 << 20 // 1 MB
	readDeadline  = 120 * time.Second
	writeDeadline = 5 * time.Second
	pingInterval  = 15 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	ReadBufferSize:    1024,
	WriteBufferSize:   1024,
	EnableCompression: true,
}

// searchFrame is one client command on the live search socket.
type searchFrame struct {
	Action     string `json:"action"`
	Field      string `json:"field,omitempty"`
	Value      string `json:"value,omitempty"`
	PropertyID int    `json:"property_id,omitempty"`
}

type errorFrame struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// SearchSocketHandler runs one live search session per connection. The
// session is seeded from the deep-link query parameters, then driven by
// set_filter/submit/select frames; coordinator events stream back as
// they land.
func (app *application) SearchSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Search WS upgrade error:", err)
		return
	}

	q := r.URL.Query()
	seed := search.Seed{
		City:     q.Get("city"),
		State:    q.Get("state"),
		Lat:      q.Get("lat"),
		Lng:      q.Get("lng"),
		Location: q.Get("location"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	coordinator := search.NewCoordinator(app.propertyService, app.geocodeService, seed)

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	go app.searchWritePump(conn, coordinator, ctx)
	go searchPingLoop(conn, ctx)

	defer func() {
		cancel()
		coordinator.Close()
		_ = conn.Close()
	}()

	for {
		var frame searchFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}

		switch frame.Action {
		case "set_filter":
			if err := coordinator.SetFilter(frame.Field, frame.Value); err != nil {
				app.writeSearchError(conn, err)
			}
		case "submit":
			coordinator.Submit(ctx)
		case "select":
			if _, err := coordinator.Select(frame.PropertyID); err != nil {
				app.writeSearchError(conn, err)
			}
		case "close":
			return
		default:
			log.Printf("search WS unknown action %q", frame.Action)
		}
	}
}

// searchWritePump forwards coordinator events to the socket until the
// session ends.
func (app *application) searchWritePump(conn *websocket.Conn, coordinator *search.Coordinator, ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-coordinator.Events():
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := conn.WriteJSON(event); err != nil {
				log.Println("search WS write error:", err)
				return
			}
		}
	}
}

func searchPingLoop(conn *websocket.Conn, ctx context.Context) {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (app *application) writeSearchError(conn *websocket.Conn, err error) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	if werr := conn.WriteJSON(errorFrame{Kind: "error", Error: err.Error()}); werr != nil {
		log.Println("search WS write error:", werr)
	}
}
