// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/overflow-online/overflow-server/internal/middleware"
)

// GameWSHandler upgrades the HTTP connection to a websocket, assigns the
// connection its player identity, and runs the read loop, dispatching each
// decoded command to the server. Disconnect cleanup runs when the loop ends,
// however it ends.
func GameWSHandler(logger *logrus.Logger, srv *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error: %v", err)
			return
		}
		defer conn.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		client := &Client{
			ID:     uuid.NewString(),
			out:    make(chan outMessage, 64),
			cancel: cancel,
		}
		srv.Register(client)
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)
		logger.Infof("Client connected: %s from %s", client.ID, r.RemoteAddr)

		go writePump(ctx, conn, client)

		readErr := readLoop(ctx, conn, srv, client)

		// Cleanup must not be cut short by the request context ending.
		srv.HandleDisconnect(context.Background(), client)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, readErr)
		logger.Infof("Client disconnected: %s", client.ID)
		conn.Close(websocket.StatusNormalClosure, "")
	}
}

// readLoop blocks reading frames until the connection drops or the context
// ends. Malformed frames are reported to the sender and skipped.
func readLoop(ctx context.Context, conn *websocket.Conn, srv *GameServer, client *Client) error {
	for {
		_, frame, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		cmd, err := decodeCommand(frame)
		if err != nil {
			client.Write(outMessage{
				Event: "errorResponse",
				Data:  map[string]any{"result": false, "message": err.Error()},
			})
			continue
		}
		srv.Dispatch(ctx, client, cmd)
	}
}

// writePump drains the client's outgoing queue onto the wire.
func writePump(ctx context.Context, conn *websocket.Conn, client *Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-client.out:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
	}
}
