package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/kz-league/backend/internal/pkg/logger"
)

// CloseReason names why a connection was closed.
type CloseReason string

const (
	CloseShutdown     CloseReason = "server is shutting down"
	CloseTimeout      CloseReason = "exceeded heartbeat timeout"
	CloseUnauthorized CloseReason = "unauthorized"
)

// frame is one inbound read, normalised off the two possible outcomes of
// conn.ReadMessage: a message, or a terminal read error.
type frame struct {
	messageType int
	data        []byte
	err         error
}

// Run drives one connection end to end: handshake, then the dispatch loop.
// shutdown is closed by the process-wide graceful shutdown to signal every
// live connection to close cooperatively.
func Run(conn *websocket.Conn, deps Deps, serverID uint16, shutdown <-chan struct{}) {
	log := deps.Logger.WithField("server_id", serverID)

	if err := conn.SetReadDeadline(time.Now().Add(deps.HeartbeatInterval)); err != nil {
		log.Warn().Err(err).Msg("ws: set handshake read deadline failed")
	}

	env, err := readEnvelope(conn)
	if err != nil {
		closeConn(conn, 1008, CloseUnauthorized)
		log.Warn().Err(err).Msg("ws: handshake read failed")
		return
	}

	session, ack, err := doHandshake(context.Background(), deps, serverID, env)
	if err != nil {
		closeConn(conn, 1008, CloseUnauthorized)
		log.Warn().Err(err).Msg("ws: handshake failed")
		return
	}

	if err := writeEnvelope(conn, env.ID, KindAckHello, ack); err != nil {
		log.Warn().Err(err).Msg("ws: ack_hello write failed")
		return
	}

	dispatchLoop(conn, deps, session, shutdown, log)
}

// dispatchLoop selects across three wake sources: shutdown token, heartbeat
// timer, inbound frame. A background goroutine turns the blocking
// ReadMessage call into a channel send so the main loop can select across
// all three sources.
func dispatchLoop(conn *websocket.Conn, deps Deps, session *Session, shutdown <-chan struct{}, log *logger.Logger) {
	inbound := make(chan frame, 1)
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			mt, data, err := conn.ReadMessage()
			select {
			case inbound <- frame{messageType: mt, data: data, err: err}:
			case <-readerDone:
				return
			}
			if err != nil {
				return
			}
		}
	}()
	defer func() { <-readerDone }()

	heartbeat := time.NewTimer(deps.HeartbeatInterval)
	defer heartbeat.Stop()

	lastTick := time.Now()

	for {
		elapsed := time.Since(lastTick)
		if elapsed < deps.Debounce {
			time.Sleep(deps.Debounce - elapsed)
		}
		lastTick = time.Now()

		select {
		case <-shutdown:
			writeClose(conn, 1000, CloseShutdown)
			return

		case <-heartbeat.C:
			writeClose(conn, 1008, CloseTimeout)
			return

		case f := <-inbound:
			if f.err != nil {
				log.Info().Err(f.err).Msg("ws: connection closed")
				return
			}

			if f.messageType == websocket.PingMessage {
				resetTimer(heartbeat, deps.HeartbeatInterval)
				continue
			}
			if f.messageType == websocket.CloseMessage {
				log.Info().Msg("ws: client sent close frame")
				return
			}
			resetTimer(heartbeat, deps.HeartbeatInterval)

			var env Envelope
			if err := json.Unmarshal(f.data, &env); err != nil {
				writeEnvelope(conn, 0, KindError, ErrorPayload{Title: "malformed frame", Detail: err.Error()})
				continue
			}

			replyKind, replyPayload, err := dispatch(context.Background(), deps, session, env.Kind, env.Payload)
			if err != nil {
				log.Warn().Err(err).Str("kind", env.Kind).Msg("ws: dispatch error")
				writeEnvelope(conn, env.ID, KindError, ErrorPayload{Title: "dispatch failed", Detail: err.Error()})
				continue
			}
			if replyKind == "" {
				continue
			}
			if err := writeEnvelope(conn, env.ID, replyKind, replyPayload); err != nil {
				log.Warn().Err(err).Msg("ws: write reply failed")
				return
			}
		}
	}
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

func readEnvelope(conn *websocket.Conn) (Envelope, error) {
	var env Envelope
	_, data, err := conn.ReadMessage()
	if err != nil {
		return env, err
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return env, err
	}
	return env, nil
}

func writeEnvelope(conn *websocket.Conn, correlationID uint64, kind string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	env := Envelope{ID: correlationID, Kind: kind, Payload: body}
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func writeClose(conn *websocket.Conn, code int, reason CloseReason) {
	msg := websocket.FormatCloseMessage(code, string(reason))
	_ = conn.WriteMessage(websocket.CloseMessage, msg)
	_ = conn.Close()
}

func closeConn(conn *websocket.Conn, code int, reason CloseReason) {
	writeClose(conn, code, reason)
}
