package game

import (
	"time"

	"github.com/gorilla/websocket"
)

// pongWait bounds how long a client may go without answering a ping
// before its reads start failing.
const pongWait = time.Minute

type websocketSession struct {
	socket *websocket.Conn
}

func NewWebsocketSession(conn *websocket.Conn) *websocketSession {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	return &websocketSession{socket: conn}
}

func (ws *websocketSession) Write(data []byte) error {
	return ws.socket.WriteMessage(websocket.TextMessage, data)
}

func (ws *websocketSession) Ping() error {
	return ws.socket.WriteMessage(websocket.PingMessage, nil)
}

func (ws *websocketSession) Read() ([]byte, error) {
	_, p, err := ws.socket.ReadMessage()
	return p, err
}

func (ws *websocketSession) Close(errCode string) {
	ws.socket.SetWriteDeadline(time.Now().Add(time.Second * 20))
	ws.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, errCode))
	ws.socket.Close()
}
