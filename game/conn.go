package game

import (
	"encoding/json"
	"sync"
	"time"

	"api/domain"
	"api/shared/logger"

	"golang.org/x/time/rate"
)

// ClientPacket is one inbound client action. Team is a pointer so that an
// explicit null (back to spectator) can be told apart from a team name.
type ClientPacket struct {
	Type      string       `json:"type"`
	Team      *domain.Team `json:"team,omitempty"`
	Role      domain.Role  `json:"role,omitempty"`
	Word      string       `json:"word,omitempty"`
	Number    int          `json:"number"`
	CardIndex int          `json:"cardIndex"`
}

const (
	PacketChangeTeam = "change_team"
	PacketStartGame  = "start_game"
	PacketSubmitClue = "submit_clue"
	PacketMakeGuess  = "make_guess"
)

// pingInterval must stay comfortably below the read deadline the
// websocket session arms, or healthy clients get cut off.
const pingInterval = 30 * time.Second

// Conn pairs a network session with a buffered outbound queue and an
// inbound rate limit. Writes go through the pump goroutine only.
type Conn struct {
	session   NetworkSession
	sendChan  chan []byte
	done      chan struct{}
	pingEvery time.Duration
	limiter   *rate.Limiter
	closeOnce sync.Once
}

func NewConn(session NetworkSession) *Conn {
	return &Conn{
		session:   session,
		sendChan:  make(chan []byte, 256),
		done:      make(chan struct{}),
		pingEvery: pingInterval,
		limiter:   rate.NewLimiter(5, 10),
	}
}

// Send queues data for the write pump. A slow client whose queue is full
// loses the message rather than stalling the room, and a closed connection
// swallows it: broadcasts race disconnects, and the race must stay quiet.
func (c *Conn) Send(data []byte) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.sendChan <- data:
	default:
		logger.Warningf("dropping outbound packet, send queue full")
	}
}

// Close signals the write pump and closes the underlying session.
// sendChan stays open: closing it would turn a late Send into a panic.
func (c *Conn) Close(errCode string) {
	c.closeOnce.Do(func() {
		c.session.Close(errCode)
		close(c.done)
	})
}

// WritePump drains the outbound queue and pings on a ticker so half-open
// clients eventually miss the read deadline and get torn down.
func (c *Conn) WritePump() {
	ticker := time.NewTicker(c.pingEvery)
	defer ticker.Stop()
	for {
		select {
		case data := <-c.sendChan:
			if err := c.session.Write(data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.session.Ping(); err != nil {
				return
			}
		case <-c.done:
			// flush whatever was queued before the close
			for {
				select {
				case data := <-c.sendChan:
					if err := c.session.Write(data); err != nil {
						return
					}
				default:
					return
				}
			}
		}
	}
}

// ReadPump decodes inbound packets and hands them to onPacket until the
// socket dies. Packets beyond the rate limit are dropped with a private
// error. Blocks; run it on the connection's goroutine.
func (c *Conn) ReadPump(onPacket func(ClientPacket)) {
	for {
		data, err := c.session.Read()
		if err != nil {
			return
		}
		if !c.limiter.Allow() {
			c.Send(encodeEvent(EventError, ErrorPayload{Message: "too-many-requests"}))
			continue
		}
		var packet ClientPacket
		if err := json.Unmarshal(data, &packet); err != nil {
			c.Send(encodeEvent(EventError, ErrorPayload{Message: "invalid-packet"}))
			continue
		}
		onPacket(packet)
	}
}
