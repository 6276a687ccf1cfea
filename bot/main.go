// Command bot is a small automated player for exercising a running dig
// server. It joins a room over WebSocket, walks around at random, and prints
// every board frame it receives. Useful for smoke-testing multiplayer
// behavior: run several bots against the same room and watch the shared
// board converge.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

var (
	server   = flag.String("server", "localhost:8080", "Server host:port")
	room     = flag.String("room", "bots", "Room to join")
	player   = flag.String("player", "", "Player id (default: random)")
	moves    = flag.Int("moves", 50, "Number of moves before disconnecting (0 = forever)")
	interval = flag.Duration("interval", 500*time.Millisecond, "Delay between moves")
	quiet    = flag.Bool("quiet", false, "Suppress board printing")
)

var directions = []string{"up", "down", "left", "right"}

type event struct {
	Event   string     `json:"event"`
	Data    string     `json:"data,omitempty"`
	Board   [][]string `json:"board,omitempty"`
	Players []string   `json:"players,omitempty"`
}

func main() {
	flag.Parse()

	name := *player
	if name == "" {
		name = fmt.Sprintf("bot-%04d", rand.Intn(10000))
	}

	u := url.URL{
		Scheme:   "ws",
		Host:     *server,
		Path:     "/ws",
		RawQuery: url.Values{"room": {*room}, "player": {name}}.Encode(),
	}

	log.Printf("Connecting to %s as %s", u.String(), name)
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	// Reader: print whatever the room broadcasts.
	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				log.Printf("Connection closed: %v", err)
				os.Exit(0)
			}
			// The write pump batches frames newline-separated.
			for _, frame := range strings.Split(string(data), "\n") {
				if frame == "" {
					continue
				}
				var ev event
				if err := json.Unmarshal([]byte(frame), &ev); err != nil {
					log.Printf("Bad frame: %v", err)
					continue
				}
				handleEvent(ev)
			}
		}
	}()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	sent := 0
	for {
		select {
		case <-ticker.C:
			dir := directions[rand.Intn(len(directions))]
			if err := conn.WriteJSON(event{Event: "move", Data: dir}); err != nil {
				log.Fatalf("Move failed: %v", err)
			}
			sent++
			if *moves > 0 && sent >= *moves {
				log.Printf("Done after %d moves", sent)
				closeNicely(conn)
				return
			}

		case <-interrupt:
			log.Println("Interrupted")
			closeNicely(conn)
			return
		}
	}
}

func handleEvent(ev event) {
	switch ev.Event {
	case "party":
		log.Printf("Party: %s", strings.Join(ev.Players, ", "))
	case "game":
		if *quiet {
			return
		}
		var sb strings.Builder
		for _, row := range ev.Board {
			sb.WriteString(strings.Join(row, " "))
			sb.WriteByte('\n')
		}
		fmt.Print(sb.String())
	}
}

func closeNicely(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	time.Sleep(100 * time.Millisecond)
}
