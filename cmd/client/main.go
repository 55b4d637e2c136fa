package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jswales/capstead/pkg/game/types"
	"github.com/jswales/capstead/pkg/log"
	"github.com/jswales/capstead/pkg/messages"
	"github.com/jswales/capstead/pkg/network"
)

// client holds the terminal client's view of the session. The reader
// goroutine and the input loop share it under mu.
type client struct {
	conn net.Conn
	rng  *rand.Rand

	mu            sync.Mutex
	seat          *messages.SeatAssignment
	pendingBool   string
	pendingChoice string
	choiceOptions []string
	pendingOffer  bool
	visit         *casinoVisit
}

func main() {
	addr := flag.String("addr", "", "Host address (host:port), empty to discover on the LAN")
	name := flag.String("name", "", "Display name")
	logLevel := flag.String("log-level", "warn", "Log level")
	discoverTimeout := flag.Duration("discover-timeout", 10*time.Second, "How long to wait for a LAN announcement")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}
	log.SetDefaultLogger(log.New(os.Stderr, log.DefaultLoggerFlag, parsedLogLevel))

	if *name == "" {
		fmt.Println("A display name is required (-name).")
		os.Exit(1)
	}

	hostAddr := *addr
	if hostAddr == "" {
		fmt.Println("Listening for a session on the LAN...")
		host, err := network.ListenForHosts(context.Background(), 0, *discoverTimeout)
		if err != nil {
			fmt.Printf("No session found: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Found session %q at %s\n", host.SessionName, host.Addr)
		hostAddr = host.Addr
	}

	conn, err := net.Dial("tcp", hostAddr)
	if err != nil {
		fmt.Printf("Failed to connect to %s: %v\n", hostAddr, err)
		os.Exit(1)
	}
	defer conn.Close()

	c := &client{
		conn: conn,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := c.send(messages.MessageTypeClientHello, messages.ClientHello{Name: *name}); err != nil {
		fmt.Printf("Failed to send hello: %v\n", err)
		os.Exit(1)
	}

	done := make(chan struct{})
	go c.readLoop(done)

	fmt.Println("Connected. Type /help for commands; y/n or a number answers prompts.")
	c.inputLoop(done)
}

func (c *client) send(msgType string, payload interface{}) error {
	msg, err := messages.New(0, msgType, payload)
	if err != nil {
		return err
	}
	return network.WriteMessageToTCP(c.conn, msg)
}

func (c *client) readLoop(done chan struct{}) {
	defer close(done)
	for {
		msg, err := network.ReadMessageFromTCP(c.conn)
		if err != nil {
			fmt.Println("Lost connection to the host.")
			return
		}
		c.handleMessage(msg)
	}
}

func (c *client) handleMessage(msg *messages.Message) {
	switch msg.Type {
	case messages.MessageTypeServerSeat:
		var seat messages.SeatAssignment
		if err := msg.Unmarshal(&seat); err != nil {
			log.Error("Bad seat message: %v", err)
			return
		}
		c.mu.Lock()
		c.seat = &seat
		c.mu.Unlock()
		if seat.Host {
			fmt.Printf("You are %s (seat %d). You are the host: /start begins the session.\n", seat.Name, seat.Seat)
		} else {
			fmt.Printf("You are %s (seat %d).\n", seat.Name, seat.Seat)
		}
	case messages.MessageTypeServerLog:
		var entry messages.ServerLog
		if err := msg.Unmarshal(&entry); err != nil {
			return
		}
		fmt.Printf("» %s\n", entry.Text)
	case messages.MessageTypeServerNotice:
		var notice messages.ServerNotice
		if err := msg.Unmarshal(&notice); err != nil {
			return
		}
		fmt.Printf("! %s\n", notice.Text)
	case messages.MessageTypeServerChat:
		var chat messages.ServerChat
		if err := msg.Unmarshal(&chat); err != nil {
			return
		}
		switch {
		case chat.Action:
			fmt.Printf("* %s %s\n", chat.From, chat.Text)
		case chat.Private:
			fmt.Printf("(%s) %s\n", chat.From, chat.Text)
		default:
			fmt.Printf("[%s] %s\n", chat.From, chat.Text)
		}
	case messages.MessageTypeServerPlayerStats:
		var stats types.PlayerSnapshot
		if err := msg.Unmarshal(&stats); err != nil {
			return
		}
		c.mu.Lock()
		mine := c.seat != nil && c.seat.PlayerID == stats.ID
		c.mu.Unlock()
		if mine {
			fmt.Printf("  caps %d | water %d power %d food %d scrap %d\n",
				stats.Caps,
				stats.Resources[types.ResourceWater],
				stats.Resources[types.ResourcePower],
				stats.Resources[types.ResourceFood],
				stats.Resources[types.ResourceScrap])
		}
	case messages.MessageTypeServerTurnChange:
		var turn messages.TurnChange
		if err := msg.Unmarshal(&turn); err != nil {
			return
		}
		c.mu.Lock()
		mine := c.seat != nil && c.seat.PlayerID == turn.PlayerID
		c.mu.Unlock()
		if mine {
			fmt.Println("--- It is YOUR turn. Type roll, improve, trade, mortgage <pos> or casino. ---")
		}
	case messages.MessageTypeServerBoolPrompt:
		var prompt messages.BoolPrompt
		if err := msg.Unmarshal(&prompt); err != nil {
			return
		}
		c.mu.Lock()
		c.pendingBool = prompt.Kind
		c.mu.Unlock()
		fmt.Printf("? %s (y/n)\n", prompt.Text)
	case messages.MessageTypeServerChoicePrompt:
		var prompt messages.ChoicePrompt
		if err := msg.Unmarshal(&prompt); err != nil {
			return
		}
		c.mu.Lock()
		c.pendingChoice = prompt.Kind
		c.choiceOptions = prompt.Options
		c.mu.Unlock()
		fmt.Printf("? %s\n", prompt.Text)
		for i, option := range prompt.Options {
			fmt.Printf("  %d) %s\n", i+1, option)
		}
	case messages.MessageTypeServerOfferPrompt:
		var prompt messages.OfferPrompt
		if err := msg.Unmarshal(&prompt); err != nil {
			return
		}
		c.mu.Lock()
		c.pendingOffer = true
		c.mu.Unlock()
		fmt.Printf("? %s\n", prompt.Text)
		fmt.Println("  Build it with: offer [caps=N] [water=N] [power=N] [food=N] [scrap=N] [prop=P1,P2]")
		fmt.Println("  An empty offer is: offer")
	case messages.MessageTypeServerCasinoConfig:
		var config types.CasinoConfig
		if err := msg.Unmarshal(&config); err != nil {
			return
		}
		c.mu.Lock()
		c.visit = newCasinoVisit(config, c.rng)
		c.mu.Unlock()
		fmt.Println("Welcome to the casino. Tables and their stakes:")
		fmt.Printf("  coinflip (%s), blackjack (%s), baccarat (%s), dice (%s)\n",
			config.CoinflipCurrency, config.BlackjackCurrency, config.BaccaratCurrency, config.DiceCurrency)
		fmt.Println("  Play with: bet <table> <stake>. Type leave to cash out.")
	case messages.MessageTypeServerGameOver:
		var over messages.GameOver
		if err := msg.Unmarshal(&over); err != nil {
			return
		}
		if over.Draw {
			fmt.Println("=== The session ends in a draw. ===")
		} else {
			fmt.Printf("=== %s wins! ===\n", over.WinnerName)
		}
	}
}

func (c *client) inputLoop(done chan struct{}) {
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-done:
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			if err := c.handleInput(strings.TrimSpace(line)); err != nil {
				fmt.Printf("! %v\n", err)
			}
		}
	}
}

func (c *client) handleInput(line string) error {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		c.conn.Close()
		return nil
	case "y", "yes":
		return c.answerBool(true)
	case "n", "no":
		return c.answerBool(false)
	case "roll":
		return c.send(messages.MessageTypeClientRoll, nil)
	case "improve":
		return c.send(messages.MessageTypeClientImprove, nil)
	case "trade":
		return c.send(messages.MessageTypeClientTrade, nil)
	case "casino":
		return c.send(messages.MessageTypeClientCasino, nil)
	case "mortgage":
		if len(fields) != 2 {
			return fmt.Errorf("usage: mortgage <position>")
		}
		pos, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("bad position %q", fields[1])
		}
		return c.send(messages.MessageTypeClientMortgage, messages.MortgageRequest{Position: pos})
	case "offer":
		return c.answerOffer(fields[1:])
	case "bet":
		return c.casinoBet(fields)
	case "leave":
		return c.casinoLeave()
	}

	if n, err := strconv.Atoi(fields[0]); err == nil && len(fields) == 1 {
		return c.answerChoice(n)
	}

	return c.send(messages.MessageTypeClientChat, messages.ChatMessage{Text: line})
}

func (c *client) answerBool(value bool) error {
	c.mu.Lock()
	kind := c.pendingBool
	c.pendingBool = ""
	c.mu.Unlock()
	if kind == "" {
		return fmt.Errorf("nothing to answer")
	}
	return c.send(messages.MessageTypeClientBoolResponse, messages.BoolResponse{Kind: kind, Value: value})
}

func (c *client) answerChoice(n int) error {
	c.mu.Lock()
	kind := c.pendingChoice
	options := c.choiceOptions
	c.pendingChoice = ""
	c.choiceOptions = nil
	c.mu.Unlock()
	if kind == "" {
		return fmt.Errorf("nothing to choose")
	}
	if n < 1 || n > len(options) {
		c.mu.Lock()
		c.pendingChoice = kind
		c.choiceOptions = options
		c.mu.Unlock()
		return fmt.Errorf("pick a number between 1 and %d", len(options))
	}
	return c.send(messages.MessageTypeClientChoiceResponse, messages.ChoiceResponse{Kind: kind, Choice: options[n-1]})
}

func (c *client) answerOffer(args []string) error {
	c.mu.Lock()
	pending := c.pendingOffer
	c.pendingOffer = false
	c.mu.Unlock()
	if !pending {
		return fmt.Errorf("nobody asked for an offer")
	}

	offer, err := parseOffer(args)
	if err != nil {
		c.mu.Lock()
		c.pendingOffer = true
		c.mu.Unlock()
		return err
	}
	return c.send(messages.MessageTypeClientOfferResponse, messages.OfferResponse{Offer: offer})
}

// parseOffer turns "caps=100 water=2 prop=3,5" into a trade offer.
func parseOffer(args []string) (messages.TradeOffer, error) {
	offer := messages.TradeOffer{Resources: make(map[types.Resource]int)}
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			return offer, fmt.Errorf("expected key=value, got %q", arg)
		}
		switch key {
		case "caps":
			n, err := strconv.Atoi(value)
			if err != nil {
				return offer, fmt.Errorf("bad caps amount %q", value)
			}
			offer.Caps = n
		case "prop":
			for _, part := range strings.Split(value, ",") {
				pos, err := strconv.Atoi(part)
				if err != nil {
					return offer, fmt.Errorf("bad property position %q", part)
				}
				offer.Properties = append(offer.Properties, pos)
			}
		default:
			r := types.Resource(key)
			if !types.IsValidResource(r) {
				return offer, fmt.Errorf("unknown offer key %q", key)
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				return offer, fmt.Errorf("bad %s amount %q", key, value)
			}
			offer.Resources[r] = n
		}
	}
	return offer, nil
}

func (c *client) casinoBet(fields []string) error {
	if len(fields) != 3 {
		return fmt.Errorf("usage: bet <table> <stake>")
	}
	stake, err := strconv.Atoi(fields[2])
	if err != nil {
		return fmt.Errorf("bad stake %q", fields[2])
	}

	c.mu.Lock()
	visit := c.visit
	c.mu.Unlock()
	if visit == nil {
		return fmt.Errorf("you are not at the casino; type casino on your turn")
	}

	outcome, err := visit.play(strings.ToLower(fields[1]), stake)
	if err != nil {
		return err
	}
	fmt.Printf("  %s\n", outcome)
	return nil
}

func (c *client) casinoLeave() error {
	c.mu.Lock()
	visit := c.visit
	c.visit = nil
	c.mu.Unlock()
	if visit == nil {
		return fmt.Errorf("you are not at the casino")
	}
	return c.send(messages.MessageTypeClientCasinoResult, visit.result())
}
