package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Lysander66/census-stream/census"
	"github.com/Lysander66/census-stream/pkg/message"
)

func main() {
	cfg, err := census.LoadConfig()
	if err != nil {
		slog.Error("❌ config", "err", err)
		os.Exit(1)
	}
	level, _ := cfg.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, closeFn, err := census.Dial(ctx, cfg, census.LogHandler{})
	if err != nil {
		slog.Error("❌ connect", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeFn(); err != nil {
			slog.Error("close", "err", err)
		}
	}()

	slog.Info("🚀 stream client started", "environment", cfg.Environment)
	printHelp()

	lines := make(chan string)
	go readLines(lines)

	for {
		select {
		case <-ctx.Done():
			slog.Info("👋 shutting down")
			return
		case <-client.Done():
			slog.Info("🔌 connection closed", "err", client.Err())
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if quit := handleLine(client, line); quit {
				return
			}
		}
	}
}

func readLines(out chan<- string) {
	defer close(out)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			out <- line
		}
	}
}

func handleLine(client *census.Client, line string) (quit bool) {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	var action message.Action
	var err error
	switch command {
	case "quit", "q":
		return true
	case "help", "h":
		printHelp()
		return false
	case "status", "s":
		slog.Info("📊 status", "connected", client.Connected(), "frames", client.Frames())
		return false
	case "sub":
		action, err = parseSubscribe(parts[1:])
	case "clear":
		action, err = parseClear(parts[1:])
	case "echo":
		payload := strings.TrimSpace(strings.TrimPrefix(line, parts[0]))
		action = &message.Echo{Service: message.ServiceEvent, Payload: json.RawMessage(payload)}
	case "recent":
		action = &message.RecentCharacterIDs{Service: message.ServiceEvent}
	case "count":
		action = &message.RecentCharacterIDsCount{Service: message.ServiceEvent}
	default:
		slog.Error("❌ unknown command", "command", command, "help", "type help")
		return false
	}
	if err != nil {
		slog.Error("❌ usage", "err", err)
		return false
	}
	if err := client.Send(action); err != nil {
		slog.Error("❌ send", "err", err)
	}
	return false
}

// axes holds the parsed "events/chars/worlds" arguments shared by sub and
// clear.
type axes struct {
	events     *message.EventSubscription
	characters *message.CharacterSubscription
	worlds     *message.WorldSubscription
	logicalAnd *bool
}

// parseAxes reads: [events] <a,b|all> [chars <ids|all>] [worlds <names|ids|all>] [and]
func parseAxes(args []string) (axes, error) {
	var a axes
	for i := 0; i < len(args); i++ {
		key := strings.ToLower(args[i])
		if key == "and" {
			a.logicalAnd = message.Bool(true)
			continue
		}
		var value string
		switch {
		case key == "events" || key == "chars" || key == "worlds":
			if i+1 >= len(args) {
				return a, fmt.Errorf("%s needs a value", key)
			}
			i++
			value = args[i]
		case i == 0:
			// A bare first argument is the event list.
			key, value = "events", args[i]
		default:
			return a, fmt.Errorf("unexpected %q", args[i])
		}
		values := strings.Split(value, ",")
		var err error
		switch key {
		case "events":
			a.events, err = parseEvents(values)
		case "chars":
			a.characters, err = parseCharacters(values)
		case "worlds":
			a.worlds, err = parseWorlds(values)
		}
		if err != nil {
			return a, err
		}
	}
	return a, nil
}

func parseSubscribe(args []string) (message.Action, error) {
	if len(args) == 0 {
		return nil, errors.New("sub <events> [chars <ids|all>] [worlds <names|ids|all>] [and]")
	}
	a, err := parseAxes(args)
	if err != nil {
		return nil, err
	}
	return &message.Subscribe{
		Service:                        message.ServiceEvent,
		EventNames:                     a.events,
		Characters:                     a.characters,
		Worlds:                         a.worlds,
		LogicalAndCharactersWithWorlds: a.logicalAnd,
	}, nil
}

func parseClear(args []string) (message.Action, error) {
	if len(args) == 0 {
		return nil, errors.New("clear all | clear <events> [chars <ids|all>] [worlds <names|ids|all>]")
	}
	if len(args) == 1 && strings.EqualFold(args[0], "all") {
		return &message.ClearSubscribe{Service: message.ServiceEvent, All: message.Bool(true)}, nil
	}
	a, err := parseAxes(args)
	if err != nil {
		return nil, err
	}
	return &message.ClearSubscribe{
		Service:    message.ServiceEvent,
		EventNames: a.events,
		Characters: a.characters,
		Worlds:     a.worlds,
	}, nil
}

func parseEvents(values []string) (*message.EventSubscription, error) {
	if isAll(values) {
		return message.AllEvents(), nil
	}
	names := make([]message.EventName, 0, len(values))
	for _, v := range values {
		name, err := message.ParseEventName(v)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return message.Events(names...), nil
}

func parseCharacters(values []string) (*message.CharacterSubscription, error) {
	if isAll(values) {
		return message.AllCharacters(), nil
	}
	ids := make([]message.CharacterID, 0, len(values))
	for _, v := range values {
		id, err := message.ParseCharacterID(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return message.Characters(ids...), nil
}

func parseWorlds(values []string) (*message.WorldSubscription, error) {
	if isAll(values) {
		return message.AllWorlds(), nil
	}
	ids := make([]message.WorldID, 0, len(values))
	for _, v := range values {
		if id, ok := message.WorldByName(v); ok {
			ids = append(ids, id)
			continue
		}
		id, err := message.ParseWorldID(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return message.WorldsOf(ids...), nil
}

func isAll(values []string) bool {
	return len(values) == 1 && strings.EqualFold(values[0], "all")
}

func printHelp() {
	slog.Info("📖 commands")
	slog.Info("   sub <events> [chars <ids|all>] [worlds <names|ids|all>] [and]")
	slog.Info("   clear all | clear <events> [chars ...] [worlds ...]")
	slog.Info("   echo <json>")
	slog.Info("   recent | count")
	slog.Info("   status | help | quit")
}
