// File: hotelier/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"hotelier/api"
	"hotelier/booking"
	"hotelier/concierge"
	"hotelier/config"
	"hotelier/models"
	"hotelier/prefs"
	"hotelier/session"
	"hotelier/storage"
	"hotelier/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	store, err := openStore(logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to open storage: %v", err)
	}

	sess := session.NewManager(store, logger)
	sess.Restore()

	client := api.New(config.AppConfig.APIBaseURL, config.HTTPTimeout(), sess, logger, config.AppConfig.VerboseHTTP)
	calc := booking.NewCalculator(store, logger)
	calc.Restore()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if err := run(ctx, os.Args[1], os.Args[2:], client, calc, prefs.NewManager(store), logger); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openStore prefers Redis when configured, otherwise the local file store.
func openStore(logger *zap.Logger) (storage.Store, error) {
	if addr := config.AppConfig.RedisAddr; addr != "" {
		store, err := storage.NewRedisStore(addr, config.AppConfig.RedisPassword, config.AppConfig.RedisDraftDB, 0)
		if err == nil {
			return store, nil
		}
		logger.Warn("redis storage unavailable, falling back to file store", zap.Error(err))
	}
	return storage.NewFileStore(config.AppConfig.StorageDir)
}

func run(ctx context.Context, cmd string, args []string, client *api.Client, calc *booking.Calculator, pm *prefs.Manager, logger *zap.Logger) error {
	switch cmd {
	case "login":
		if len(args) != 2 {
			return fmt.Errorf("usage: login <email> <password>")
		}
		identity, err := client.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("signed in as %s <%s>\n", identity.Name, identity.Email)

	case "logout":
		client.Logout(ctx)
		fmt.Println("signed out")

	case "whoami":
		identity, err := client.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s> (%s)\n", identity.Name, identity.Email, identity.Role)

	case "rooms":
		var q models.RoomQuery
		if len(args) >= 2 {
			q.CheckIn, q.CheckOut = args[0], args[1]
		}
		if len(args) >= 3 {
			g, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("usage: rooms [check_in check_out [guests]]")
			}
			q.Guests = g
		}
		list, err := client.Rooms(ctx, q)
		if err != nil {
			return err
		}
		for _, r := range list.Rooms {
			fmt.Printf("%-12s %-24s %6.2f/night  sleeps %d\n", r.ID, r.Name, r.NightlyRate, r.Capacity)
		}
		fmt.Printf("%d rooms\n", list.TotalCount)

	case "book":
		if len(args) != 4 {
			return fmt.Errorf("usage: book <room_id> <check_in> <check_out> <guests>")
		}
		checkIn, err := time.Parse(models.DateLayout, args[1])
		if err != nil {
			return utils.NewValidationError("check_in", "expected YYYY-MM-DD")
		}
		checkOut, err := time.Parse(models.DateLayout, args[2])
		if err != nil {
			return utils.NewValidationError("check_out", "expected YYYY-MM-DD")
		}
		guests, err := strconv.Atoi(args[3])
		if err != nil {
			return utils.NewValidationError("guest_count", "expected a number")
		}
		room, err := findRoom(ctx, client, args[0])
		if err != nil {
			return err
		}
		if err := calc.Start(*room, checkIn, checkOut, guests); err != nil {
			return err
		}
		draft := calc.Snapshot()
		fmt.Printf("%d nights at %.2f = %.2f (final price set by the hotel)\n", draft.Nights, room.NightlyRate, draft.TotalPrice)
		booked, err := calc.Submit(ctx, client)
		if err != nil {
			return err
		}
		fmt.Printf("booked: %s (%s), status %s, total %.2f\n", booked.ID, booked.RoomType, booked.Status, booked.TotalPrice)

	case "chat":
		if len(args) == 0 {
			return fmt.Errorf("usage: chat <message>")
		}
		conv := concierge.New(client, config.AppConfig.ChatRatePerMin, logger)
		resp, err := conv.Send(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Println(resp.ResponseText)
		for _, a := range resp.Actions {
			fmt.Printf("  [%s] %s\n", a.Type, a.Label)
		}

	case "theme":
		if len(args) == 1 {
			pm.SetTheme(prefs.Theme(args[0]))
		}
		fmt.Printf("theme: %s (resolves to %s)\n", pm.Theme(), pm.Resolve(systemPrefersDark()))

	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func findRoom(ctx context.Context, client *api.Client, id string) (*models.Room, error) {
	list, err := client.Rooms(ctx, models.RoomQuery{})
	if err != nil {
		return nil, err
	}
	for i := range list.Rooms {
		if list.Rooms[i].ID == id {
			return &list.Rooms[i], nil
		}
	}
	return nil, utils.NewValidationError("room", "no such room: "+id)
}

// systemPrefersDark reads the host's dark-mode hint. Terminals have no media
// query, so an environment variable stands in for it.
func systemPrefersDark() bool {
	return os.Getenv("HOTELIER_SYSTEM_DARK") == "1"
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: hotelier <command>

commands:
  login <email> <password>
  logout
  whoami
  rooms [check_in check_out [guests]]
  book <room_id> <check_in> <check_out> <guests>
  chat <message>
  theme [light|dark|system]`)
}
