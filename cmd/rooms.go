package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"tavern/config"
	"tavern/media/janus"
)

// Settings of the pre-generated rooms.
const (
	DefaultRoomCount  = 100
	DefaultFirstRoom  = 1000
	roomPublishers    = 10
	roomBitrate       = 512000
	roomFIRFrequency  = 10
	roomCleanupWindow = 5 * time.Second
)

// roomDelay keeps the loop from flooding the Janus API.
var roomDelay = 50 * time.Millisecond

// RoomsConfig configures create-rooms.
type RoomsConfig struct {
	Count    int
	Start    int64
	JanusURL string
}

// ParseRooms parses the arguments of create-rooms. An empty -janus falls back to JANUS_URL.
func ParseRooms(w io.Writer, args []string) (RoomsConfig, error) {
	con := RoomsConfig{}

	fs := flag.NewFlagSet("create-rooms", flag.ContinueOnError)
	fs.SetOutput(w)
	fs.IntVar(&con.Count, "count", DefaultRoomCount, "number of rooms")
	fs.Int64Var(&con.Start, "start", DefaultFirstRoom, "id of the first room")
	fs.StringVar(&con.JanusURL, "janus", "", "janus REST endpoint")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return RoomsConfig{}, err
		}
		return RoomsConfig{}, fmt.Errorf("failed to parse args: %w: %w", err, errUsage)
	}
	if fs.NArg() != 0 {
		return RoomsConfig{}, fmt.Errorf("some args are not parsed: %w", errUsage)
	}
	if con.Count < 1 {
		return RoomsConfig{}, fmt.Errorf("count must be positive, given %d: %w", con.Count, errUsage)
	}
	if con.Start < 1 {
		return RoomsConfig{}, fmt.Errorf("start must be positive, given %d: %w", con.Start, errUsage)
	}
	return con, nil
}

func runCreateRooms(ctx context.Context, w io.Writer, args []string) error {
	con, err := ParseRooms(w, args)
	if err != nil {
		return err
	}
	if con.JanusURL == "" {
		env, err := config.Load()
		if err != nil {
			return err
		}
		con.JanusURL = env.Media.JanusURL
	}
	_, err = CreateRooms(ctx, w, janus.New(con.JanusURL, nil), con.Count, con.Start)
	return err
}

// CreateRooms creates count permanent rooms starting at room id start and
// returns how many were created. Rooms refused by Janus, for example because
// they exist already, are reported and skipped.
func CreateRooms(ctx context.Context, w io.Writer, client *janus.Client, count int, start int64) (int, error) {
	session, err := client.CreateSession(ctx)
	if err != nil {
		return 0, err
	}
	fmt.Fprintf(w, "Session created: %d\n", session.ID())
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), roomCleanupWindow)
		defer cancel()
		if err := session.Destroy(cleanupCtx); err != nil {
			fmt.Fprintf(w, "Failed to destroy session: %v\n", err)
			return
		}
		fmt.Fprintln(w, "Session destroyed.")
	}()

	handle, err := session.Attach(ctx, janus.VideoRoomPlugin)
	if err != nil {
		return 0, err
	}
	fmt.Fprintf(w, "Handle created: %d\n", handle.ID())

	created := 0
	for i := 0; i < count; i++ {
		room := start + int64(i)
		ok, err := handle.CreateRoom(ctx, janus.RoomOptions{
			Room:        room,
			Permanent:   true,
			Description: fmt.Sprintf("Pre-generated Room %d", i+1),
			Publishers:  roomPublishers,
			Bitrate:     roomBitrate,
			FIRFreq:     roomFIRFrequency,
		})

		var jerr *janus.Error
		switch {
		case ok:
			created++
			fmt.Fprintf(w, "Room %d created successfully.\n", room)
		case errors.As(err, &jerr):
			fmt.Fprintf(w, "Room %d status: %d - %s\n", room, jerr.Code, jerr.Reason)
		case err != nil:
			return created, fmt.Errorf("create room %d: %w", room, err)
		default:
			fmt.Fprintf(w, "Room %d was not created.\n", room)
		}

		if i == count-1 {
			break
		}
		select {
		case <-ctx.Done():
			return created, ctx.Err()
		case <-time.After(roomDelay):
		}
	}
	fmt.Fprintf(w, "%d of %d rooms created.\n", created, count)
	return created, nil
}
