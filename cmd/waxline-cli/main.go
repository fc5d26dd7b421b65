// Package main provides the waxline command-line client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	"github.com/soramae/waxline/internal/app/broadcast"
	"github.com/soramae/waxline/internal/app/connection"
	"github.com/soramae/waxline/internal/client"
	"github.com/soramae/waxline/internal/domain/playlist"
)

var (
	app    = kingpin.New("waxline", "waxline collaborative playlist client")
	server = app.Flag("server", "Server address").Default("http://localhost:4000").String()

	// list command
	listCmd = app.Command("list", "Show the current playlist")

	// tracks command
	tracksCmd = app.Command("tracks", "Show the track library")

	// add command
	addCmd      = app.Command("add", "Add a track to the playlist")
	addTrackID  = addCmd.Arg("track-id", "Track ID from the library").Required().String()
	addName     = addCmd.Flag("name", "Display name recorded on the item").String()
	addBeforeID = addCmd.Flag("before", "Insert before this playlist item").String()
	addAfterID  = addCmd.Flag("after", "Insert after this playlist item").String()

	// remove command
	removeCmd = app.Command("remove", "Remove a playlist item")
	removeID  = removeCmd.Arg("item-id", "Playlist item ID").Required().String()

	// move command
	moveCmd      = app.Command("move", "Move a playlist item")
	moveID       = moveCmd.Arg("item-id", "Playlist item ID").Required().String()
	moveBeforeID = moveCmd.Flag("before", "Place before this playlist item").String()
	moveAfterID  = moveCmd.Flag("after", "Place after this playlist item").String()

	// vote command
	voteCmd       = app.Command("vote", "Vote on a playlist item")
	voteID        = voteCmd.Arg("item-id", "Playlist item ID").Required().String()
	voteDirection = voteCmd.Arg("direction", "up or down").Required().Enum("up", "down")

	// play command
	playCmd = app.Command("play", "Mark a playlist item as now playing")
	playID  = playCmd.Arg("item-id", "Playlist item ID").Required().String()

	// watch command
	watchCmd = app.Command("watch", "Follow the live event stream")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	c := client.New(*server)
	ctx := context.Background()

	switch command {
	case listCmd.FullCommand():
		list(ctx, c)
	case tracksCmd.FullCommand():
		tracks(ctx, c)
	case addCmd.FullCommand():
		add(ctx, c)
	case removeCmd.FullCommand():
		remove(ctx, c)
	case moveCmd.FullCommand():
		move(ctx, c)
	case voteCmd.FullCommand():
		vote(ctx, c)
	case playCmd.FullCommand():
		play(ctx, c)
	case watchCmd.FullCommand():
		watch(ctx, c)
	}
}

func fail(err error) {
	fmt.Printf("Error: %v\n", err)
	os.Exit(1)
}

func list(ctx context.Context, c *client.Client) {
	items, err := c.List(ctx)
	if err != nil {
		fail(err)
	}
	printItems(items)
}

func printItems(items []playlist.Item) {
	if len(items) == 0 {
		fmt.Println("Playlist is empty.")
		return
	}
	for i, item := range items {
		marker := "  "
		if item.IsPlaying {
			marker = "▶ "
		}
		fmt.Printf("%s%2d. %s - %s  (votes: %d, added by %s)\n    id=%s pos=%g\n",
			marker, i+1, item.Track.Artist, item.Track.Title, item.Votes, item.AddedBy,
			item.ID, item.Position)
	}
}

func tracks(ctx context.Context, c *client.Client) {
	library, err := c.ListTracks(ctx)
	if err != nil {
		fail(err)
	}
	for _, t := range library {
		fmt.Printf("%s  %s - %s [%s] (%d:%02d)\n",
			t.ID, t.Artist, t.Title, t.Genre, t.DurationSeconds/60, t.DurationSeconds%60)
	}
}

func add(ctx context.Context, c *client.Client) {
	item, err := c.AddTrack(ctx, client.AddTrackRequest{
		TrackID:  *addTrackID,
		AddedBy:  *addName,
		BeforeID: *addBeforeID,
		AfterID:  *addAfterID,
	})
	if err != nil {
		fail(err)
	}
	fmt.Printf("Added: %s - %s (item %s at position %g)\n",
		item.Track.Artist, item.Track.Title, item.ID, item.Position)
}

func remove(ctx context.Context, c *client.Client) {
	if err := c.Remove(ctx, *removeID); err != nil {
		fail(err)
	}
	fmt.Println("Removed.")
}

func move(ctx context.Context, c *client.Client) {
	if *moveBeforeID == "" && *moveAfterID == "" {
		fail(fmt.Errorf("move requires --before and/or --after"))
	}
	item, err := c.Move(ctx, *moveID, client.MoveRequest{
		BeforeID: *moveBeforeID,
		AfterID:  *moveAfterID,
	})
	if err != nil {
		fail(err)
	}
	fmt.Printf("Moved to position %g\n", item.Position)
}

func vote(ctx context.Context, c *client.Client) {
	item, err := c.Vote(ctx, *voteID, playlist.Direction(*voteDirection))
	if err != nil {
		fail(err)
	}
	fmt.Printf("%s - %s now has %d votes\n", item.Track.Artist, item.Track.Title, item.Votes)
}

func play(ctx context.Context, c *client.Client) {
	item, err := c.SetPlaying(ctx, *playID)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Now playing: %s - %s\n", item.Track.Artist, item.Track.Title)
}

func watch(ctx context.Context, c *client.Client) {
	wsURL := strings.Replace(*server, "http", "ws", 1) + "/ws"
	sub := client.NewSubscriber(wsURL, connection.DefaultReconnectPolicy())

	view := client.NewView()
	sub.OnConnect = func(clientID string) {
		fmt.Printf("Connected as %s\n", clientID)
		items, err := c.List(ctx)
		if err != nil {
			fmt.Printf("Failed to refresh playlist: %v\n", err)
			return
		}
		view.Replace(items)
		fmt.Printf("Playlist synced (%d items)\n", view.Len())
	}
	sub.OnEvent = func(event broadcast.Event) {
		view.Apply(event)
		printEvent(event)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	fmt.Println("Watching for events. Press Ctrl+C to exit.")
	if err := sub.Run(runCtx); err != nil && runCtx.Err() == nil {
		fail(err)
	}
}

func printEvent(event broadcast.Event) {
	switch event.Type {
	case broadcast.TypeTrackAdded:
		fmt.Printf("+ added   %s - %s (pos %g)\n",
			event.Item.Track.Artist, event.Item.Track.Title, event.Item.Position)
	case broadcast.TypeTrackRemoved:
		fmt.Printf("- removed %s\n", event.ID)
	case broadcast.TypeTrackMoved:
		fmt.Printf("~ moved   %s - %s (pos %g)\n",
			event.Item.Track.Artist, event.Item.Track.Title, event.Item.Position)
	case broadcast.TypeTrackVoted:
		fmt.Printf("* voted   %s - %s (votes %d)\n",
			event.Item.Track.Artist, event.Item.Track.Title, event.Item.Votes)
	case broadcast.TypeTrackPlaying:
		fmt.Printf("▶ playing %s\n", event.ID)
	}
}
