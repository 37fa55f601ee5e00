package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/bookscout/internal/config"
	"github.com/lepinkainen/bookscout/internal/covers"
	"github.com/lepinkainen/bookscout/internal/enrich"
	"github.com/lepinkainen/bookscout/internal/fetcher"
	"github.com/lepinkainen/bookscout/internal/openlibrary"
	"github.com/lepinkainen/bookscout/internal/persist"
	"github.com/lepinkainen/bookscout/internal/store"
	"github.com/lepinkainen/bookscout/internal/tui"
)

var runBrowseUI = tui.Run

// CLI represents the complete command structure for the bookscout application
type CLI struct {
	// Global flags
	DataDir      string `help:"Directory for favorites.txt and notes.json" default:"./data"`
	PageSize     int    `help:"Number of search results per page" default:"10"`
	PollInterval string `help:"How often the fetch worker checks for pending searches" default:"100ms"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 720h for 30 days)" default:"720h"`

	Browse    BrowseCmd    `cmd:"" default:"1" help:"Interactive catalog browser"`
	Search    SearchCmd    `cmd:"" help:"One-shot catalog search printed to stdout"`
	Favorites FavoritesCmd `cmd:"" help:"Print favorited books with resolved details"`
}

// BrowseCmd represents the interactive browse command
type BrowseCmd struct{}

// SearchCmd represents the one-shot search command
type SearchCmd struct {
	Query  []string `arg:"" help:"Search terms"`
	Author bool     `help:"Search by author instead of title"`
	Page   int      `help:"Result page to fetch" default:"1"`
}

// FavoritesCmd represents the favorites listing command
type FavoritesCmd struct {
	DownloadCovers bool `help:"Download cover images for favorites into the data directory"`
	UpdateCovers   bool `help:"Re-download cover images even if they already exist"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("bookscout"),
		kong.Description("Search the Open Library catalog, mark favorites and attach notes."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)

	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("datadir", "./data")
	viper.SetDefault("pagesize", 10)
	viper.SetDefault("pollinterval", "100ms")

	// Cache defaults
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "720h") // 30 days

	// Enable environment variable support
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Debug("Config file not found, using defaults")
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	// Initialize global config
	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	viper.Set("datadir", cli.DataDir)
	viper.Set("pagesize", cli.PageSize)
	viper.Set("pollinterval", cli.PollInterval)

	// Update cache config
	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.ttl", cli.CacheTTL)

	config.InitConfig()
}

// Run methods for each command

func (b *BrowseCmd) Run() error {
	favorites, notes := persist.Load(config.DataDir)
	st := store.New(favorites, notes)

	client := openlibrary.NewClient()
	coord := fetcher.New(st, client, config.PollInterval)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		coord.Run(ctx)
	}()

	uiErr := runBrowseUI(st, enrich.New(st, client), coord.Outcomes(), config.PageSize)

	// Stop the fetch worker before saving; shutdown latency is bounded by
	// the poll interval.
	cancel()
	wg.Wait()

	if err := persist.Save(config.DataDir, st.Favorites(), st.Notes()); err != nil {
		slog.Error("Failed to save favorites and notes", "error", err)
		if uiErr == nil {
			return err
		}
	}
	return uiErr
}

func (s *SearchCmd) Run() error {
	query := strings.Join(s.Query, " ")
	if query == "" {
		return fmt.Errorf("search query is required")
	}

	kind := store.SearchByTitle
	if s.Author {
		kind = store.SearchByAuthor
	}

	favorites, notes := persist.Load(config.DataDir)
	st := store.New(favorites, notes)

	client := openlibrary.NewClient()
	coord := fetcher.New(st, client, config.PollInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		coord.Run(ctx)
	}()

	st.SetPendingSearch(store.SearchRequest{
		Query: query,
		Kind:  kind,
		Limit: config.PageSize,
		Page:  s.Page,
	})

	outcome := <-coord.Outcomes()
	cancel()
	wg.Wait()

	if outcome.Err != nil {
		return outcome.Err
	}

	printBooks(st.Snapshot().Books)
	return nil
}

func (f *FavoritesCmd) Run() error {
	favorites, notes := persist.Load(config.DataDir)
	st := store.New(favorites, notes)

	if len(st.Favorites()) == 0 {
		fmt.Println("No favorites saved.")
		return nil
	}

	client := openlibrary.NewClient()
	books := enrich.New(st, client).FavoriteBooks(context.Background())
	printBooks(books)

	if !f.DownloadCovers {
		return nil
	}

	config.SetUpdateCovers(f.UpdateCovers)
	downloader := covers.NewDownloader()
	coverDir := config.DataDir + "/covers"
	for _, book := range books {
		if book.CoverID <= 0 {
			continue
		}
		path, err := downloader.Download(context.Background(), book.CoverID, coverDir, book.Title, config.UpdateCovers)
		if err != nil {
			slog.Warn("Cover download failed", "title", book.Title, "error", err)
			continue
		}
		slog.Info("Cover saved", "title", book.Title, "path", path)
	}
	return nil
}

func printBooks(books []store.Book) {
	if len(books) == 0 {
		fmt.Println("No results.")
		return
	}
	for i, book := range books {
		author := "Unknown author"
		if len(book.AuthorNames) > 0 {
			author = strings.Join(book.AuthorNames, ", ")
		}
		marker := " "
		if book.IsFavorite {
			marker = "*"
		}
		year := ""
		if book.FirstPublishYear > 0 {
			year = fmt.Sprintf(" (%d)", book.FirstPublishYear)
		}
		fmt.Printf("%s %2d. %s%s by %s\n", marker, i+1, book.Title, year, author)
		if book.Note != nil && book.Note.Text != "" {
			fmt.Printf("       note: %s\n", book.Note.Text)
		}
	}
}

func initLogging() {
	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: slog.LevelInfo,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}
