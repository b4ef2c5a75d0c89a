package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"changuito/internal/config"
	"changuito/internal/extract"
	"changuito/internal/item"
	"changuito/internal/kv"
	"changuito/internal/llm"
	"changuito/internal/notify"
	"changuito/internal/provider"
	"changuito/internal/reconcile"
	"changuito/internal/recording"
	"changuito/internal/settings"
	"changuito/internal/store"
	"changuito/internal/tui"
)

func main() {
	_ = rootCmd.Execute()
}

var rootCmd = &cobra.Command{
	Use:   "changuito",
	Short: "Voice-powered shopping list for the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func init() {
	rootCmd.AddCommand(
		addCmd(),
		listCmd(),
		removeCmd(),
		toggleCmd(),
		totalCmd(),
		clearCmd(),
		wishlistCmd(),
		recordCmd(),
		modelsCmd(),
		configureCmd(),
		doctorCmd(),
	)
}

// env bundles everything the commands need.
type env struct {
	mgr      *config.Manager
	cfg      *config.Config
	blobs    *kv.Store
	shopping *store.Store
	wishlist *store.Store
	prefs    settings.Settings
}

func openEnv() (*env, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := mgr.GetConfig()
	blobs, err := kv.OpenDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to open data store: %w", err)
	}

	shopping := store.New(blobs, store.ShoppingKey)
	if err := shopping.Load(); err != nil {
		return nil, fmt.Errorf("failed to load shopping list: %w", err)
	}
	wishlist := store.New(blobs, store.WishlistKey)
	if err := wishlist.Load(); err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}

	prefs, err := settings.Load(blobs)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &env{mgr: mgr, cfg: cfg, blobs: blobs, shopping: shopping, wishlist: wishlist, prefs: prefs}, nil
}

func (e *env) flush() {
	e.shopping.Flush()
	e.wishlist.Flush()
}

// pick resolves the wishlist flag shared by several commands.
func (e *env) pick(wishlist bool) *store.Store {
	if wishlist {
		return e.wishlist
	}
	return e.shopping
}

func runTUI() error {
	e, err := openEnv()
	if err != nil {
		return err
	}

	// Config edits made while the app is open apply to the next
	// recording without a restart.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := e.mgr.StartWatching(ctx); err != nil {
		log.Printf("config watch unavailable: %v", err)
	}
	defer e.mgr.Stop()

	return tui.Run(e.mgr, e.blobs, e.shopping, e.wishlist, e.prefs, notify.New(e.cfg.Notifications))
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <product> [quantity] [price]",
		Short: "Add an item to the shopping list",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.flush()

			var quantity, price string
			if len(args) > 1 {
				quantity = args[1]
			}
			if len(args) > 2 {
				price = args[2]
			}
			it, err := e.shopping.Add(item.NewShopping(args[0], quantity, price))
			if err != nil {
				return fmt.Errorf("failed to add item: %w", err)
			}
			fmt.Printf("added %s x%s $%s\n", it.Product, it.Quantity, it.Price)
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the shopping list",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			printShopping(e.shopping, all)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include hidden items")
	return cmd
}

func printShopping(s *store.Store, all bool) {
	for i, it := range s.Items() {
		if !it.Visible && !all {
			continue
		}
		marker := " "
		if !it.Visible {
			marker = "-"
		}
		uncertain := ""
		if it.PriceUncertain {
			uncertain = " (?)"
		}
		fmt.Printf("%s %2d. %s x%s $%s%s\n", marker, i+1, it.Product, it.Quantity, it.Price, uncertain)
	}
	fmt.Printf("total: $%.2f\n", s.Total())
}

func removeCmd() *cobra.Command {
	var wishlist bool

	cmd := &cobra.Command{
		Use:   "remove <index>",
		Short: "Remove an item by list position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.flush()

			target := e.pick(wishlist)
			it, err := itemAt(target, args[0])
			if err != nil {
				return err
			}
			if err := target.Remove(it.ID); err != nil {
				return fmt.Errorf("failed to remove item: %w", err)
			}
			fmt.Printf("removed %s\n", it.Product)
			return nil
		},
	}
	cmd.Flags().BoolVar(&wishlist, "wishlist", false, "operate on the wishlist")
	return cmd
}

func toggleCmd() *cobra.Command {
	var wishlist bool

	cmd := &cobra.Command{
		Use:   "toggle <index>",
		Short: "Toggle an item's visibility by list position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.flush()

			target := e.pick(wishlist)
			it, err := itemAt(target, args[0])
			if err != nil {
				return err
			}
			if err := target.ToggleVisible(it.ID); err != nil {
				return fmt.Errorf("failed to toggle item: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&wishlist, "wishlist", false, "operate on the wishlist")
	return cmd
}

func totalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "total",
		Short: "Print the running total of visible items",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			fmt.Printf("$%.2f\n", e.shopping.Total())
			return nil
		},
	}
}

func clearCmd() *cobra.Command {
	var wishlist bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every item from the list",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.flush()
			e.pick(wishlist).Clear()
			return nil
		},
	}
	cmd.Flags().BoolVar(&wishlist, "wishlist", false, "operate on the wishlist")
	return cmd
}

func wishlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Manage the wishlist",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <product>",
			Short: "Add a wishlist entry",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := openEnv()
				if err != nil {
					return err
				}
				defer e.flush()
				it, err := e.wishlist.Add(item.NewWishlist(args[0]))
				if err != nil {
					return fmt.Errorf("failed to add entry: %w", err)
				}
				fmt.Printf("added %s\n", it.Product)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "Print the wishlist",
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := openEnv()
				if err != nil {
					return err
				}
				for i, it := range e.wishlist.Items() {
					marker := " "
					if !it.Visible {
						marker = "-"
					}
					fmt.Printf("%s %2d. %s\n", marker, i+1, it.Product)
				}
				return nil
			},
		},
	)
	return cmd
}

func itemAt(s *store.Store, arg string) (item.Item, error) {
	idx, err := strconv.Atoi(arg)
	if err != nil {
		return item.Item{}, fmt.Errorf("invalid index: %s", arg)
	}
	items := s.Items()
	if idx < 1 || idx > len(items) {
		return item.Item{}, fmt.Errorf("index out of range: %d", idx)
	}
	return items[idx-1], nil
}

func recordCmd() *cobra.Command {
	var wishlist bool

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Dictate items and add them to the list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd.Context(), wishlist)
		},
	}
	cmd.Flags().BoolVar(&wishlist, "wishlist", false, "add the extracted items to the wishlist")
	return cmd
}

func runRecord(ctx context.Context, toWishlist bool) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.flush()

	apiKey := e.prefs.APIKey(e.cfg.Backend.Provider)
	if apiKey == "" {
		return fmt.Errorf("no API key configured, run 'changuito configure'")
	}
	notifier := notify.New(e.cfg.Notifications)

	recorder := recording.NewRecorder(recording.ConfigFrom(e.cfg.Recording))
	session, err := recorder.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start recording: %w", err)
	}
	notifier.RecordingStarted()

	fmt.Println("Recording... press Enter to stop")
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')

	clip, err := session.Stop()
	notifier.RecordingEnded()
	if err != nil {
		return fmt.Errorf("failed to stop recording: %w", err)
	}

	mode := extract.ModeShopping
	if toWishlist {
		mode = extract.ModeWishlist
	}

	notifier.Extracting()
	client, err := extract.NewClient(ctx, extract.Config{
		Provider: e.cfg.Backend.Provider,
		Model:    e.prefs.Model,
		APIKey:   apiKey,
		Language: e.cfg.Backend.Language,
	})
	if err != nil {
		return err
	}
	candidates, err := client.ExtractItems(ctx, &clip, mode)
	if err != nil {
		notifier.Error("Extraction failed")
		return fmt.Errorf("extraction failed: %w", err)
	}
	if len(candidates) == 0 {
		fmt.Println("no items heard")
		return nil
	}

	if toWishlist {
		added, err := e.wishlist.AddBatch(extract.ToWishlistItems(candidates))
		if err != nil {
			return fmt.Errorf("failed to add items: %w", err)
		}
		notifier.ItemsAdded(len(added), "wishlist")
		for _, it := range added {
			fmt.Printf("added %s\n", it.Product)
		}
		return nil
	}

	added, err := e.shopping.AddBatch(extract.ToShoppingItems(candidates))
	if err != nil {
		return fmt.Errorf("failed to add items: %w", err)
	}
	notifier.ItemsAdded(len(added), "shopping list")
	for _, it := range added {
		fmt.Printf("added %s x%s $%s\n", it.Product, it.Quantity, it.Price)
	}

	if e.prefs.AutoHideWishlistOnAdd {
		gen, err := llm.NewGenerator(ctx, llm.Config{
			Provider: e.cfg.Backend.Provider,
			Model:    e.prefs.Model,
			APIKey:   apiKey,
		})
		if err != nil {
			return err
		}
		if err := reconcile.New(gen, e.wishlist).Run(ctx, added); err != nil {
			// Reconciliation is best effort.
			fmt.Fprintf(os.Stderr, "wishlist sync failed: %v\n", err)
		}
	}
	return nil
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the available chat models",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			for _, m := range provider.ChatModels() {
				marker := "   "
				if m.ID == e.prefs.Model {
					marker = " * "
				}
				fmt.Printf("%s%s - %s\n", marker, m.ID, m.Label)
			}
			return nil
		},
	}
}
